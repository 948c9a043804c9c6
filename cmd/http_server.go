package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/attachment"
	attachmentRepo "github.com/frahmantamala/correspondence-management/internal/attachment/postgres"
	"github.com/frahmantamala/correspondence-management/internal/audit"
	auditRepo "github.com/frahmantamala/correspondence-management/internal/audit/postgres"
	"github.com/frahmantamala/correspondence-management/internal/auth"
	authRepo "github.com/frahmantamala/correspondence-management/internal/auth/postgres"
	"github.com/frahmantamala/correspondence-management/internal/core/events"
	"github.com/frahmantamala/correspondence-management/internal/correspondence"
	correspondenceRepo "github.com/frahmantamala/correspondence-management/internal/correspondence/postgres"
	"github.com/frahmantamala/correspondence-management/internal/dashboard"
	dashboardRepo "github.com/frahmantamala/correspondence-management/internal/dashboard/postgres"
	"github.com/frahmantamala/correspondence-management/internal/entity"
	entityRepo "github.com/frahmantamala/correspondence-management/internal/entity/postgres"
	"github.com/frahmantamala/correspondence-management/internal/role"
	roleRepo "github.com/frahmantamala/correspondence-management/internal/role/postgres"
	"github.com/frahmantamala/correspondence-management/internal/transport/rest"
	"github.com/frahmantamala/correspondence-management/internal/transport/swagger"
	"github.com/frahmantamala/correspondence-management/internal/user"
	userRepo "github.com/frahmantamala/correspondence-management/internal/user/postgres"
	"github.com/frahmantamala/correspondence-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)

	gdb, err := initDB(config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		slog.Error("Failed to access database handle", "error", err)
		os.Exit(1)
	}

	// fail fast on a malformed API document
	if _, err := swagger.LoadSpec("./api/openapi.yml"); err != nil {
		slog.Error("Invalid OpenAPI document", "error", err)
		os.Exit(1)
	}

	router, err := buildRouter(config, gdb)
	if err != nil {
		slog.Error("Failed to wire dependencies", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func buildRouter(config *internal.Config, gdb *gorm.DB) (*chi.Mux, error) {
	log := logger.L()
	bus := events.NewEventBus(log)

	storage, err := attachment.NewDiskStorage(config.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	auditService := audit.NewService(auditRepo.NewAuditRepository(gdb), log)
	auditService.SubscribeTo(bus)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.JWTSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo.NewAuthRepository(gdb), tokenGen, log)

	entityRepository := entityRepo.NewEntityRepository(gdb)
	attachmentRepository := attachmentRepo.NewAttachmentRepository(gdb)

	userService := user.NewService(userRepo.NewUserRepository(gdb), config.Security.BCryptCost, log)
	roleService := role.NewService(roleRepo.NewRoleRepository(gdb), log)
	entityService := entity.NewService(entityRepository, log)
	correspondenceService := correspondence.NewService(
		correspondenceRepo.NewCorrespondenceRepository(gdb), entityRepository, log)
	attachmentService := attachment.NewService(
		attachmentRepository, storage, attachmentRepository, config.Storage.MaxUploadSize, log)
	dashboardService := dashboard.NewService(dashboardRepo.NewDashboardRepository(gdb), log)

	handlers := rest.Handlers{
		Auth:           auth.NewHandler(authService, bus),
		User:           user.NewHandler(userService, bus),
		Role:           role.NewHandler(roleService),
		Entity:         entity.NewHandler(entityService, bus),
		Correspondence: correspondence.NewHandler(correspondenceService, bus),
		Attachment:     attachment.NewHandler(attachmentService, bus, config.Storage.MaxUploadSize),
		Audit:          audit.NewHandler(auditService),
		Dashboard:      dashboard.NewHandler(dashboardService),
	}

	rbac := auth.NewRBACAuthorization(log)

	router := chi.NewRouter()
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("access database handle: %w", err)
	}
	rest.RegisterAllRoutes(router, sqlDB, handlers, rbac, config.Server.AllowedOrigins, log)

	return router, nil
}

// initDB opens the configured driver. Postgres goes through sqlx over
// pgx stdlib first so pool limits apply to the shared *sql.DB handed
// to gorm; sqlite opens directly for local development.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		gdb, err := gorm.Open(gormsqlite.Open(cfg.Source), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return gdb, nil
	default:
		dbConn, err := sqlx.Connect("pgx", cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to open db connection: %w", err)
		}

		dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
		dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		if err := dbConn.Ping(); err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
		if err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("failed to open gorm over postgres: %w", err)
		}
		return gdb, nil
	}
}

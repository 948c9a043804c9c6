package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with reference data",
	Long:  `Seed roles, permissions, an admin account and sample entities. Safe to re-run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			clearSeedData(db)
		}

		seedPermissions(db)
		seedRoles(db)
		seedAdminUser(db, cfg.Security.BCryptCost)
		seedEntities(db)

		fmt.Println("Seeding complete")
	},
}

var seedPermissionList = []struct {
	Name   string
	NameAr string
}{
	{"correspondence:create", "إنشاء المراسلات"},
	{"correspondence:read", "عرض المراسلات"},
	{"correspondence:update", "تعديل المراسلات"},
	{"correspondence:delete", "حذف المراسلات"},
	{"correspondence:review", "مراجعة المراسلات"},
	{"entity:create", "إنشاء الجهات"},
	{"entity:read", "عرض الجهات"},
	{"entity:update", "تعديل الجهات"},
	{"entity:delete", "حذف الجهات"},
	{"user:create", "إنشاء المستخدمين"},
	{"user:read", "عرض المستخدمين"},
	{"user:update", "تعديل المستخدمين"},
	{"user:delete", "حذف المستخدمين"},
	{"report:read", "عرض التقارير"},
}

// role name -> granted permissions. The admin role bypasses checks at
// request time but still gets explicit grants for visibility.
var seedRoleGrants = map[string][]string{
	"admin": allPermissionNames(),
	"reviewer": {
		"correspondence:read", "correspondence:update", "correspondence:review",
		"entity:read", "report:read",
	},
	"employee": {
		"correspondence:create", "correspondence:read", "correspondence:update",
		"entity:read", "report:read",
	},
	"viewer": {
		"correspondence:read", "entity:read", "report:read",
	},
}

func allPermissionNames() []string {
	names := make([]string, 0, len(seedPermissionList))
	for _, p := range seedPermissionList {
		names = append(names, p.Name)
	}
	return names
}

func seedPermissions(db *gorm.DB) {
	for _, p := range seedPermissionList {
		var id int64
		row := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row()
		if err := row.Scan(&id); err == nil {
			continue
		}
		// permission names are "resource:action"
		resource, action, _ := strings.Cut(p.Name, ":")
		if err := db.Exec(`INSERT INTO permissions (name, name_ar, resource, action, created_at, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			p.Name, p.NameAr, resource, action).Error; err != nil {
			log.Fatalf("failed to insert permission %s: %v", p.Name, err)
		}
		fmt.Println("Seeded permission:", p.Name)
	}
}

var seedRoleNamesAr = map[string]string{
	"admin":    "مدير النظام",
	"reviewer": "مراجع",
	"employee": "موظف",
	"viewer":   "مشاهد",
}

func seedRoles(db *gorm.DB) {
	for roleName, grants := range seedRoleGrants {
		var roleID int64
		row := db.Raw("SELECT id FROM roles WHERE name = ?", roleName).Row()
		if err := row.Scan(&roleID); err != nil {
			if err := db.Exec(`INSERT INTO roles (name, name_ar, description, description_ar, created_at, updated_at)
				VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
				roleName, seedRoleNamesAr[roleName], roleName+" role", "دور "+seedRoleNamesAr[roleName]).Error; err != nil {
				log.Fatalf("failed to insert role %s: %v", roleName, err)
			}
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", roleName).Row().Scan(&roleID); err != nil {
				log.Fatalf("failed to read back role %s: %v", roleName, err)
			}
			fmt.Println("Seeded role:", roleName)
		}

		for _, permName := range grants {
			var permID int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&permID); err != nil {
				log.Fatalf("permission %s missing for role %s: %v", permName, roleName, err)
			}
			var exists int
			row := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", roleID, permID).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)", roleID, permID).Error; err != nil {
				log.Fatalf("failed to grant %s to %s: %v", permName, roleName, err)
			}
		}
	}
}

func seedAdminUser(db *gorm.DB, bcryptCost int) {
	const adminUsername = "admin"

	var exists int
	row := db.Raw("SELECT 1 FROM users WHERE username = ?", adminUsername).Row()
	if err := row.Scan(&exists); err == nil {
		fmt.Println("admin user already exists")
		return
	}

	var roleID int64
	if err := db.Raw("SELECT id FROM roles WHERE name = ?", "admin").Row().Scan(&roleID); err != nil {
		log.Fatalf("admin role missing: %v", err)
	}

	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	if err := db.Exec(`INSERT INTO users (username, email, password_hash, full_name_ar, full_name_en, role_id, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		adminUsername, "admin@example.com", string(hash), "مدير النظام", "System Administrator", roleID, true).Error; err != nil {
		log.Fatalf("failed to insert admin user: %v", err)
	}
	fmt.Println("Seeded admin user:", adminUsername)
}

func seedEntities(db *gorm.DB) {
	entities := []struct {
		NameAr string
		NameEn string
		Type   string
	}{
		{"الرئاسة العامة", "General Presidency", "presidency"},
		{"الشركة التابعة الأولى", "First Subsidiary", "subsidiary"},
	}

	for _, e := range entities {
		var exists int
		row := db.Raw("SELECT 1 FROM entities WHERE name_ar = ?", e.NameAr).Row()
		if err := row.Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec(`INSERT INTO entities (name_ar, name_en, type, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			e.NameAr, e.NameEn, e.Type, true).Error; err != nil {
			log.Fatalf("failed to insert entity %s: %v", e.NameEn, err)
		}
		fmt.Println("Seeded entity:", e.NameEn)
	}
}

func clearSeedData(db *gorm.DB) {
	for _, table := range []string{"role_permissions", "permissions"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	fmt.Println("Cleared permission tables")
}

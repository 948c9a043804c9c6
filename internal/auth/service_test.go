package auth_test

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/correspondence-management/internal/auth"
	coreuser "github.com/frahmantamala/correspondence-management/internal/core/user"
)

// Mock user repository for testing
type mockUserRepository struct {
	credentials map[string]*auth.Credentials
	users       map[int64]*coreuser.User
	lastLogins  map[int64]time.Time
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		credentials: make(map[string]*auth.Credentials),
		users:       make(map[int64]*coreuser.User),
		lastLogins:  make(map[int64]time.Time),
	}
}

func (m *mockUserRepository) addUser(username, password string, active bool, u *coreuser.User) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.credentials[username] = &auth.Credentials{
		UserID:       u.ID,
		PasswordHash: string(hash),
		IsActive:     active,
	}
	if active {
		m.users[u.ID] = u
	}
}

func (m *mockUserRepository) GetCredentialsByUsername(username string) (*auth.Credentials, error) {
	creds, exists := m.credentials[username]
	if !exists {
		return nil, errors.New("record not found")
	}
	return creds, nil
}

func (m *mockUserRepository) GetUserWithPermissions(userID int64) (*coreuser.User, error) {
	u, exists := m.users[userID]
	if !exists {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (m *mockUserRepository) UpdateLastLogin(userID int64, at time.Time) error {
	m.lastLogins[userID] = at
	return nil
}

var _ = Describe("JWTTokenGenerator", func() {
	var gen *auth.JWTTokenGenerator

	BeforeEach(func() {
		gen = auth.NewJWTTokenGenerator("test-secret", 15*time.Minute, 7*24*time.Hour)
	})

	It("round-trips an access token", func() {
		token, err := gen.GenerateAccessToken(42)
		Expect(err).ToNot(HaveOccurred())

		claims, err := gen.ValidateToken(token, auth.TokenTypeAccess)
		Expect(err).ToNot(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(42)))
		Expect(claims.TokenType).To(Equal(auth.TokenTypeAccess))
	})

	It("rejects a refresh token presented as an access token", func() {
		token, err := gen.GenerateRefreshToken(42)
		Expect(err).ToNot(HaveOccurred())

		_, err = gen.ValidateToken(token, auth.TokenTypeAccess)
		Expect(err).To(Equal(auth.ErrInvalidToken))
	})

	It("rejects an access token presented for refresh", func() {
		token, err := gen.GenerateAccessToken(42)
		Expect(err).ToNot(HaveOccurred())

		_, err = gen.ValidateToken(token, auth.TokenTypeRefresh)
		Expect(err).To(Equal(auth.ErrInvalidToken))
	})

	It("rejects a tampered token", func() {
		token, err := gen.GenerateAccessToken(42)
		Expect(err).ToNot(HaveOccurred())

		parts := strings.Split(token, ".")
		tampered := parts[0] + "." + parts[1] + "x." + parts[2]
		_, err = gen.ValidateToken(tampered, auth.TokenTypeAccess)
		Expect(err).To(Equal(auth.ErrInvalidToken))
	})

	It("rejects a token signed with a different secret", func() {
		other := auth.NewJWTTokenGenerator("other-secret", 15*time.Minute, time.Hour)
		token, err := other.GenerateAccessToken(42)
		Expect(err).ToNot(HaveOccurred())

		_, err = gen.ValidateToken(token, auth.TokenTypeAccess)
		Expect(err).To(Equal(auth.ErrInvalidToken))
	})

	It("rejects an expired token", func() {
		// constructed directly so the negative TTL is not replaced
		// with the constructor default
		expired := &auth.JWTTokenGenerator{
			Secret:          []byte("test-secret"),
			AccessTokenTTL:  -time.Minute,
			RefreshTokenTTL: time.Hour,
		}
		token, err := expired.GenerateAccessToken(42)
		Expect(err).ToNot(HaveOccurred())

		_, err = gen.ValidateToken(token, auth.TokenTypeAccess)
		Expect(err).To(Equal(auth.ErrTokenExpired))
	})
})

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockUserRepository
	)

	adminUser := &coreuser.User{
		ID:       1,
		Username: "admin",
		RoleName: "admin",
	}

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		mockRepo.addUser("admin", "admin123", true, adminUser)
		gen := auth.NewJWTTokenGenerator("test-secret", 15*time.Minute, 7*24*time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, gen, logger)
	})

	Describe("Authenticate", func() {
		It("returns a token pair and the resolved identity", func() {
			resp, err := service.Authenticate(auth.LoginDTO{Username: "admin", Password: "admin123"})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.AccessToken).ToNot(BeEmpty())
			Expect(resp.RefreshToken).ToNot(BeEmpty())
			Expect(resp.User.Username).To(Equal("admin"))
			Expect(mockRepo.lastLogins).To(HaveKey(int64(1)))
		})

		It("fails identically for wrong password and unknown user", func() {
			_, wrongPass := service.Authenticate(auth.LoginDTO{Username: "admin", Password: "nottheone"})
			_, unknown := service.Authenticate(auth.LoginDTO{Username: "nobody", Password: "admin123"})

			Expect(wrongPass).To(Equal(auth.ErrInvalidCredentials))
			Expect(unknown).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an inactive account with the same error", func() {
			mockRepo.addUser("ghost", "secret123", false, &coreuser.User{ID: 2, Username: "ghost"})

			_, err := service.Authenticate(auth.LoginDTO{Username: "ghost", Password: "secret123"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects malformed input before hitting the repository", func() {
			_, err := service.Authenticate(auth.LoginDTO{Username: "ab", Password: "x"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RefreshTokens", func() {
		It("exchanges a refresh token for a new pair", func() {
			resp, err := service.Authenticate(auth.LoginDTO{Username: "admin", Password: "admin123"})
			Expect(err).ToNot(HaveOccurred())

			tokens, err := service.RefreshTokens(resp.RefreshToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
		})

		It("rejects an access token on the refresh path", func() {
			resp, err := service.Authenticate(auth.LoginDTO{Username: "admin", Password: "admin123"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.RefreshTokens(resp.AccessToken)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("revokes refresh for a user that disappeared", func() {
			resp, err := service.Authenticate(auth.LoginDTO{Username: "admin", Password: "admin123"})
			Expect(err).ToNot(HaveOccurred())

			delete(mockRepo.users, 1)
			_, err = service.RefreshTokens(resp.RefreshToken)
			Expect(err).To(Equal(auth.ErrUserInactive))
		})
	})

	Describe("ResolveAccessToken", func() {
		It("loads the identity with permissions", func() {
			resp, err := service.Authenticate(auth.LoginDTO{Username: "admin", Password: "admin123"})
			Expect(err).ToNot(HaveOccurred())

			identity, err := service.ResolveAccessToken(resp.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(identity.ID).To(Equal(int64(1)))
			Expect(identity.IsAdmin()).To(BeTrue())
		})

		It("rejects garbage", func() {
			_, err := service.ResolveAccessToken("not.a.token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})
})

var _ = Describe("Identity permissions", func() {
	It("grants admin every permission regardless of role casing", func() {
		for _, role := range []string{"admin", "Admin", "ADMIN"} {
			u := &coreuser.User{ID: 1, RoleName: role}
			Expect(u.Can("correspondence:delete")).To(BeTrue())
			Expect(u.IsAdmin()).To(BeTrue())
		}
	})

	It("checks the permission set for everyone else", func() {
		u := &coreuser.User{
			ID:          2,
			RoleName:    "employee",
			Permissions: []string{"correspondence:read", "correspondence:create"},
		}
		Expect(u.Can("correspondence:read")).To(BeTrue())
		Expect(u.Can("correspondence:delete")).To(BeFalse())
		Expect(u.IsAdmin()).To(BeFalse())
	})

	It("matches roles case-insensitively", func() {
		u := &coreuser.User{ID: 3, RoleName: "Reviewer"}
		Expect(u.HasRole("reviewer")).To(BeTrue())
		Expect(u.HasRole("admin", "reviewer")).To(BeTrue())
		Expect(u.HasRole("viewer")).To(BeFalse())
	})
})

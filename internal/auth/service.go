package auth

import (
	"log/slog"
	"time"

	coreuser "github.com/frahmantamala/correspondence-management/internal/core/user"
	"golang.org/x/crypto/bcrypt"
)

// Credentials is the subset of the user row needed to authenticate.
type Credentials struct {
	UserID       int64
	PasswordHash string
	IsActive     bool
}

// UserRepository is the data access the resolver needs: credentials for
// login, and the role/permission join for every request.
type UserRepository interface {
	GetCredentialsByUsername(username string) (*Credentials, error)
	GetUserWithPermissions(userID int64) (*coreuser.User, error)
	UpdateLastLogin(userID int64, at time.Time) error
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns a token pair plus the
// resolved identity. Missing user, wrong password and inactive account
// are indistinguishable to the caller.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creds, err := s.userRepo.GetCredentialsByUsername(dto.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !creds.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(creds.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(creds.UserID, time.Now()); err != nil {
		s.logger.Warn("failed to stamp last login", "user_id", creds.UserID, "error", err)
	}

	identity, err := s.userRepo.GetUserWithPermissions(creds.UserID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{AuthTokens: *tokens, User: identity}, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair. The
// user is re-checked so deactivation revokes outstanding refreshes.
func (s *Service) RefreshTokens(refreshToken string) (*AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetUserWithPermissions(claims.UserID); err != nil {
		return nil, ErrUserInactive
	}

	return s.issueTokens(claims.UserID)
}

// ResolveAccessToken validates an access token and loads the identity
// with its effective permission set.
func (s *Service) ResolveAccessToken(tokenString string) (*coreuser.User, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	identity, err := s.userRepo.GetUserWithPermissions(claims.UserID)
	if err != nil {
		return nil, ErrUserInactive
	}

	return identity, nil
}

func (s *Service) issueTokens(userID int64) (*AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

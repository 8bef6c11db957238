package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MaxymDv/CloudDrive-System/internal/common"
	"github.com/MaxymDv/CloudDrive-System/internal/server/auth"
	"github.com/MaxymDv/CloudDrive-System/internal/server/config"
	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
	"github.com/MaxymDv/CloudDrive-System/internal/server/repositories/repomanager"
)

// UserService provides registration, credential verification, token
// issuance, and token-based identity resolution.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user with a bcrypt-hashed password. A taken
// username yields ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and, on success, returns a signed access
// token. Unknown usernames and wrong passwords are indistinguishable to the
// caller: both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrorInternal
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", common.ErrInvalidCredentials
	}
	return auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
}

// Authenticate resolves an access token to the user it was issued to.
// Every failure surfaces as ErrorUnauthenticated.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthenticated
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthenticated
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

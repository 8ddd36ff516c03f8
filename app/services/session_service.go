package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/repositories"
	"github.com/shashiranjanraj/kasir/pkg/apperr"
	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/logger"
)

// SessionService signs users in and resolves session tokens.
type SessionService struct {
	users *repositories.UserRepository
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{users: repositories.NewUserRepository(db)}
}

// Login checks username and password of an active user and issues a token.
// Unknown users and wrong passwords fail the same way.
func (s *SessionService) Login(ctx context.Context, username, password string) (string, models.User, error) {
	u, err := s.users.FindActiveByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, fmt.Errorf("session: find user: %w", err)
	}
	if !auth.CheckPassword(u.Password, password) {
		logger.WithCtx(ctx).Info("login failed", "username", username)
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.Issue(u)
	if err != nil {
		return "", models.User{}, err
	}
	logger.WithCtx(ctx).Info("login", "user_id", u.ID)
	return token, u, nil
}

// Issue signs a token for u.
func (s *SessionService) Issue(u models.User) (string, error) {
	token, err := auth.GenerateToken(u.ID, string(u.Level))
	if err != nil {
		return "", fmt.Errorf("session: issue: %w", err)
	}
	return token, nil
}

// Resolve validates token and returns the caller it identifies. The user
// must still exist, not be deleted, and not have changed their password
// after the token was issued. The role comes from the stored user, so a
// level change applies to tokens already issued.
func (s *SessionService) Resolve(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return auth.Identity{}, apperr.Wrap(apperr.Unauthorized, "Invalid or expired token", err)
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.Identity{}, ErrSessionRevoked
	}
	if err != nil {
		return auth.Identity{}, fmt.Errorf("session: find user %d: %w", claims.UserID, err)
	}
	if u.Deleted {
		return auth.Identity{}, ErrSessionRevoked
	}
	// iat has whole-second precision, so a token signed in the same second
	// as the password change survives it. Writers backdate the change by 1s
	// so tokens issued right after it stay valid.
	if claims.IssuedAt().Before(u.PasswordUpdatedAt.Truncate(time.Second)) {
		return auth.Identity{}, ErrSessionRevoked
	}

	return auth.Identity{UserID: u.ID, Role: string(u.Level)}, nil
}

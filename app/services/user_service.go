package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/repositories"
	"github.com/shashiranjanraj/kasir/pkg/apperr"
	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/logger"
)

// NewUser is the input of UserService.Create.
type NewUser struct {
	Name     string
	Username string
	Password string
	Level    models.Level
}

// UserPatch is the input of UserService.Update. A nil or empty field keeps
// its stored value.
type UserPatch struct {
	Name     string
	Username string
	Password string
	Level    *models.Level
}

// UserService manages staff accounts.
type UserService struct {
	users *repositories.UserRepository
	now   func() time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{users: repositories.NewUserRepository(db), now: time.Now}
}

// WithClock replaces the clock used to stamp password changes.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	cp := *s
	cp.now = now
	return &cp
}

// Create stores a new account with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, in NewUser) (models.User, error) {
	if !in.Level.Valid() {
		return models.User{}, apperr.New(apperr.BadRequest, "Unknown user level")
	}
	taken, err := s.users.UsernameTaken(ctx, in.Username, 0)
	if err != nil {
		return models.User{}, fmt.Errorf("user: check username: %w", err)
	}
	if taken {
		return models.User{}, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		Name:              in.Name,
		Username:          in.Username,
		Password:          hash,
		PasswordUpdatedAt: s.now().Add(-time.Second),
		Level:             in.Level,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return models.User{}, fmt.Errorf("user: create: %w", err)
	}
	logger.WithCtx(ctx).Info("user created", "user_id", u.ID, "level", u.Level)
	return u, nil
}

// Find returns the user whether deleted or not.
func (s *UserService) Find(ctx context.Context, id uint) (models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("user: find %d: %w", id, err)
	}
	return u, nil
}

// List returns users ordered by id, deleted ones only on request.
func (s *UserService) List(ctx context.Context, includeDeleted bool) ([]models.User, error) {
	out, err := s.users.List(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("user: list: %w", err)
	}
	return out, nil
}

// Update applies patch to user id on behalf of actor. Only the user
// themselves or an administrator may edit, and only an administrator may
// change a level. The second return value reports a password change, which
// revokes every token issued before it.
func (s *UserService) Update(ctx context.Context, actor auth.Identity, id uint, patch UserPatch) (models.User, bool, error) {
	isAdmin := actor.Role == string(models.LevelAdministrator)
	if actor.UserID != id && !isAdmin {
		return models.User{}, false, ErrNotAllowed
	}

	u, err := s.Find(ctx, id)
	if err != nil {
		return models.User{}, false, err
	}
	if u.Deleted {
		return models.User{}, false, ErrUserNotFound
	}

	fields := map[string]any{}
	if patch.Name != "" {
		fields["name"] = patch.Name
	}
	if patch.Username != "" && patch.Username != u.Username {
		taken, err := s.users.UsernameTaken(ctx, patch.Username, id)
		if err != nil {
			return models.User{}, false, fmt.Errorf("user: check username: %w", err)
		}
		if taken {
			return models.User{}, false, ErrUsernameTaken
		}
		fields["username"] = patch.Username
	}
	if patch.Level != nil && *patch.Level != u.Level {
		if !isAdmin {
			return models.User{}, false, ErrLevelChange
		}
		if !patch.Level.Valid() {
			return models.User{}, false, apperr.New(apperr.BadRequest, "Unknown user level")
		}
		fields["level"] = *patch.Level
	}

	passwordChanged := patch.Password != ""
	if passwordChanged {
		hash, err := auth.HashPassword(patch.Password)
		if err != nil {
			return models.User{}, false, err
		}
		fields["password"] = hash
		// one second back so a token signed right after still validates
		fields["password_updated_at"] = s.now().Add(-time.Second)
	}

	if len(fields) > 0 {
		if err := s.users.Update(ctx, id, fields); err != nil {
			return models.User{}, false, fmt.Errorf("user: update %d: %w", id, err)
		}
	}

	u, err = s.Find(ctx, id)
	return u, passwordChanged, err
}

// Delete soft-deletes user id and frees their username by suffixing it.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	u, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if u.Deleted {
		return ErrUserNotFound
	}

	err = s.users.Update(ctx, id, map[string]any{
		"deleted":  true,
		"username": fmt.Sprintf("%s_deleted-%d", u.Username, rand.Intn(1000)),
	})
	if err != nil {
		return fmt.Errorf("user: delete %d: %w", id, err)
	}
	logger.WithCtx(ctx).Info("user deleted", "user_id", id)
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"teamchat/internal/id"
	"teamchat/internal/models"
	"teamchat/internal/repositories"
)

const (
	IdentityUserCreated = "user.created"
	IdentityUserUpdated = "user.updated"
	IdentityUserDeleted = "user.deleted"
)

type UserService interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	Upsert(ctx context.Context, in models.IdentityUser) (*models.User, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
	// HandleIdentityEvent applies a provider webhook event. Unknown event
	// types are ignored and reported as not handled.
	HandleIdentityEvent(ctx context.Context, event string, in models.IdentityUser) (bool, error)
}

type userService struct {
	users repositories.UserRepository
	now   func() time.Time
}

func NewUserService(users repositories.UserRepository) UserService {
	return &userService{users: users, now: time.Now}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.users.GetByExternalID(ctx, externalID)
}

// Upsert patches the user with the same external id or inserts a new one.
func (s *userService) Upsert(ctx context.Context, in models.IdentityUser) (*models.User, error) {
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	in.Email = strings.TrimSpace(in.Email)
	if in.ExternalID == "" {
		return nil, validationError("external id is required")
	}
	if in.Email == "" {
		return nil, validationError("email is required")
	}

	now := s.now().UTC()
	existing, err := s.users.GetByExternalID(ctx, in.ExternalID)
	switch {
	case err == nil:
		existing.Email = in.Email
		existing.FirstName = in.FirstName
		existing.LastName = in.LastName
		existing.AvatarURL = in.AvatarURL
		existing.UpdatedAt = now
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		slog.InfoContext(ctx, "user updated from identity provider", "user_id", existing.ID)
		return existing, nil
	case errors.Is(err, repositories.ErrNotFound):
		u := &models.User{
			ID:         id.New(),
			ExternalID: in.ExternalID,
			Email:      in.Email,
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			AvatarURL:  in.AvatarURL,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		slog.InfoContext(ctx, "user created from identity provider", "user_id", u.ID)
		return u, nil
	default:
		return nil, fmt.Errorf("lookup user: %w", err)
	}
}

// DeleteByExternalID succeeds when the user is already gone.
func (s *userService) DeleteByExternalID(ctx context.Context, externalID string) error {
	err := s.users.DeleteByExternalID(ctx, externalID)
	if errors.Is(err, repositories.ErrNotFound) {
		slog.InfoContext(ctx, "identity delete for unknown user", "external_id", externalID)
		return nil
	}
	return err
}

func (s *userService) HandleIdentityEvent(ctx context.Context, event string, in models.IdentityUser) (bool, error) {
	switch event {
	case IdentityUserCreated, IdentityUserUpdated:
		_, err := s.Upsert(ctx, in)
		return true, err
	case IdentityUserDeleted:
		return true, s.DeleteByExternalID(ctx, in.ExternalID)
	default:
		slog.DebugContext(ctx, "ignoring identity event", "event", event)
		return false, nil
	}
}

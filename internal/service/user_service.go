package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/akyravish/secure-user-service/internal/auth"
	"github.com/akyravish/secure-user-service/internal/domain"
	"github.com/akyravish/secure-user-service/internal/events"
	"github.com/akyravish/secure-user-service/internal/repository"
	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

// CreateUserInput carries validated input for account creation.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
}

// UpdateUserInput carries the optional fields of a profile update.
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Password *string
}

// UserService coordinates account CRUD and the events that follow it.
type UserService struct {
	users      repository.UserRepository
	publisher  events.Publisher
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, publisher events.Publisher, tokens *auth.TokenManager, bcryptCost int, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		publisher:  publisher,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// TokenManager exposes the codec for handler-level cookie handling.
func (s *UserService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// CreateUser persists a new account and publishes user.created. A publish
// failure surfaces as KAFKA_ERROR but the created row stays: there is no
// compensating delete, only the documented inconsistency window.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if existing, err := s.users.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperrors.NewUserAlreadyExists("User with this email already exists")
	} else if err != nil && !repository.IsNotFound(err) {
		return nil, apperrors.NewDatabaseError("Failed to create user", err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewUserAlreadyExists("User with this email already exists")
		}
		return nil, apperrors.NewDatabaseError("Failed to create user", err)
	}

	if err := s.publisher.PublishUserCreated(ctx, user.ID); err != nil {
		s.logger.Error("user created but event publication failed",
			zap.String("user_id", user.ID), zap.Error(err))
		return nil, apperrors.NewKafkaError("Failed to publish user created event", err)
	}

	return user, nil
}

// GetUserByID loads one account.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewUserNotFound()
		}
		return nil, apperrors.NewDatabaseError("Failed to get user", err)
	}
	return user, nil
}

// UpdateUser applies a partial profile update and publishes user.updated
// with the set of changed fields.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewUserNotFound()
		}
		return nil, apperrors.NewDatabaseError("Failed to update user", err)
	}

	changes := map[string]any{}
	if input.Email != nil && *input.Email != user.Email {
		if taken, err := s.users.GetByEmail(ctx, *input.Email); err == nil && taken != nil && taken.ID != id {
			return nil, apperrors.NewUserAlreadyExists("User with this email already exists")
		} else if err != nil && !repository.IsNotFound(err) {
			return nil, apperrors.NewDatabaseError("Failed to update user", err)
		}
		user.Email = *input.Email
		changes["email"] = *input.Email
	}
	if input.Name != nil && *input.Name != user.Name {
		user.Name = *input.Name
		changes["name"] = *input.Name
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
		changes["password"] = true
	}

	if len(changes) == 0 {
		return user, nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewUserAlreadyExists("User with this email already exists")
		}
		if repository.IsNotFound(err) {
			return nil, apperrors.NewUserNotFound()
		}
		return nil, apperrors.NewDatabaseError("Failed to update user", err)
	}

	if err := s.publisher.PublishUserUpdated(ctx, user.ID, changes); err != nil {
		// the update itself stands; publication failure is logged and surfaced
		s.logger.Error("user updated but event publication failed",
			zap.String("user_id", user.ID), zap.Error(err))
		return nil, apperrors.NewKafkaError("Failed to publish user updated event", err)
	}

	return user, nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewUserNotFound()
		}
		return apperrors.NewDatabaseError("Failed to delete user", err)
	}
	return nil
}

// Login authenticates by email and password and issues a credential.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.NewDatabaseError("Failed to log in", err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials")
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, expiresAt, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// UserService covers admin-only account management.
type UserService interface {
	AddUser(ctx context.Context, actor Actor, payload dto.UserCreateRequest) (dto.UserResponse, error)
	ChangeRole(ctx context.Context, actor Actor, userID string, payload dto.RoleChangeRequest) (dto.UserResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	policy    *Policy
	verifier  CredentialVerifier
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewUserService constructs the account management service.
func NewUserService(users repository.UserRepository, policy *Policy, verifier CredentialVerifier, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		policy:    policy,
		verifier:  verifier,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) AddUser(ctx context.Context, actor Actor, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.policy.AuthorizeUserManagement(actor); err != nil {
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		return dto.UserResponse{}, ErrEmailTaken
	}

	hash, err := s.verifier.Hash(payload.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         models.Role(payload.Role),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "user.created",
			EntityType: "user",
			EntityID:   user.ID,
			Metadata:   map[string]interface{}{"role": payload.Role},
		})
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) ChangeRole(ctx context.Context, actor Actor, userID string, payload dto.RoleChangeRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.policy.AuthorizeUserManagement(actor); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrDanglingReference
		}
		return dto.UserResponse{}, err
	}

	role := models.Role(payload.Role)
	if err := s.users.UpdateRole(ctx, user.ID, role); err != nil {
		return dto.UserResponse{}, err
	}
	user.Role = role

	s.logger.Info().Str("user_id", user.ID).Str("role", payload.Role).Msg("role changed")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "user.role_changed",
			EntityType: "user",
			EntityID:   user.ID,
			Metadata:   map[string]interface{}{"role": payload.Role},
		})
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, actor Actor) ([]dto.UserResponse, error) {
	if err := s.policy.AuthorizeUserManagement(actor); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponses(users), nil
}

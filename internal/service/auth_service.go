package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// CredentialVerifier abstracts the credential check so the core never deals
// in secrecy properties directly.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// BcryptVerifier is the production CredentialVerifier.
type BcryptVerifier struct {
	Cost int
}

// Hash derives a storable credential from the plaintext.
func (v BcryptVerifier) Hash(plain string) (string, error) {
	cost := v.Cost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify compares a stored credential with a plaintext candidate.
func (v BcryptVerifier) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// AuthService handles registration and credential-checked login.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
}

type authService struct {
	users     repository.UserRepository
	verifier  CredentialVerifier
	validator *validator.Validate
	activity  ActivityRecorder
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, verifier CredentialVerifier, validate *validator.Validate, activity ActivityRecorder, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &authService{
		users:     users,
		verifier:  verifier,
		validator: validate,
		activity:  activity,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if taken {
		return dto.AuthResponse{}, ErrEmailTaken
	}

	hash, err := s.verifier.Hash(payload.Password)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         models.Role(payload.Role),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("account registered")
	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			Actor:      Actor{ID: user.ID, Role: user.Role},
			Action:     "user.registered",
			EntityType: "user",
			EntityID:   user.ID,
		})
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if !s.verifier.Verify(user.PasswordHash, payload.Password) {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user models.User) (dto.AuthResponse, error) {
	issued := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  issued.Unix(),
		"exp":  issued.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

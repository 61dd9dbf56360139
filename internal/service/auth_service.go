package service

import (
	"context"
	"errors"

	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService checks credentials and issues session tokens
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies the password and returns a signed token. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("login rejected", zap.String("reason", "unknown user"))
			return nil, ErrInvalidCredentials
		}
		return nil, mapper.FormatError("user", "look up", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info("login rejected", zap.String("reason", "wrong password"), zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: mapper.FormatTimestamp(expiresAt),
		User:      mapper.ToUserDTO(user),
	}, nil
}

// Me resolves the authenticated caller to a fresh user row
func (s *AuthService) Me(ctx context.Context) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xela07ax/crm-backend/internal/domain"
	"github.com/xela07ax/crm-backend/internal/infra/auth"
	"go.uber.org/zap"
)

// UserProvider — контракт внешнего хранилища пользователей.
type UserProvider interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AuthService struct {
	repo       UserProvider
	hasher     *auth.PasswordHasher
	codec      *auth.TokenCodec
	ttlMinutes int
	logger     *zap.Logger
}

func NewAuthService(repo UserProvider, hasher *auth.PasswordHasher, codec *auth.TokenCodec, ttlMinutes int, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		hasher:     hasher,
		codec:      codec,
		ttlMinutes: ttlMinutes,
		logger:     logger.Named("auth-service"),
	}
}

// Authenticate проверяет учетные данные против хранилища.
// Поиск по email уже отфильтровывает soft-deleted записи.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Отказ инфраструктуры — отдельный код, не смешиваем с неверным паролем
		s.logger.Error("user lookup failed", zap.Error(err))
		return nil, domain.ErrUserStoreUnavailable
	}

	// не уточняем, что именно неверно (email или пароль) для защиты от перебора
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// Login выдает подписанный access-токен. Состояние нигде не сохраняется:
// чистая bearer-модель, токен валиден ровно до истечения exp.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	claims := &domain.AccessClaims{
		ID:           user.ID,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		TeamID:       user.TeamID,
		IsAdmin:      user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(user.ID, 10),
		},
	}

	token, err := s.codec.Encode(claims, s.ttlMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

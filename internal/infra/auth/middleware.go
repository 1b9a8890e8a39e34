package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xela07ax/crm-backend/internal/domain"
	"github.com/xela07ax/crm-backend/internal/infra"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

type ctxKey int

const currentUserKey ctxKey = iota

// IdentityResolver восстанавливает опциональную личность из заголовка Authorization.
// Отсутствие токена — не ошибка: анонимный доступ на этом слое допустим,
// решение "пускать или нет" принимает guard на конкретном маршруте.
type IdentityResolver struct {
	codec *TokenCodec
}

func NewIdentityResolver(codec *TokenCodec) *IdentityResolver {
	return &IdentityResolver{codec: codec}
}

// Resolve возвращает (nil, nil) для анонима и ErrInvalidToken,
// если токен предъявлен, но не прошел проверку.
func (r *IdentityResolver) Resolve(authHeader string) (*domain.CurrentUser, error) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, nil
	}

	claims, err := r.codec.Decode(strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix)))
	if err != nil {
		return nil, err
	}

	return &domain.CurrentUser{
		ID:           claims.ID,
		Role:         claims.Role,
		DepartmentID: claims.DepartmentID,
		TeamID:       claims.TeamID,
		IsAdmin:      claims.IsAdmin,
	}, nil
}

// NewMiddleware прокидывает опциональную личность в контекст запроса.
// Битый токен обрывает запрос ответом INVALID_TOKEN, аноним проходит дальше.
func NewMiddleware(resolver *IdentityResolver, metrics *infra.Metrics, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.Resolve(r.Header.Get("Authorization"))
			if err != nil {
				metrics.TokenRejections.Inc()
				logger.Warn("token rejected", zap.String("path", r.URL.Path))
				writeBusinessError(w, http.StatusBadRequest, domain.ErrInvalidToken)
				return
			}

			if user != nil {
				r = r.WithContext(context.WithValue(r.Context(), currentUserKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth — guard для маршрутов, требующих личность.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := EnsureAuthenticated(CurrentUserFromContext(r.Context())); err != nil {
			writeBusinessError(w, http.StatusUnauthorized, domain.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EnsureAuthenticated — минимальная проверка "пользователь залогинен".
func EnsureAuthenticated(user *domain.CurrentUser) (*domain.CurrentUser, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// CurrentUserFromContext возвращает личность запроса или nil для анонима.
func CurrentUserFromContext(ctx context.Context) *domain.CurrentUser {
	user, _ := ctx.Value(currentUserKey).(*domain.CurrentUser)
	return user
}

func writeBusinessError(w http.ResponseWriter, status int, berr *domain.BusinessError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: berr.Code, Message: berr.Message})
}

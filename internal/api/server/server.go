package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xela07ax/crm-backend/internal/api/handler"
	"github.com/xela07ax/crm-backend/internal/infra"
	"github.com/xela07ax/crm-backend/internal/infra/auth"
	"go.uber.org/zap"
)

type APIServer struct {
	router   *chi.Mux
	logger   *zap.Logger
	metrics  *infra.Metrics
	gatherer prometheus.Gatherer

	// Опциональная личность для /auth/me и будущих CRM-маршрутов
	resolver *auth.IdentityResolver

	authHandler *handler.AuthHandler // /auth/login, /auth/me
}

// NewAPIServer инициализирует роутер со всеми зависимостями
func NewAPIServer(
	logger *zap.Logger,
	metrics *infra.Metrics,
	gatherer prometheus.Gatherer,
	resolver *auth.IdentityResolver,
	authH *handler.AuthHandler,
) *APIServer {
	s := &APIServer{
		router:      chi.NewRouter(),
		logger:      logger.Named("crm-api"),
		metrics:     metrics,
		gatherer:    gatherer,
		resolver:    resolver,
		authHandler: authH,
	}

	s.routes()
	return s
}

func (s *APIServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	// --- 2. Служебные маршруты ---
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// --- 3. Аутентификация ---
	identity := auth.NewMiddleware(s.resolver, s.metrics, s.logger)
	r.Route("/auth", func(r chi.Router) {
		// Логин доступен без токена
		r.Post("/login", s.authHandler.Login)

		// /me разбирает опциональный Bearer: аноним получает null,
		// битый токен — INVALID_TOKEN
		r.With(identity).Get("/me", s.authHandler.Me)
	})
}

// observe пишет длительность запроса в гистограмму по шаблону маршрута
func (s *APIServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RequestDuration.
			WithLabelValues(route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}

// ServeHTTP позволяет использовать APIServer как стандартный http.Handler
func (s *APIServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

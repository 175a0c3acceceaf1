package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/visionise-api/internal/auth"
	"github.com/redmonkez12/visionise-api/internal/config"
	"github.com/redmonkez12/visionise-api/internal/httputil"
	"github.com/redmonkez12/visionise-api/internal/logging"
	"github.com/redmonkez12/visionise-api/internal/project"
	"github.com/redmonkez12/visionise-api/internal/task"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the resource handlers mounted by NewRouter
type Handlers struct {
	Auth     *auth.Handler
	Projects *project.Handler
	Tasks    *task.Handler
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	OK     bool   `json:"ok"`
	DB     string `json:"db"`
	DBName string `json:"dbName"`
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, authMiddleware *auth.Middleware, db Pinger, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth(db, cfg.Database.Name))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Auth.Signup)
			r.Post("/signin", h.Auth.Signin)
			r.Get("/me", h.Auth.Me)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Projects.List)
				r.Post("/", h.Projects.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Projects.Get)
					r.Put("/", h.Projects.Update)
					r.Delete("/", h.Projects.Delete)

					r.Post("/members", h.Projects.AddMember)
					r.Delete("/members/{mid}", h.Projects.RemoveMember)

					r.Get("/tasks", h.Tasks.List)
					r.Post("/tasks", h.Tasks.Create)
				})
			})

			r.Put("/tasks/{id}", h.Tasks.Update)
			r.Delete("/tasks/{id}", h.Tasks.Delete)
		})
	})

	return r
}

// handleHealth reports liveness and store connectivity. It answers 200
// even when the store is unreachable.
// @Summary      Health check
// @Description  Check if the API is running and the database is reachable
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /api/health [get]
func handleHealth(db Pinger, dbName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := "connected"
		if err := db.Ping(ctx); err != nil {
			logging.GetLoggerFromContext(r.Context()).Warn("database ping failed", "error", err.Error())
			status = "disconnected"
		}

		httputil.RespondJSON(w, HealthResponse{OK: true, DB: status, DBName: dbName}, http.StatusOK)
	}
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/devconnect-api/internal/auth"
	"github.com/redmonkez12/devconnect-api/internal/cascade"
	"github.com/redmonkez12/devconnect-api/internal/config"
	"github.com/redmonkez12/devconnect-api/internal/httputil"
	"github.com/redmonkez12/devconnect-api/internal/logging"
	"github.com/redmonkez12/devconnect-api/internal/post"
	"github.com/redmonkez12/devconnect-api/internal/profile"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	Auth    *auth.Handler
	Profile *profile.Handler
	Post    *post.Handler
	Cascade *cascade.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.TokenHeader},
			ExposedHeaders:   []string{"Content-Length", auth.RateLimitRemainingHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)

	// production builds do not mount the docs at all
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/", h.Profile.List)
				r.Post("/", h.Profile.Upsert)
				r.Delete("/", h.Cascade.Delete)
				r.Get("/me", h.Profile.GetOwn)
				r.Get("/user/{id}", h.Profile.GetByAccount)

				r.Put("/experience", h.Profile.AddExperience)
				r.Delete("/experience/{entryID}", h.Profile.RemoveExperience)
				r.Put("/education", h.Profile.AddEducation)
				r.Delete("/education/{entryID}", h.Profile.RemoveEducation)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", h.Post.Create)
				r.Get("/user/{id}", h.Post.ListByAccount)
			})
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}

package http

import (
	"log/slog"
	"os"

	"github.com/Nova-Gear/presence-api/internal/config"
	"github.com/Nova-Gear/presence-api/internal/handler/http/middleware"
	"github.com/Nova-Gear/presence-api/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	presenceHandler PresenceHandler,
	configHandler PresenceConfigHandler,
	requestHandler ManualRequestHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Hardware devices post here without a session.
	r.Post("/public/presence", presenceHandler.DeviceIngest)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/presence", func(r chi.Router) {
				r.Post("/check-in", presenceHandler.CheckIn)
				r.Post("/check-out", presenceHandler.CheckOut)
				r.Get("/status", presenceHandler.Status)
				r.Get("/today", presenceHandler.Today)
				r.Get("/history", presenceHandler.History)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/company-history", presenceHandler.CompanyHistory)
				})
			})

			// Admin only
			r.Route("/presences", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", presenceHandler.List)
				r.Get("/{id}", presenceHandler.Get)
				r.Delete("/{id}", presenceHandler.Delete)
			})

			r.Route("/presence-configs", func(r chi.Router) {
				r.Get("/active", configHandler.GetActive)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", configHandler.Create)
					r.Get("/", configHandler.List)
					r.Get("/{id}", configHandler.Get)
					r.Put("/{id}", configHandler.Update)
					r.Patch("/{id}", configHandler.Update)
					r.Delete("/{id}", configHandler.Delete)
				})
			})

			r.Route("/manual-presence-requests", func(r chi.Router) {
				r.Post("/", requestHandler.Submit)
				r.Get("/my-requests", requestHandler.MyRequests)
				r.Get("/{id}", requestHandler.Get)
				r.Put("/{id}", requestHandler.Update)
				r.Delete("/{id}", requestHandler.Withdraw)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", requestHandler.List)
					r.Patch("/{id}/approve", requestHandler.Approve)
					r.Patch("/{id}/reject", requestHandler.Reject)
				})
			})
		})
	})
	return r
}

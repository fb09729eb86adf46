package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pantryman/pantryman-be/internal/api/handlers"
	"github.com/pantryman/pantryman-be/internal/auth"
	"github.com/pantryman/pantryman-be/internal/services"
)

// RouterConfig carries the boundary-level settings the router needs.
type RouterConfig struct {
	AllowedOrigins  []string
	FrontendBaseURL string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg RouterConfig,
	tokens *auth.TokenManager,
	authService services.AuthServiceProvider,
	listService services.ListServiceProvider,
	itemService services.ItemServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.FrontendBaseURL)
	listHandler := handlers.NewListHandler(listService)
	itemHandler := handlers.NewItemHandler(itemService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Get("/verify", authHandler.Verify)
			r.Post("/resend-verification", authHandler.ResendVerification)

			// Account maintenance requires a valid bearer token.
			r.Group(func(r chi.Router) {
				r.Use(tokens.Middleware())
				r.Put("/password", authHandler.ChangePassword)
				r.Delete("/account", authHandler.DeleteAccount)
			})
		})

		// All resource routes are owner-scoped via the principal.
		r.Route("/lists", func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Get("/", listHandler.GetAll)
			r.Post("/", listHandler.Create)
			r.Route("/{listId}", func(r chi.Router) {
				r.Get("/", listHandler.Get)
				r.Patch("/", listHandler.Update)
				r.Delete("/", listHandler.Delete)
				r.Route("/items", func(r chi.Router) {
					r.Get("/", itemHandler.GetAll)
					r.Post("/", itemHandler.Create)
					r.Patch("/{itemId}", itemHandler.Update)
					r.Delete("/{itemId}", itemHandler.Delete)
				})
			})
		})
	})

	return r
}

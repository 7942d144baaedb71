package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(r *chi.Mux, secret string, codesHandler *CodesHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Protected routes. The huma adapter registers handlers on the router it
	// is bound to, so it must be bound to the router that carries the auth
	// middleware — binding it to the root mux would bypass the guard.
	protected := chi.NewRouter()
	protected.Use(JWTMiddleware(secret))

	config := huma.DefaultConfig("Rolevault Admin API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:   "http",
			Scheme: "bearer",
		},
	}
	api := humachi.New(protected, config)

	huma.Get(api, "/guilds/{guild-id}/codes", codesHandler.HandleList, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"bearerAuth": {}}}
	})

	r.Mount("/", protected)
}

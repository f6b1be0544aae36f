package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nordvik/sagapay/internal/api"
	"github.com/nordvik/sagapay/internal/api/middleware"
)

// setupRouter builds the HTTP routing tree: public auth routes, internal
// service-to-service routes behind the shared secret, and JWT-protected
// order and payment routes.
func (app *application) setupRouter() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.coordinator, app.credentialStore, app.jwtService, app.hasher)
	profileHandler := api.NewProfileHandler(app.profileStore)
	credentialHandler := api.NewCredentialHandler(app.credentialStore, app.hasher)
	orderHandler := api.NewOrderHandler(app.orderService)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Collaborator endpoints consumed by the registration coordinator.
	router.Group(func(r chi.Router) {
		r.Use(middleware.InternalAuth(app.config.Registration.InternalSecret))
		r.Post("/profiles", profileHandler.Create)
		r.Get("/profiles/{id}", profileHandler.Get)
		r.Delete("/profiles/{id}", profileHandler.Delete)
		r.Post("/credentials", credentialHandler.Create)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(app.jwtService).Authenticate)
		r.Post("/orders", orderHandler.Create)
		r.Get("/orders", orderHandler.List)
		r.Get("/orders/{id}", orderHandler.Get)
		r.Patch("/orders/{id}/status", orderHandler.UpdateStatus)
		r.Get("/payments/order/{orderID}", orderHandler.GetPayment)
	})

	return router
}

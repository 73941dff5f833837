package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/akoka-events/crossover-tickets-api/internal/auth"
)

func RegisterRoutes(r *chi.Mux, authHandler *auth.AuthHandler, registrationHandler *RegistrationHandler, paymentHandler *PaymentHandler, checkInHandler *CheckInHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Crossover Tickets API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Post(api, "/auth/login", authHandler.HandleLogin)
	huma.Post(api, "/registrations", registrationHandler.HandleRegister)

	// Staff routes; each handler authorizes via the auth cookie.
	staffOnly := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}
	huma.Get(api, "/me", authHandler.HandleMe, staffOnly)
	huma.Get(api, "/registrations", registrationHandler.HandleList, staffOnly)
	huma.Get(api, "/registrations/{id}", registrationHandler.HandleGet, staffOnly)
	huma.Get(api, "/registrations/{id}/payments", paymentHandler.HandleListPayments, staffOnly)
	huma.Post(api, "/registrations/{id}/payments", paymentHandler.HandleAddPayment, staffOnly)
	huma.Post(api, "/registrations/{id}/approve-oldest", paymentHandler.HandleApproveOldest, staffOnly)
	huma.Post(api, "/payments/{paymentId}/approve", paymentHandler.HandleApprovePayment, staffOnly)
	huma.Post(api, "/checkin", checkInHandler.HandleCheckIn, staffOnly)
	huma.Get(api, "/checkin/search", checkInHandler.HandleSearch, staffOnly)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	mW "github.com/ruralpay/cardledger/internal/middleware"
)

// RouterDeps wires the services behind the JSON API.
type RouterDeps struct {
	Accounts Accounts
	Requests Requests
	Auth     Auth
	Audit    Audit
	Tokens   Tokens
	Verifier mW.TokenVerifier
}

func NewRouter(deps RouterDeps) http.Handler {
	authHandler := NewAuthHandler(deps.Auth, deps.Tokens, deps.Audit)
	cardHandler := NewCardHandler(deps.Accounts, deps.Requests)
	adminHandler := NewAdminHandler(deps.Accounts, deps.Requests, deps.Auth, deps.Audit)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/signup", authHandler.SignUp)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(mW.Auth(deps.Verifier))

			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/cards", cardHandler.ListCards)
			r.Post("/cards", cardHandler.CreateCard)
			r.Get("/cards/{cardID}/transactions", cardHandler.ListTransactions)
			r.Post("/cards/{cardID}/transactions", cardHandler.PostTransaction)
			r.Post("/cards/{cardID}/requests", cardHandler.SubmitRequest)
			r.Get("/requests", cardHandler.ListRequests)

			r.Route("/admin", func(r chi.Router) {
				r.Use(mW.RequireAdmin)

				r.Post("/users", adminHandler.RegisterUser)
				r.Get("/cards", adminHandler.ListCards)
				r.Delete("/cards/{cardID}", adminHandler.DeleteCard)
				r.Put("/cards/{cardID}/type", adminHandler.UpgradeCard)
				r.Get("/transactions", adminHandler.ListTransactions)
				r.Get("/logs", adminHandler.ListLogs)
				r.Get("/requests/pending", adminHandler.ListPending)
				r.Post("/requests/{requestID}/resolve", adminHandler.ResolveRequest)
			})
		})
	})

	return r
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mealio/ordering-api/internal/api"
	apiMiddleware "github.com/mealio/ordering-api/internal/api/middleware"
	"github.com/mealio/ordering-api/internal/api/shared"
)

// routeHandlers groups the API handlers the router mounts. social is nil
// when federated login is not configured.
type routeHandlers struct {
	auth          *api.AuthHandler
	products      *api.ProductHandler
	carts         *api.CartHandler
	notifications *api.NotificationHandler
	social        *api.SocialHandler
}

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter(h routeHandlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{Status: true, Message: "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", h.auth.Register)
		r.Post("/login", h.auth.Login)

		if h.social != nil {
			r.Get("/auth/google", h.social.Redirect)
			r.Get("/auth/google/callback", h.social.Callback)
			r.Get("/success-login/{token}", h.social.SuccessLogin)
		}

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/profile", h.auth.Profile)
			r.Post("/logout", h.auth.Logout)

			r.Get("/products", h.products.List)
			r.Get("/product-detail/{id}", h.products.Get)
			r.Post("/add-product", h.products.Create)

			r.Get("/carts", h.carts.List)
			r.Post("/add-to-cart/{id}", h.carts.Add)
			r.Delete("/delete-cart-item/{id}", h.carts.DeleteOne)
			r.Delete("/delete-cart-items", h.carts.DeleteMany)

			r.Get("/notifications", h.notifications.List)
		})
	})

	return r
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/product-catalog/docs"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
)

type Options struct {
	// Middlewares wrap every route, in order.
	Middlewares []func(http.Handler) http.Handler
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(opts.Middlewares...)

	r.Get("/health", handlers.HealthHandler)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", handlers.CreateProductHandler)
			r.Get("/", handlers.GetProductsHandler)
			r.Post("/import", handlers.ImportProductsHandler)
			r.Get("/{id}", handlers.GetProductByIDHandler)
			r.Put("/{id}", handlers.UpdateProductHandler)
			r.Delete("/{id}", handlers.DeleteProductHandler)
		})
		r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	})

	return r
}

// Package http provides the HTTP delivery layer for the URL shortener service.
// This package contains the HTTP handlers and related types used for processing
// incoming requests, validating input, and formatting responses.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/html-url-shortener/docs"
	"github.com/vadimbarashkov/html-url-shortener/pkg/middleware/recoverer"
)

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the URL shortener API.
func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger, serverErrorResponse))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(docs.Swagger)
	})

	h := newURLHandler(urlUseCase, validator.New())

	r.Get("/", handleRoot)
	r.Post("/url/shorten", h.shortenURLs)
	r.Post("/html/shorten", h.shortenHTML)
	r.Get("/{shortCode}", h.redirect)

	return r
}

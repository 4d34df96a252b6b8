// Package server wires the HTTP routes and middleware chain.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/akulikov/go-shortlink/internal/app/handler"
	"github.com/akulikov/go-shortlink/internal/app/service"
	"github.com/akulikov/go-shortlink/internal/middleware"
)

func Init(logger *zap.Logger, urlService service.URLServiceIface, auth service.AuthIface, secureCookies bool) *chi.Mux {
	get := handler.NewGet(urlService, logger)
	post := handler.NewPost(urlService, auth, logger, secureCookies)

	r := chi.NewRouter()
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.WithGZIP)
		r.Use(middleware.WithSession)

		r.Post("/login", post.Login)
		r.Post("/shorten", post.Shorten)
		r.Post("/register", post.RegisterUser)
	})

	r.Get("/ping", get.PingDB)
	r.Get("/{code}", get.Redirect)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Short code is required", http.StatusBadRequest)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}

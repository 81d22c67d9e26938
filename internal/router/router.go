// Package router builds the HTTP handler of the service. Every path and
// every method reaches the deleter, so the deleter alone decides the
// response; the router only adds middleware around it.
package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/patric-chuzhbe/profiledel/internal/auth"
	"github.com/patric-chuzhbe/profiledel/internal/deleter"
	"github.com/patric-chuzhbe/profiledel/internal/logger"
)

type profileRemover interface {
	RemoveProfile(ctx context.Context, userID string) error
}

// New returns the router serving profile deletions through remover.
// CORS headers are only emitted when corsAllowedOrigins is not empty.
func New(remover profileRemover, corsAllowedOrigins []string) *chi.Mux {
	d := deleter.New(remover)

	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,
		logger.WithRequestIDHTTPMiddleware,
		logger.WithLoggingHTTPMiddleware,
	)
	if len(corsAllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   []string{http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type", logger.RequestIDHeader},
			ExposedHeaders:   []string{logger.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	router.Use(auth.ExtractBearerToken)

	router.Handle(`/`, d)
	router.Handle(`/*`, d)
	router.NotFound(d.ServeHTTP)
	router.MethodNotAllowed(d.ServeHTTP)

	return router
}

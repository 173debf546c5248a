// Package rest serves the auth contract of the development backend over
// HTTP JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/logging"
	"github.com/Divert12/divert-ai-crew/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	users   *services.UserService
	logger  logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, us *services.UserService) *HTTPServer {
	return &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
	}
}

// Handler builds the router.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware, s.recoverMiddleware, s.loggingMiddleware)

	r.Get("/healthz", s.healthz)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.accessTokenMiddleware)
			r.Get("/me", s.me)
		})
	})

	return r
}

// Run listens on the configured address until ctx is done, then shuts the
// server down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}

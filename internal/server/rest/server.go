package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nileguide/api/internal/logging"
	"github.com/nileguide/api/internal/server/auth"
	"github.com/nileguide/api/internal/server/rate"
)

const shutdownTimeout = 5 * time.Second

// Server runs the HTTP surface.
type Server struct {
	address string
	handler *Handler
	issuer  *auth.Issuer
	limiter *rate.Limiter
	logger  logging.Logger

	loginLimit int
	resetLimit int
}

// NewServer wires handlers, middleware, and throttle policy.
func NewServer(address string, handler *Handler, issuer *auth.Issuer, limiter *rate.Limiter,
	loginLimit, resetLimit int, logger logging.Logger) *Server {
	return &Server{
		address:    address,
		handler:    handler,
		issuer:     issuer,
		limiter:    limiter,
		logger:     logger.With("module", "rest_server"),
		loginLimit: loginLimit,
		resetLimit: resetLimit,
	}
}

// Routes builds the router. Split out from Run so tests can exercise the
// full middleware chain without a listener.
func (s *Server) Routes() *mux.Router {
	h := s.handler
	loginLimited := h.rateLimit(s.limiter, "login", s.loginLimit)
	resetLimited := h.rateLimit(s.limiter, "reset", s.resetLimit)
	authed := h.bearerAuth(s.issuer)

	r := mux.NewRouter()
	api := r.PathPrefix("/api/auth").Subrouter()
	api.Handle("/register", http.HandlerFunc(h.register)).Methods(http.MethodPost)
	api.Handle("/login", loginLimited(http.HandlerFunc(h.login))).Methods(http.MethodPost)
	api.Handle("/me", authed(http.HandlerFunc(h.me))).Methods(http.MethodGet)
	api.Handle("/forgot-password", resetLimited(http.HandlerFunc(h.forgotPassword))).Methods(http.MethodPost)
	api.Handle("/verify-reset-code", resetLimited(http.HandlerFunc(h.verifyResetCode))).Methods(http.MethodPost)
	api.Handle("/reset-password", resetLimited(http.HandlerFunc(h.resetPassword))).Methods(http.MethodPost)
	return r
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

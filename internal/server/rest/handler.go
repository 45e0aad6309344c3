// Package rest exposes the authentication operations over an HTTP JSON API.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nileguide/api/internal/common"
	"github.com/nileguide/api/internal/logging"
	"github.com/nileguide/api/internal/server/models"
	"github.com/nileguide/api/internal/server/rate"
	"github.com/nileguide/api/internal/server/services"
)

// maxBodyBytes caps request bodies; every payload here is a small JSON object.
const maxBodyBytes = 1 << 16

// Authenticator is the slice of the auth service the handlers need.
type Authenticator interface {
	Register(ctx context.Context, params services.RegisterParams) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Profile(ctx context.Context, accountID string) (*models.Account, error)
}

// Resetter is the slice of the reset service the handlers need.
type Resetter interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
	ConsumeCode(ctx context.Context, email, code, newPassword string) error
}

// Handler translates HTTP requests into service calls and service errors
// into status codes.
type Handler struct {
	auth     Authenticator
	reset    Resetter
	validate *validator.Validate
	logger   logging.Logger
}

// NewHandler constructs the HTTP handler set.
func NewHandler(auth Authenticator, reset Resetter, logger logging.Logger) *Handler {
	return &Handler{
		auth:     auth,
		reset:    reset,
		validate: newValidator(),
		logger:   logger.With("module", "rest"),
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.auth.Register(r.Context(), services.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Nationality: req.Nationality,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		UserID:    session.AccountID,
		Role:      session.Role.String(),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		UserID:    session.AccountID,
		Role:      session.Role.String(),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrInvalidToken)
		return
	}

	account, err := h.auth.Profile(r.Context(), claims.Subject)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profileResponse{
		UserID:      account.ID,
		Email:       account.Email,
		FullName:    account.FullName,
		Nationality: account.Nationality,
		Role:        account.Role.String(),
	})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.reset.RequestCode(r.Context(), req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "If the email exists, a reset code was sent."})
}

func (h *Handler) verifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req verifyResetCodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.reset.VerifyCode(r.Context(), req.Email, req.Code); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Code is valid"})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.reset.ConsumeCode(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated"})
}

// decode reads, parses, and validates the request body. It writes the error
// response itself and reports whether the handler may proceed.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			h.writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
			return false
		}
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: validationMessage(err)})
		return false
	}
	return true
}

// validationMessage names the first failing field without echoing its value.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return "Invalid field: " + fieldErrs[0].Field()
	}
	return "Invalid request"
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(context.Background(), "response encode failed", "error", err)
	}
}

// writeError maps service sentinels onto statuses. The messages are part of
// the contract: failures of the same class are byte-identical so responses
// do not leak which branch failed.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		h.writeJSON(w, http.StatusConflict, messageResponse{Message: "Email already exists"})
	case errors.Is(err, common.ErrorUnauthorized):
		h.writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		h.writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Invalid token"})
	case errors.Is(err, common.ErrorInvalidCode):
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid code"})
	case errors.Is(err, common.ErrorPasswordReuse):
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "New password cannot be the same as the old password"})
	case errors.Is(err, rate.ErrRateLimited):
		h.writeJSON(w, http.StatusTooManyRequests, messageResponse{Message: "Too many requests"})
	case errors.Is(err, rate.ErrUnavailable):
		// The throttle fails closed: no limiter, no request.
		h.logger.Error(r.Context(), "rate limiter unavailable", "error", err)
		h.writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: "Service unavailable"})
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
	}
}

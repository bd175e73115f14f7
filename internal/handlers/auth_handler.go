package handlers

import (
	"net/http"

	"github.com/ruralpay/cardledger/internal/logger"
	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/services"
)

type AuthHandler struct {
	auth      Auth
	tokens    Tokens
	audit     Audit
	validator *services.ValidationHelper
}

func NewAuthHandler(auth Auth, tokens Tokens, audit Audit) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		tokens:    tokens,
		audit:     audit,
		validator: services.NewValidationHelper(),
	}
}

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SignUp registers a regular user
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	user, err := h.auth.SignUp(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns a signed token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.audit.LogAction(r.Context(), user.UserID, "Logged in."); err != nil {
		logger.Warn().Err(err).Int64("user_id", user.UserID).Msg("failed to audit login")
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout revokes the presented token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerFrom(w, r)
	if !ok {
		return
	}

	if err := h.tokens.Revoke(r.Context(), claims); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.audit.LogAction(r.Context(), claims.UserID, "Logged out."); err != nil {
		logger.Warn().Err(err).Int64("user_id", claims.UserID).Msg("failed to audit logout")
	}
	w.WriteHeader(http.StatusNoContent)
}

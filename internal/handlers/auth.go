package handlers

import (
	"errors"
	"net/http"

	"github.com/jayjaytrn/storefront/internal/auth"
	"github.com/jayjaytrn/storefront/internal/respond"
	"github.com/jayjaytrn/storefront/models"
)

// Register creates a customer account. Credentials are already checked by
// middleware.ValidateCredentials.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	if err := decodeJSON(r, &credentials); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	hash, err := auth.HashPassword(credentials.Password)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	user := models.User{Username: credentials.Username, PasswordHash: hash, Role: models.RoleCustomer}
	if _, err = h.Database.CreateUser(r.Context(), user); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	h.Logger.Infow("user registered", "username", user.Username)
	h.writeTokens(w, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	if err := decodeJSON(r, &credentials); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	user, err := h.Database.GetUserByUsername(r.Context(), credentials.Username)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, credentials.Password)) {
		h.Logger.Infow("failed login", "username", credentials.Username)
		respond.Message(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	h.writeTokens(w, http.StatusOK, *user)
}

// Refresh trades a refresh token for a new pair. The role is re-read from the
// database so a demoted account does not keep staff rights.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	actor, err := h.Tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		respond.Message(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	user, err := h.Database.GetUserByUsername(r.Context(), actor.Username)
	if errors.Is(err, models.ErrNotFound) {
		respond.Message(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	h.writeTokens(w, http.StatusOK, *user)
}

func (h *Handler) writeTokens(w http.ResponseWriter, status int, user models.User) {
	tokens, err := h.Tokens.IssuePair(user.Username, user.Role)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+tokens.AccessToken)
	respond.JSON(w, status, tokens)
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/crudauth/internal/auth"
	"github.com/sakif/crudauth/internal/service"
)

// AuthHandler exposes the credential-to-token flow.
//
//	POST /auth/register → 201 + the stored user (never the hash)
//	POST /auth/login    → 200 {"access_token": "..."}
//	GET  /auth/profile  → the verified claims (behind RequireAuth)
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: svc, logger: logger}
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := decode(w, r, service.CredentialsSchema, &creds); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin never says whether the username or the password was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := decode(w, r, service.CredentialsSchema, &creds); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleProfile reads the claims RequireAuth put in the context.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	p, err := h.auth.Profile(claims)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

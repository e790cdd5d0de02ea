package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"chat-api/errors"
	"chat-api/services"
)

type AuthHandler struct {
	auth services.IAuthService
	log  *slog.Logger
}

func NewAuthHandler(auth services.IAuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type registerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errors.ErrMissingRegisterFields)
		return
	}

	userID, err := h.auth.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg":     "User created Successfully",
		"user_id": userID,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errors.ErrMissingLoginFields)
		return
	}

	result, err := h.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg":     "Logged in Successfully",
		"user_id": result.UserID,
		"token":   result.Token,
	})
}

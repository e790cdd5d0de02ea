package api

import (
	"log/slog"
	"net/http"

	"chat-api/services"
)

type UserHandler struct {
	users services.IUserService
	log   *slog.Logger
}

func NewUserHandler(users services.IUserService, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// userView omits the password digest from every user response.
type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, userView{ID: user.ID, Name: user.Name, Email: user.Email})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	writeJSON(w, h.log, http.StatusOK, views)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.SearchByName(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	writeJSON(w, h.log, http.StatusOK, views)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg": "User deleted Successfully",
	})
}

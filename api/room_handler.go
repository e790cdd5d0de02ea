package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"chat-api/errors"
	"chat-api/services"
)

type RoomHandler struct {
	rooms services.IRoomService
	log   *slog.Logger
}

func NewRoomHandler(rooms services.IRoomService, log *slog.Logger) *RoomHandler {
	return &RoomHandler{rooms: rooms, log: log}
}

type createRoomPayload struct {
	Name string `json:"name"`
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrMissingIdentity)
		return
	}

	var payload createRoomPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errors.ErrMissingRoomName)
		return
	}

	roomID, err := h.rooms.Create(r.Context(), identity.UserID, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg":     "Room created Successfully",
		"room_id": roomID,
	})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, room)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, rooms)
}

func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrMissingIdentity)
		return
	}

	if err := h.rooms.Join(r.Context(), identity.UserID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg": "Joined the room Successfully",
	})
}

func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrMissingIdentity)
		return
	}

	if err := h.rooms.Leave(r.Context(), identity.UserID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg": "Left the room Successfully",
	})
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrMissingIdentity)
		return
	}

	if err := h.rooms.Delete(r.Context(), identity.UserID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg": "Room deleted Successfully",
	})
}

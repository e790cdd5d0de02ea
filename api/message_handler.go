package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"chat-api/errors"
	"chat-api/services"
)

const defaultSearchLimit = 20

type MessageHandler struct {
	messages services.IMessageService
	log      *slog.Logger
	// limit applied to timeline reads; nil means the repository default.
	limitMessages *int
}

func NewMessageHandler(messages services.IMessageService, limitMessages *int, log *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, limitMessages: limitMessages, log: log}
}

type sendMessagePayload struct {
	Content string `json:"content"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrMissingIdentity)
		return
	}

	var payload sendMessagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errors.ErrMissingMessageFields)
		return
	}

	messageID, err := h.messages.Send(r.Context(), identity.UserID, r.PathValue("id"), payload.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg":        "Message sent Successfully",
		"message_id": messageID,
	})
}

func (h *MessageHandler) RoomTimeline(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if h.limitMessages != nil {
		limit = *h.limitMessages
	}

	messages, err := h.messages.Timeline(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, messages)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrMissingIdentity)
		return
	}

	if err := h.messages.Delete(r.Context(), identity.UserID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg": "Message deleted Successfully",
	})
}

func (h *MessageHandler) DeleteDirect(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrMissingIdentity)
		return
	}

	if err := h.messages.DeleteDirect(r.Context(), identity.UserID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"msg": "Message deleted Successfully",
	})
}

func (h *MessageHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, errors.ErrInvalidIDFormat)
			return
		}
		limit = parsed
	}

	hits, err := h.messages.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, hits)
}

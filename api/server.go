// Package api is the HTTP transport of the chat service: handlers,
// the identity-extraction middleware, and the room-membership guard.
package api

import (
	"log/slog"
	"net/http"

	"chat-api/auth"
	"chat-api/observability"
	"chat-api/repositories"
	"chat-api/services"
)

// ServerDeps bundles everything the route table needs.
type ServerDeps struct {
	Auth     services.IAuthService
	Rooms    services.IRoomService
	Users    services.IUserService
	Messages services.IMessageService

	RoomRepo repositories.IRoomRepository
	Issuer   auth.TokenIssuer
	Health   *observability.HealthMonitor

	// LimitMessages caps timeline reads; nil means no cap.
	LimitMessages *int

	Log *slog.Logger
}

// NewRouter builds the full route table. Protected routes run behind
// RequireAuth; the two room-scoped message routes additionally run
// behind RoomGuard. The chain order is fixed: request logging, then
// identity extraction, then membership.
func NewRouter(deps ServerDeps) http.Handler {
	authHandler := NewAuthHandler(deps.Auth, deps.Log)
	roomHandler := NewRoomHandler(deps.Rooms, deps.Log)
	userHandler := NewUserHandler(deps.Users, deps.Log)
	messageHandler := NewMessageHandler(deps.Messages, deps.LimitMessages, deps.Log)

	requireAuth := RequireAuth(deps.Issuer)
	roomGuard := RoomGuard(deps.RoomRepo, deps.Log)

	protected := func(h http.HandlerFunc) http.Handler {
		return Chain(h, requireAuth)
	}
	guarded := func(h http.HandlerFunc) http.Handler {
		return Chain(h, requireAuth, roomGuard)
	}

	mux := http.NewServeMux()

	// Public.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Rooms. Join stays outside the guard: joining precedes membership.
	mux.Handle("POST /api/room/create", protected(roomHandler.Create))
	mux.Handle("GET /api/room/get/{id}", protected(roomHandler.Get))
	mux.Handle("GET /api/room/all", protected(roomHandler.List))
	mux.Handle("PUT /api/room/join/{id}", protected(roomHandler.Join))
	mux.Handle("PUT /api/room/leave/{id}", protected(roomHandler.Leave))
	mux.Handle("DELETE /api/room/delete/{id}", protected(roomHandler.Delete))

	// Messages.
	mux.Handle("POST /api/message/send/{id}", guarded(messageHandler.Send))
	mux.Handle("GET /api/message/room/{id}", guarded(messageHandler.RoomTimeline))
	mux.Handle("DELETE /api/message/delete/{id}", protected(messageHandler.Delete))
	mux.Handle("DELETE /api/message/deleteDM/{id}", protected(messageHandler.DeleteDirect))
	mux.Handle("GET /api/message/search", protected(messageHandler.Search))

	// Users.
	mux.Handle("GET /api/user/all", protected(userHandler.List))
	mux.Handle("GET /api/user/search/{name}", protected(userHandler.Search))
	mux.Handle("GET /api/user/{id}", protected(userHandler.Get))
	mux.Handle("DELETE /api/user/delete/{id}", protected(userHandler.Delete))

	mux.Handle("GET /api/health", protected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Log, http.StatusOK, deps.Health.Report())
	})))

	return Chain(mux, RequestLogger(deps.Log))
}

package api

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chat-api/auth"
	"chat-api/errors"
	"chat-api/repositories"

	"github.com/google/uuid"
)

type contextKey int

const identityKey contextKey = iota

// IdentityFrom extracts the authenticated identity placed in the
// context by RequireAuth.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok
}

// Middleware wraps a handler with one concern.
type Middleware func(http.Handler) http.Handler

// Chain applies the middlewares left to right: the first one listed is
// the outermost, so it runs first on the way in.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequestLogger records method, path, and duration of every request.
func RequestLogger(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		})
	}
}

// RequireAuth validates the bearer token and injects the resulting
// identity into the request context. Missing or malformed headers and
// invalid or expired tokens all end the request with 401.
func RequireAuth(issuer auth.TokenIssuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				writeError(w, errors.ErrMissingToken)
				return
			}

			identity, err := issuer.Validate(token)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoomGuard verifies that the caller belongs to the room named by the
// last path segment. It must sit behind RequireAuth. A room that does
// not exist lets the request through: the handler owns the not-found
// report for its own route.
func RoomGuard(rooms repositories.IRoomRepository, log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				writeError(w, errors.ErrMissingIdentity)
				return
			}

			roomID := lastPathSegment(r.URL.Path)
			if _, err := uuid.Parse(roomID); err != nil {
				writeError(w, errors.ErrInvalidRoomID)
				return
			}

			room, err := rooms.GetRoom(r.Context(), roomID)
			if err != nil {
				if stderrors.Is(err, errors.ErrDocumentNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				log.Error("room guard lookup failed", "room_id", roomID, "err", err)
				writeError(w, err)
				return
			}

			if !room.HasParticipant(identity.UserID) {
				writeError(w, errors.ErrNotInRoom)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func lastPathSegment(path string) string {
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

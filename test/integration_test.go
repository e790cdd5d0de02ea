package test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chat-api/api"
	"chat-api/auth"
	"chat-api/moderation"
	"chat-api/observability"
	"chat-api/repositories"
	"chat-api/services"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *client) do(method, path, body string) (*http.Response, map[string]any) {
	c.t.Helper()
	req := require.New(c.t)

	r, err := http.NewRequest(method, c.server.URL+path, strings.NewReader(body))
	req.NoError(err)
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(r)
	req.NoError(err)
	defer resp.Body.Close()

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func newTestServer(t *testing.T) *httptest.Server {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)

	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = blugeWriter.Close() })

	moderator, err := moderation.NewModerator([]string{"badword"}, '*')
	req.NoError(err)

	userRepository := repositories.NewUserRepository(db)
	roomRepository := repositories.NewRoomRepository(db)
	messageRepository := repositories.NewMessageRepository(db, log, lo.ToPtr(100))
	messageIndex := repositories.NewMessageIndex(blugeWriter, log)

	issuer := auth.NewTokenIssuer([]byte("integration-secret"), time.Hour)

	router := api.NewRouter(api.ServerDeps{
		Auth:     services.NewAuthService(userRepository, issuer, log),
		Rooms:    services.NewRoomService(roomRepository, userRepository, log),
		Users:    services.NewUserService(userRepository, log),
		Messages: services.NewMessageService(messageRepository, roomRepository, userRepository, messageIndex, moderator, 2000, log),
		RoomRepo: roomRepository,
		Issuer:   issuer,
		Health:   observability.NewHealthMonitor(log),
		Log:      log,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func registerAndLogin(t *testing.T, server *httptest.Server, name, email string) (string, *client) {
	t.Helper()
	req := require.New(t)

	anon := &client{t: t, server: server}
	resp, payload := anon.do(http.MethodPost, "/api/auth/register",
		fmt.Sprintf(`{"name":%q,"email":%q,"password":"Secret123!"}`, name, email))
	req.Equal(http.StatusOK, resp.StatusCode)
	userID := payload["user_id"].(string)

	resp, payload = anon.do(http.MethodPost, "/api/auth/login",
		fmt.Sprintf(`{"email":%q,"password":"Secret123!"}`, email))
	req.Equal(http.StatusOK, resp.StatusCode)

	return userID, &client{t: t, server: server, token: payload["token"].(string)}
}

func Test_Scenario(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	anon := &client{t: t, server: server}

	// Accounts: Ann owns the room, Bob participates, Carl stays outside.
	annID, ann := registerAndLogin(t, server, "Ann", "ann@example.com")
	_, bob := registerAndLogin(t, server, "Bob", "bob@example.com")
	_, carl := registerAndLogin(t, server, "Carl", "carl@example.com")
	req.NotEmpty(annID)

	// Duplicate registration is refused.
	resp, _ := anon.do(http.MethodPost, "/api/auth/register",
		`{"name":"Ann2","email":"ann@example.com","password":"Other123!"}`)
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	// Wrong password and unknown email fail differently.
	resp, _ = anon.do(http.MethodPost, "/api/auth/login",
		`{"email":"ann@example.com","password":"wrong"}`)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = anon.do(http.MethodPost, "/api/auth/login",
		`{"email":"ghost@example.com","password":"whatever"}`)
	req.Equal(http.StatusNotFound, resp.StatusCode)

	// Ann creates a room; Bob joins; a second join is refused.
	resp, payload := ann.do(http.MethodPost, "/api/room/create", `{"name":"general"}`)
	req.Equal(http.StatusOK, resp.StatusCode)
	roomID := payload["room_id"].(string)

	resp, _ = bob.do(http.MethodPut, "/api/room/join/"+roomID, "")
	req.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = bob.do(http.MethodPut, "/api/room/join/"+roomID, "")
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	// Carl never joined: the guard blocks him from sending.
	resp, _ = carl.do(http.MethodPost, "/api/message/send/"+roomID, `{"content":"let me in"}`)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	// Bob posts; moderation rewrites the flagged word.
	resp, payload = bob.do(http.MethodPost, "/api/message/send/"+roomID, `{"content":"what a badword"}`)
	req.Equal(http.StatusOK, resp.StatusCode)
	messageID := payload["message_id"].(string)

	var timeline []map[string]any
	timelineReq, err := http.NewRequest(http.MethodGet, server.URL+"/api/message/room/"+roomID, nil)
	req.NoError(err)
	timelineReq.Header.Set("Authorization", "Bearer "+bob.token)
	raw, err := server.Client().Do(timelineReq)
	req.NoError(err)
	defer raw.Body.Close()
	req.NoError(json.NewDecoder(raw.Body).Decode(&timeline))
	req.Len(timeline, 1)
	req.Equal("what a *******", timeline[0]["content"])

	// Carl cannot read the timeline either.
	resp, _ = carl.do(http.MethodGet, "/api/message/room/"+roomID, "")
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	// Ann owns the room, so she may delete Bob's message.
	resp, _ = ann.do(http.MethodDelete, "/api/message/delete/"+messageID, "")
	req.Equal(http.StatusOK, resp.StatusCode)

	// Ann cannot leave her own room; Bob can.
	resp, _ = ann.do(http.MethodPut, "/api/room/leave/"+roomID, "")
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = bob.do(http.MethodPut, "/api/room/leave/"+roomID, "")
	req.Equal(http.StatusOK, resp.StatusCode)

	// Only the owner deletes the room.
	resp, _ = bob.do(http.MethodDelete, "/api/room/delete/"+roomID, "")
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ann.do(http.MethodDelete, "/api/room/delete/"+roomID, "")
	req.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = ann.do(http.MethodGet, "/api/room/get/"+roomID, "")
	req.Equal(http.StatusNotFound, resp.StatusCode)
}

func Test_DirectMessages(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	_, ann := registerAndLogin(t, server, "Ann", "ann@example.com")
	bobID, bob := registerAndLogin(t, server, "Bob", "bob@example.com")

	// A send targeting a user id resolves to a direct message.
	resp, payload := ann.do(http.MethodPost, "/api/message/send/"+bobID, `{"content":"hi bob"}`)
	req.Equal(http.StatusOK, resp.StatusCode)
	messageID := payload["message_id"].(string)

	// Only the sender may delete a direct message.
	resp, _ = bob.do(http.MethodDelete, "/api/message/deleteDM/"+messageID, "")
	req.Equal(http.StatusForbidden, resp.StatusCode)

	resp, _ = ann.do(http.MethodDelete, "/api/message/deleteDM/"+messageID, "")
	req.Equal(http.StatusOK, resp.StatusCode)
}

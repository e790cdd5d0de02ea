package repositories

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"chat-api/domain"
	"chat-api/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func roomMessage(roomID, senderID, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		Recipient: domain.RoomTarget(roomID),
		Content:   content,
		CreatedAt: at,
	}
}

func Test_StoreMessage_And_Get(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	msg := domain.Message{
		ID:            uuid.NewString(),
		SenderID:      "alice",
		Recipient:     domain.UserTarget("bob"),
		Content:       "hello bob",
		Language:      "en",
		CensoredWords: []string{"word"},
		CreatedAt:     time.Now().UTC(),
	}
	req.NoError(repo.StoreMessage(ctx, msg))

	fetched, err := repo.GetMessage(ctx, msg.ID)
	req.NoError(err)
	req.Equal(msg, fetched)
	req.False(fetched.Recipient.IsRoom())
}

func Test_GetMessage_Missing(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	_, err := repo.GetMessage(context.Background(), "no-such-id")
	req.ErrorIs(err, errors.ErrDocumentNotFound)
}

func Test_Timeline_NewestFirst(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	roomID := uuid.NewString()
	at := time.Now().UTC()
	older := roomMessage(roomID, "alice", "first", at)
	middle := roomMessage(roomID, "bob", "second", at.Add(time.Minute))
	newest := roomMessage(roomID, "clara", "third", at.Add(2*time.Minute))

	for _, msg := range []domain.Message{older, middle, newest} {
		req.NoError(repo.StoreMessage(ctx, msg))
	}

	// Messages of another room must not leak in.
	req.NoError(repo.StoreMessage(ctx, roomMessage(uuid.NewString(), "mallory", "elsewhere", at)))

	timeline, err := repo.GetTimeline(ctx, roomID, 0)
	req.NoError(err)
	req.Equal([]domain.Message{newest, middle, older}, timeline)
}

func Test_Timeline_Limit(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMessageRepository(openTestDB(t), slog.Default(), lo.ToPtr(2))

	roomID := uuid.NewString()
	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repo.StoreMessage(ctx, roomMessage(roomID, "alice", "msg", at.Add(time.Duration(i)*time.Second))))
	}

	timeline, err := repo.GetTimeline(ctx, roomID, 0)
	req.NoError(err)
	req.Len(timeline, 2)

	// An explicit limit overrides the repository default.
	timeline, err = repo.GetTimeline(ctx, roomID, 4)
	req.NoError(err)
	req.Len(timeline, 4)
}

func Test_DeleteMessage_RemovesTimelineEntry(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	roomID := uuid.NewString()
	msg := roomMessage(roomID, "alice", "delete me", time.Now().UTC())
	req.NoError(repo.StoreMessage(ctx, msg))

	req.NoError(repo.DeleteMessage(ctx, msg.ID))

	_, err := repo.GetMessage(ctx, msg.ID)
	req.ErrorIs(err, errors.ErrDocumentNotFound)

	timeline, err := repo.GetTimeline(ctx, roomID, 0)
	req.NoError(err)
	req.Empty(timeline)
}

func Test_DeleteMessage_Missing(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	err := repo.DeleteMessage(context.Background(), "no-such-id")
	req.ErrorIs(err, errors.ErrDocumentNotFound)
}

package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"chat-api/domain"
	"chat-api/errors"
	"chat-api/mocks"
	"chat-api/moderation"
	"chat-api/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type messageServiceFixture struct {
	messages *mocks.MockIMessageRepository
	rooms    *mocks.MockIRoomRepository
	users    *mocks.MockIUserRepository
	index    *mocks.MockIMessageIndex
	svc      services.IMessageService
}

func newMessageServiceFixture(t *testing.T, moderator *moderation.Moderator) messageServiceFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := messageServiceFixture{
		messages: mocks.NewMockIMessageRepository(ctrl),
		rooms:    mocks.NewMockIRoomRepository(ctrl),
		users:    mocks.NewMockIUserRepository(ctrl),
		index:    mocks.NewMockIMessageIndex(ctrl),
	}
	f.svc = services.NewMessageService(f.messages, f.rooms, f.users, f.index, moderator, 2000, testLogger())
	return f
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("should store and index a room message", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.rooms.EXPECT().GetRoom(ctx, "room-1").Return(domain.Room{ID: "room-1"}, nil)

		var stored domain.Message
		f.messages.EXPECT().
			StoreMessage(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, msg domain.Message) error {
				stored = msg
				return nil
			})
		f.index.EXPECT().Index(gomock.Any()).Return(nil)

		id, err := f.svc.Send(ctx, "alice", "room-1", "hello everyone")

		req.NoError(err)
		req.Equal(stored.ID, id)
		req.Equal("alice", stored.SenderID)
		req.True(stored.Recipient.IsRoom())
		req.Equal("room-1", stored.Recipient.RoomID)
		req.Equal("hello everyone", stored.Content)
		req.NotEmpty(stored.Language)
	})

	t.Run("should fall back to a user recipient when no room matches", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.rooms.EXPECT().GetRoom(ctx, "bob").Return(domain.Room{}, errors.ErrDocumentNotFound)
		f.users.EXPECT().GetByID(ctx, "bob").Return(domain.User{ID: "bob"}, nil)

		var stored domain.Message
		f.messages.EXPECT().
			StoreMessage(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, msg domain.Message) error {
				stored = msg
				return nil
			})
		f.index.EXPECT().Index(gomock.Any()).Return(nil)

		_, err := f.svc.Send(ctx, "alice", "bob", "hi bob")

		req.NoError(err)
		req.False(stored.Recipient.IsRoom())
		req.Equal("bob", stored.Recipient.ReceiverID)
	})

	t.Run("should report an unknown recipient", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.rooms.EXPECT().GetRoom(ctx, "ghost").Return(domain.Room{}, errors.ErrDocumentNotFound)
		f.users.EXPECT().GetByID(ctx, "ghost").Return(domain.User{}, errors.ErrDocumentNotFound)

		_, err := f.svc.Send(ctx, "alice", "ghost", "anyone there?")

		req.ErrorIs(err, errors.ErrRecipientNotFound)
	})

	t.Run("should reject empty content before any lookup", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		_, err := f.svc.Send(ctx, "alice", "room-1", "")

		req.ErrorIs(err, errors.ErrMissingMessageFields)
	})

	t.Run("should censor content and record the matched words", func(t *testing.T) {
		req := require.New(t)
		moderator, err := moderation.NewModerator([]string{"badword"}, '*')
		req.NoError(err)
		f := newMessageServiceFixture(t, moderator)

		f.rooms.EXPECT().GetRoom(ctx, "room-1").Return(domain.Room{ID: "room-1"}, nil)

		var stored domain.Message
		f.messages.EXPECT().
			StoreMessage(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, msg domain.Message) error {
				stored = msg
				return nil
			})
		f.index.EXPECT().Index(gomock.Any()).Return(nil)

		_, err = f.svc.Send(ctx, "alice", "room-1", "what a badword")

		req.NoError(err)
		req.Equal("what a *******", stored.Content)
		req.Equal([]string{"badword"}, stored.CensoredWords)
	})

	t.Run("should not fail the send when indexing fails", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.rooms.EXPECT().GetRoom(ctx, "room-1").Return(domain.Room{ID: "room-1"}, nil)
		f.messages.EXPECT().StoreMessage(ctx, gomock.Any()).Return(nil)
		f.index.EXPECT().Index(gomock.Any()).Return(stderrors.New("index unavailable"))

		_, err := f.svc.Send(ctx, "alice", "room-1", "hello")

		req.NoError(err)
	})
}

func TestMessageService_Delete(t *testing.T) {
	ctx := context.Background()

	roomMsg := domain.Message{
		ID:        "msg-1",
		SenderID:  "alice",
		Recipient: domain.RoomTarget("room-1"),
		Content:   "hello",
	}
	room := domain.Room{ID: "room-1", OwnerID: "owner-1", Participants: []string{"owner-1", "alice", "bob"}}

	t.Run("should let the sender delete their message", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.messages.EXPECT().GetMessage(ctx, "msg-1").Return(roomMsg, nil)
		f.rooms.EXPECT().GetRoom(ctx, "room-1").Return(room, nil)
		f.messages.EXPECT().DeleteMessage(ctx, "msg-1").Return(nil)
		f.index.EXPECT().Delete("msg-1").Return(nil)

		req.NoError(f.svc.Delete(ctx, "alice", "msg-1"))
	})

	t.Run("should let the room owner delete another sender's message", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.messages.EXPECT().GetMessage(ctx, "msg-1").Return(roomMsg, nil)
		f.rooms.EXPECT().GetRoom(ctx, "room-1").Return(room, nil)
		f.messages.EXPECT().DeleteMessage(ctx, "msg-1").Return(nil)
		f.index.EXPECT().Delete("msg-1").Return(nil)

		req.NoError(f.svc.Delete(ctx, "owner-1", "msg-1"))
	})

	t.Run("should deny a plain participant", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.messages.EXPECT().GetMessage(ctx, "msg-1").Return(roomMsg, nil)
		f.rooms.EXPECT().GetRoom(ctx, "room-1").Return(room, nil)

		err := f.svc.Delete(ctx, "bob", "msg-1")

		req.ErrorIs(err, errors.ErrCannotDeleteMessage)
	})

	t.Run("should fall back to the sender-only rule when the room is gone", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.messages.EXPECT().GetMessage(ctx, "msg-1").Return(roomMsg, nil)
		f.rooms.EXPECT().GetRoom(ctx, "room-1").Return(domain.Room{}, errors.ErrDocumentNotFound)
		f.messages.EXPECT().DeleteMessage(ctx, "msg-1").Return(nil)
		f.index.EXPECT().Delete("msg-1").Return(nil)

		req.NoError(f.svc.Delete(ctx, "alice", "msg-1"))
	})

	t.Run("should report a missing message", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.messages.EXPECT().GetMessage(ctx, "ghost").Return(domain.Message{}, errors.ErrDocumentNotFound)

		err := f.svc.Delete(ctx, "alice", "ghost")

		req.ErrorIs(err, errors.ErrMessageNotFound)
	})
}

func TestMessageService_DeleteDirect(t *testing.T) {
	ctx := context.Background()

	dm := domain.Message{
		ID:        "dm-1",
		SenderID:  "alice",
		Recipient: domain.UserTarget("bob"),
		Content:   "hi bob",
	}

	t.Run("should let the sender delete a direct message", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.messages.EXPECT().GetMessage(ctx, "dm-1").Return(dm, nil)
		f.messages.EXPECT().DeleteMessage(ctx, "dm-1").Return(nil)
		f.index.EXPECT().Delete("dm-1").Return(nil)

		req.NoError(f.svc.DeleteDirect(ctx, "alice", "dm-1"))
	})

	t.Run("should deny the receiver", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		f.messages.EXPECT().GetMessage(ctx, "dm-1").Return(dm, nil)

		err := f.svc.DeleteDirect(ctx, "bob", "dm-1")

		req.ErrorIs(err, errors.ErrCannotDeleteMessage)
	})
}

func TestMessageService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject an empty query", func(t *testing.T) {
		req := require.New(t)
		f := newMessageServiceFixture(t, nil)

		_, err := f.svc.Search(ctx, "", 10)

		req.ErrorIs(err, errors.ErrMissingSearchQuery)
	})
}

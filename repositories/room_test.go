package repositories

import (
	"context"
	"testing"

	"chat-api/errors"

	"github.com/stretchr/testify/require"
)

func Test_CreateRoom_OwnerIsParticipant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewRoomRepository(openTestDB(t))

	id, err := repo.CreateRoom(ctx, "general", "owner-1")
	req.NoError(err)

	room, err := repo.GetRoom(ctx, id)
	req.NoError(err)
	req.Equal("general", room.Name)
	req.Equal("owner-1", room.OwnerID)
	req.Equal([]string{"owner-1"}, room.Participants)
}

func Test_GetRoom_Missing(t *testing.T) {
	req := require.New(t)
	repo := NewRoomRepository(openTestDB(t))

	_, err := repo.GetRoom(context.Background(), "no-such-room")
	req.ErrorIs(err, errors.ErrDocumentNotFound)
}

func Test_Participants_AddRemove(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewRoomRepository(openTestDB(t))

	id, err := repo.CreateRoom(ctx, "general", "owner-1")
	req.NoError(err)

	req.NoError(repo.AddParticipant(ctx, id, "user-2"))
	room, err := repo.GetRoom(ctx, id)
	req.NoError(err)
	req.Equal([]string{"owner-1", "user-2"}, room.Participants)

	// Duplicate add leaves the set untouched.
	req.NoError(repo.AddParticipant(ctx, id, "user-2"))
	room, err = repo.GetRoom(ctx, id)
	req.NoError(err)
	req.Equal([]string{"owner-1", "user-2"}, room.Participants)

	req.NoError(repo.RemoveParticipant(ctx, id, "user-2"))
	room, err = repo.GetRoom(ctx, id)
	req.NoError(err)
	req.Equal([]string{"owner-1"}, room.Participants)
}

func Test_Participants_MissingRoom(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewRoomRepository(openTestDB(t))

	req.ErrorIs(repo.AddParticipant(ctx, "no-such-room", "user-2"), errors.ErrDocumentNotFound)
	req.ErrorIs(repo.RemoveParticipant(ctx, "no-such-room", "user-2"), errors.ErrDocumentNotFound)
}

func Test_ListRooms(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewRoomRepository(openTestDB(t))

	_, err := repo.CreateRoom(ctx, "general", "owner-1")
	req.NoError(err)
	_, err = repo.CreateRoom(ctx, "random", "owner-2")
	req.NoError(err)

	rooms, err := repo.ListRooms(ctx)
	req.NoError(err)
	req.Len(rooms, 2)
}

func Test_DeleteRoom(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewRoomRepository(openTestDB(t))

	id, err := repo.CreateRoom(ctx, "general", "owner-1")
	req.NoError(err)

	req.NoError(repo.DeleteRoom(ctx, id))

	_, err = repo.GetRoom(ctx, id)
	req.ErrorIs(err, errors.ErrDocumentNotFound)

	req.ErrorIs(repo.DeleteRoom(ctx, id), errors.ErrDocumentNotFound)
}

//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"context"
	"time"

	"chat-api/domain"
	"chat-api/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IRoomRepository interface {
	CreateRoom(ctx context.Context, name, ownerID string) (string, error)
	GetRoom(ctx context.Context, id string) (domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	AddParticipant(ctx context.Context, roomID, userID string) error
	RemoveParticipant(ctx context.Context, roomID, userID string) error
	DeleteRoom(ctx context.Context, id string) error
}

// RoomRepository stores room documents under room:{uuid}. Participant
// mutations are read-modify-write inside a single transaction so two
// concurrent joins cannot lose an entry.
type RoomRepository struct {
	db *badger.DB
}

func NewRoomRepository(db *badger.DB) IRoomRepository {
	return &RoomRepository{db: db}
}

type roomDoc struct {
	ID           string   `cbor:"id"`
	Name         string   `cbor:"name"`
	OwnerID      string   `cbor:"owner_id"`
	Participants []string `cbor:"participants"`
	CreatedAt    int64    `cbor:"created_at"`
}

const roomPrefix = "room:"

// CreateRoom persists a room whose participant set starts as {owner}.
func (r RoomRepository) CreateRoom(ctx context.Context, name, ownerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	newID := uuid.NewString()
	doc := roomDoc{
		ID:           newID,
		Name:         name,
		OwnerID:      ownerID,
		Participants: []string{ownerID},
		CreatedAt:    time.Now().Unix(),
	}

	data, err := cbor.Marshal(doc)
	if err != nil {
		return "", errors.Internal("marshal room", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(roomPrefix+newID), data)
	})
	if err != nil {
		return "", errors.Internal("create room", err)
	}
	return newID, nil
}

func (r RoomRepository) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return domain.Room{}, err
	}

	var doc roomDoc
	err := r.db.View(func(txn *badger.Txn) error {
		return readDoc(txn, roomPrefix+id, &doc)
	})
	if err != nil {
		return domain.Room{}, mapStorageErr("get room", err)
	}
	return toRoom(doc), nil
}

func (r RoomRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(roomPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc roomDoc
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &doc)
			})
			if err != nil {
				return err
			}
			rooms = append(rooms, toRoom(doc))
		}
		return nil
	})
	if err != nil {
		return nil, mapStorageErr("list rooms", err)
	}
	return rooms, nil
}

// AddParticipant adds the user to the room's participant set.
// Adding an existing participant leaves the document untouched.
func (r RoomRepository) AddParticipant(ctx context.Context, roomID, userID string) error {
	return r.updateParticipants(ctx, roomID, func(room domain.Room) []string {
		return room.WithParticipant(userID)
	})
}

// RemoveParticipant drops the user from the room's participant set.
func (r RoomRepository) RemoveParticipant(ctx context.Context, roomID, userID string) error {
	return r.updateParticipants(ctx, roomID, func(room domain.Room) []string {
		return room.WithoutParticipant(userID)
	})
}

func (r RoomRepository) updateParticipants(ctx context.Context, roomID string, apply func(domain.Room) []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		var doc roomDoc
		if err := readDoc(txn, roomPrefix+roomID, &doc); err != nil {
			return err
		}
		doc.Participants = lo.Uniq(apply(toRoom(doc)))

		data, err := cbor.Marshal(doc)
		if err != nil {
			return err
		}
		return txn.Set([]byte(roomPrefix+roomID), data)
	})
	return mapStorageErr("update participants", err)
}

func (r RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(roomPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(roomPrefix + id))
	})
	return mapStorageErr("delete room", err)
}

func toRoom(doc roomDoc) domain.Room {
	return domain.Room{
		ID:           doc.ID,
		Name:         doc.Name,
		OwnerID:      doc.OwnerID,
		Participants: doc.Participants,
		CreatedAt:    time.Unix(doc.CreatedAt, 0).UTC(),
	}
}

//go:generate go run go.uber.org/mock/mockgen -source=room_service.go -destination=../mocks/mock_room_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"log/slog"

	"chat-api/domain"
	"chat-api/errors"
	"chat-api/repositories"
)

type IRoomService interface {
	Create(ctx context.Context, ownerID, name string) (string, error)
	Get(ctx context.Context, id string) (domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	Join(ctx context.Context, callerID, roomID string) error
	Leave(ctx context.Context, callerID, roomID string) error
	Delete(ctx context.Context, callerID, roomID string) error
}

type RoomService struct {
	rooms repositories.IRoomRepository
	users repositories.IUserRepository
	log   *slog.Logger
}

func NewRoomService(rooms repositories.IRoomRepository, users repositories.IUserRepository, log *slog.Logger) IRoomService {
	return &RoomService{rooms: rooms, users: users, log: log}
}

// Create persists a room owned by the caller; the owner is the first
// participant.
func (s *RoomService) Create(ctx context.Context, ownerID, name string) (string, error) {
	if name == "" {
		return "", errors.ErrMissingRoomName
	}

	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		if stderrors.Is(err, errors.ErrDocumentNotFound) {
			return "", errors.ErrOwnerNotFound
		}
		s.log.Error("owner lookup failed", "user_id", ownerID, "err", err)
		return "", err
	}

	roomID, err := s.rooms.CreateRoom(ctx, name, ownerID)
	if err != nil {
		s.log.Error("room creation failed", "name", name, "err", err)
		return "", err
	}
	return roomID, nil
}

func (s *RoomService) Get(ctx context.Context, id string) (domain.Room, error) {
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		if stderrors.Is(err, errors.ErrDocumentNotFound) {
			return domain.Room{}, errors.ErrRoomNotFound
		}
		s.log.Error("room lookup failed", "room_id", id, "err", err)
		return domain.Room{}, err
	}
	return room, nil
}

func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		s.log.Error("room listing failed", "err", err)
		return nil, err
	}
	return rooms, nil
}

// Join adds the caller to the participant set after the resolver has
// ruled out a duplicate join.
func (s *RoomService) Join(ctx context.Context, callerID, roomID string) error {
	if _, err := s.users.GetByID(ctx, callerID); err != nil {
		if stderrors.Is(err, errors.ErrDocumentNotFound) {
			return errors.ErrUserNotFound
		}
		s.log.Error("user lookup failed", "user_id", callerID, "err", err)
		return err
	}

	room, err := s.Get(ctx, roomID)
	if err != nil {
		return err
	}

	if decision := domain.CanJoinRoom(callerID, room); !decision.Allowed {
		return decision.Reason
	}

	return s.rooms.AddParticipant(ctx, roomID, callerID)
}

// Leave removes the caller from the participant set. The owner can
// never leave; a stranger is rejected, not silently ignored.
func (s *RoomService) Leave(ctx context.Context, callerID, roomID string) error {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if stderrors.Is(err, errors.ErrDocumentNotFound) {
			return errors.ErrInvalidRoomID
		}
		s.log.Error("room lookup failed", "room_id", roomID, "err", err)
		return err
	}

	if decision := domain.CanLeaveRoom(callerID, room); !decision.Allowed {
		return decision.Reason
	}

	return s.rooms.RemoveParticipant(ctx, roomID, callerID)
}

// Delete removes the room entirely; only the owner may do this.
func (s *RoomService) Delete(ctx context.Context, callerID, roomID string) error {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return err
	}

	if decision := domain.CanDeleteRoom(callerID, room); !decision.Allowed {
		return decision.Reason
	}

	return s.rooms.DeleteRoom(ctx, roomID)
}

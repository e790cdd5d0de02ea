//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"chat-api/domain"
	"chat-api/errors"
	"chat-api/moderation"
	"chat-api/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

type IMessageService interface {
	Send(ctx context.Context, senderID, targetID, content string) (string, error)
	Timeline(ctx context.Context, roomID string, limit int) ([]domain.Message, error)
	Delete(ctx context.Context, callerID, messageID string) error
	DeleteDirect(ctx context.Context, callerID, messageID string) error
	Search(ctx context.Context, query string, limit int) ([]repositories.MessageHit, error)
}

type MessageService struct {
	messages         repositories.IMessageRepository
	rooms            repositories.IRoomRepository
	users            repositories.IUserRepository
	index            repositories.IMessageIndex
	moderator        *moderation.Moderator
	maxContentLength int
	log              *slog.Logger
}

func NewMessageService(
	messages repositories.IMessageRepository,
	rooms repositories.IRoomRepository,
	users repositories.IUserRepository,
	index repositories.IMessageIndex,
	moderator *moderation.Moderator,
	maxContentLength int,
	log *slog.Logger,
) IMessageService {
	return &MessageService{
		messages:         messages,
		rooms:            rooms,
		users:            users,
		index:            index,
		moderator:        moderator,
		maxContentLength: maxContentLength,
		log:              log,
	}
}

// Send resolves the recipient, censors the content, detects its
// language and persists the message. The recipient id is probed against
// rooms first, then users; the first hit decides the target kind.
func (s *MessageService) Send(ctx context.Context, senderID, targetID, content string) (string, error) {
	if targetID == "" || content == "" {
		return "", errors.ErrMissingMessageFields
	}
	if s.maxContentLength > 0 && len(content) > s.maxContentLength {
		return "", errors.ErrContentTooLong
	}

	recipient, err := s.resolveRecipient(ctx, targetID)
	if err != nil {
		return "", err
	}

	var censoredWords []string
	if s.moderator != nil {
		content, censoredWords = s.moderator.Censor(content)
	}

	info := whatlanggo.Detect(content)

	msg := domain.Message{
		ID:            uuid.NewString(),
		SenderID:      senderID,
		Recipient:     recipient,
		Content:       content,
		Language:      info.Lang.Iso6391(),
		CensoredWords: censoredWords,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.messages.StoreMessage(ctx, msg); err != nil {
		s.log.Error("message store failed", "message_id", msg.ID, "err", err)
		return "", err
	}

	// The index is a projection of the store; a failed index write must
	// not fail the send. The message simply stays unsearchable.
	if err := s.index.Index(msg); err != nil {
		s.log.Warn("message indexing failed", "message_id", msg.ID, "err", err)
	}

	return msg.ID, nil
}

// resolveRecipient probes the two collections that can receive a
// message: rooms first, then users. First hit wins.
func (s *MessageService) resolveRecipient(ctx context.Context, targetID string) (domain.Recipient, error) {
	_, err := s.rooms.GetRoom(ctx, targetID)
	if err == nil {
		return domain.RoomTarget(targetID), nil
	}
	if !stderrors.Is(err, errors.ErrDocumentNotFound) {
		s.log.Error("recipient room probe failed", "target_id", targetID, "err", err)
		return domain.Recipient{}, err
	}

	_, err = s.users.GetByID(ctx, targetID)
	if err == nil {
		return domain.UserTarget(targetID), nil
	}
	if !stderrors.Is(err, errors.ErrDocumentNotFound) {
		s.log.Error("recipient user probe failed", "target_id", targetID, "err", err)
		return domain.Recipient{}, err
	}

	return domain.Recipient{}, errors.ErrRecipientNotFound
}

// Timeline returns the latest messages of a room, newest first.
func (s *MessageService) Timeline(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	messages, err := s.messages.GetTimeline(ctx, roomID, limit)
	if err != nil {
		s.log.Error("timeline scan failed", "room_id", roomID, "err", err)
		return nil, err
	}
	return messages, nil
}

// Delete removes a room message. The sender may always delete their own
// message; the owner of the room the message lives in may delete it
// too. A message whose room has since disappeared falls back to the
// sender-only rule.
func (s *MessageService) Delete(ctx context.Context, callerID, messageID string) error {
	msg, err := s.getMessage(ctx, messageID)
	if err != nil {
		return err
	}

	decision := domain.CanDeleteDirectMessage(callerID, msg)
	if msg.Recipient.IsRoom() {
		room, err := s.rooms.GetRoom(ctx, msg.Recipient.RoomID)
		switch {
		case err == nil:
			decision = domain.CanDeleteRoomMessage(callerID, msg, room)
		case stderrors.Is(err, errors.ErrDocumentNotFound):
			// Room deleted from under the message: sender-only rule stands.
		default:
			s.log.Error("room lookup failed", "room_id", msg.Recipient.RoomID, "err", err)
			return err
		}
	}

	if !decision.Allowed {
		return decision.Reason
	}

	return s.remove(ctx, messageID)
}

// DeleteDirect removes a direct message; only the sender may do so.
func (s *MessageService) DeleteDirect(ctx context.Context, callerID, messageID string) error {
	msg, err := s.getMessage(ctx, messageID)
	if err != nil {
		return err
	}

	if decision := domain.CanDeleteDirectMessage(callerID, msg); !decision.Allowed {
		return decision.Reason
	}

	return s.remove(ctx, messageID)
}

func (s *MessageService) getMessage(ctx context.Context, messageID string) (domain.Message, error) {
	msg, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		if stderrors.Is(err, errors.ErrDocumentNotFound) {
			return domain.Message{}, errors.ErrMessageNotFound
		}
		s.log.Error("message lookup failed", "message_id", messageID, "err", err)
		return domain.Message{}, err
	}
	return msg, nil
}

func (s *MessageService) remove(ctx context.Context, messageID string) error {
	if err := s.messages.DeleteMessage(ctx, messageID); err != nil {
		s.log.Error("message delete failed", "message_id", messageID, "err", err)
		return err
	}
	if err := s.index.Delete(messageID); err != nil {
		s.log.Warn("index delete failed", "message_id", messageID, "err", err)
	}
	return nil
}

// Search runs a full-text query over indexed message content.
func (s *MessageService) Search(ctx context.Context, query string, limit int) ([]repositories.MessageHit, error) {
	if query == "" {
		return nil, errors.ErrMissingSearchQuery
	}
	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		s.log.Error("message search failed", "query", query, "err", err)
		return nil, err
	}
	return hits, nil
}

//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chat-api/domain"
	"chat-api/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

type IMessageRepository interface {
	StoreMessage(ctx context.Context, msg domain.Message) error
	GetMessage(ctx context.Context, id string) (domain.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	GetTimeline(ctx context.Context, targetID string, limit int) ([]domain.Message, error)
}

// MessageRepository stores each message twice:
//
//	message:{uuid}                                -> CBOR document
//	timeline:{target}:{timestamp_padded}:{uuid}   -> uuid
//
// The timeline key uses 19-digit zero padding so a prefix scan yields
// chronological order lexicographically; the uuid suffix disambiguates
// two messages landing on the same nanosecond.
type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) IMessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type messageDoc struct {
	ID            string   `cbor:"id"`
	SenderID      string   `cbor:"sender_id"`
	RoomID        string   `cbor:"room_id,omitempty"`
	ReceiverID    string   `cbor:"receiver_id,omitempty"`
	Content       string   `cbor:"content"`
	Language      string   `cbor:"language,omitempty"`
	CensoredWords []string `cbor:"censored_words,omitempty"`
	At            int64    `cbor:"at"`
}

const (
	messagePrefix  = "message:"
	timelinePrefix = "timeline:"
)

func timelineKey(targetID string, at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", timelinePrefix, targetID, at.UnixNano(), id))
}

// StoreMessage writes the document and its timeline entry atomically.
func (m MessageRepository) StoreMessage(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := cbor.Marshal(fromMessage(msg))
	if err != nil {
		return errors.Internal("marshal message", err)
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(messagePrefix+msg.ID), data); err != nil {
			return err
		}
		return txn.Set(timelineKey(msg.Recipient.TargetID(), msg.CreatedAt, msg.ID), []byte(msg.ID))
	})
	return mapStorageErr("store message", err)
}

func (m MessageRepository) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	var doc messageDoc
	err := m.db.View(func(txn *badger.Txn) error {
		return readDoc(txn, messagePrefix+id, &doc)
	})
	if err != nil {
		return domain.Message{}, mapStorageErr("get message", err)
	}
	return toMessage(doc), nil
}

// DeleteMessage removes the document and its timeline entry in one
// transaction. The timeline key is rebuilt from the stored document.
func (m MessageRepository) DeleteMessage(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := m.db.Update(func(txn *badger.Txn) error {
		var doc messageDoc
		if err := readDoc(txn, messagePrefix+id, &doc); err != nil {
			return err
		}
		msg := toMessage(doc)
		if err := txn.Delete(timelineKey(msg.Recipient.TargetID(), msg.CreatedAt, msg.ID)); err != nil {
			return err
		}
		return txn.Delete([]byte(messagePrefix + id))
	})
	return mapStorageErr("delete message", err)
}

// GetTimeline returns the most recent messages addressed to a target,
// newest first. The repository-wide limit applies when the caller does
// not pass a tighter one.
func (m MessageRepository) GetTimeline(ctx context.Context, targetID string, limit int) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 && m.limitMessages != nil {
		limit = *m.limitMessages
	}

	var ids []string
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchValues = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(timelinePrefix + targetID + ":")
		// Seek past the newest possible key, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if limit > 0 && len(ids) == limit {
				m.log.Debug("timeline limit reached", "target", targetID, "limit", limit)
				break
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			ids = append(ids, string(id))
		}
		return nil
	})
	if err != nil {
		return nil, mapStorageErr("scan timeline", err)
	}

	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		msg, err := m.GetMessage(ctx, id)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func fromMessage(msg domain.Message) messageDoc {
	return messageDoc{
		ID:            msg.ID,
		SenderID:      msg.SenderID,
		RoomID:        msg.Recipient.RoomID,
		ReceiverID:    msg.Recipient.ReceiverID,
		Content:       msg.Content,
		Language:      msg.Language,
		CensoredWords: msg.CensoredWords,
		At:            msg.CreatedAt.UnixNano(),
	}
}

func toMessage(doc messageDoc) domain.Message {
	recipient := domain.UserTarget(doc.ReceiverID)
	if doc.RoomID != "" {
		recipient = domain.RoomTarget(doc.RoomID)
	}
	return domain.Message{
		ID:            doc.ID,
		SenderID:      doc.SenderID,
		Recipient:     recipient,
		Content:       doc.Content,
		Language:      doc.Language,
		CensoredWords: doc.CensoredWords,
		CreatedAt:     time.Unix(0, doc.At).UTC(),
	}
}

//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_message_index.go -package=mocks
package repositories

import (
	"context"
	"log/slog"

	"chat-api/domain"

	"github.com/blugelabs/bluge"
)

type IMessageIndex interface {
	Index(msg domain.Message) error
	Delete(id string) error
	Search(ctx context.Context, query string, limit int) ([]MessageHit, error)
}

// MessageHit is a search result: the stored fields of an indexed
// message plus its relevance score.
type MessageHit struct {
	ID       string  `json:"id"`
	SenderID string  `json:"sender_id"`
	TargetID string  `json:"target_id"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
}

// MessageIndex maintains a Bluge full-text index beside the document
// store. Badger stays the source of truth; the index only accelerates
// content search and can be rebuilt from the store.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) IMessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Index upserts a message document. Content is analyzed for matching;
// sender and target are stored verbatim for display.
func (m MessageIndex) Index(msg domain.Message) error {
	doc := bluge.NewDocument(msg.ID).
		AddField(bluge.NewTextField("content", msg.Content).StoreValue()).
		AddField(bluge.NewKeywordField("sender_id", msg.SenderID).StoreValue()).
		AddField(bluge.NewKeywordField("target_id", msg.Recipient.TargetID()).StoreValue())

	return m.writer.Update(doc.ID(), doc)
}

// Delete removes a message from the index.
func (m MessageIndex) Delete(id string) error {
	return m.writer.Delete(bluge.Identifier(id))
}

// Search runs a match query over message content and returns the top
// hits, best score first.
func (m MessageIndex) Search(ctx context.Context, query string, limit int) ([]MessageHit, error) {
	reader, err := m.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.log.Warn("failed to close index reader", "err", err)
		}
	}()

	q := bluge.NewMatchQuery(query).SetField("content")
	request := bluge.NewTopNSearch(limit, q)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var hits []MessageHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		hit := MessageHit{Score: match.Score}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case "content":
				hit.Content = string(value)
			case "sender_id":
				hit.SenderID = string(value)
			case "target_id":
				hit.TargetID = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

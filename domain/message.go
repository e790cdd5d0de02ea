package domain

import "time"

// Recipient is the tagged destination of a message: exactly one of
// RoomID and ReceiverID is set. Construct values through RoomTarget or
// UserTarget so the invariant holds.
type Recipient struct {
	RoomID     string `json:"room_id,omitempty"`
	ReceiverID string `json:"receiver_id,omitempty"`
}

// RoomTarget addresses a message to a room.
func RoomTarget(roomID string) Recipient {
	return Recipient{RoomID: roomID}
}

// UserTarget addresses a message directly to another user.
func UserTarget(receiverID string) Recipient {
	return Recipient{ReceiverID: receiverID}
}

// IsRoom reports whether the message was delivered to a room.
func (r Recipient) IsRoom() bool {
	return r.RoomID != ""
}

// TargetID returns the id the message was addressed to, regardless of
// the target kind.
func (r Recipient) TargetID() string {
	if r.IsRoom() {
		return r.RoomID
	}
	return r.ReceiverID
}

// Message is an immutable chat event. Content is stored after
// moderation; Language is the ISO 639-1 code detected at send time.
type Message struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	Recipient     Recipient `json:"recipient"`
	Content       string    `json:"content"`
	Language      string    `json:"language,omitempty"`
	CensoredWords []string  `json:"censored_words,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

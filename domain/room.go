package domain

import (
	"time"

	"github.com/samber/lo"
)

// Room groups participants around a single privileged owner. The owner
// is always a participant; participants behave as a set even though the
// stored slice cannot enforce it, so every mutation goes through the
// dedup helpers below.
type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerID      string    `json:"owner_id"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasParticipant reports whether the user belongs to the room.
func (r Room) HasParticipant(userID string) bool {
	return lo.Contains(r.Participants, userID)
}

// WithParticipant returns the participant set including userID.
// Adding an existing participant is a no-op.
func (r Room) WithParticipant(userID string) []string {
	if r.HasParticipant(userID) {
		return r.Participants
	}
	return append(r.Participants, userID)
}

// WithoutParticipant returns the participant set with userID removed.
func (r Room) WithoutParticipant(userID string) []string {
	return lo.Filter(r.Participants, func(id string, _ int) bool {
		return id != userID
	})
}

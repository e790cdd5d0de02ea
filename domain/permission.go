package domain

import "chat-api/errors"

// Decision is the outcome of a permission rule. When the action is
// denied, Reason carries the sentinel the transport layer maps to a
// status code. Decisions are ephemeral and never persisted.
type Decision struct {
	Allowed bool
	Reason  error
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason error) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// The rules below are pure functions over already-fetched documents.
// They perform no I/O, which keeps them total and unit-testable in
// isolation from storage. Each is a priority-ordered policy: the first
// matching rule wins.

// CanDeleteRoomMessage allows the sender always, and the room owner as
// a second rule. Everyone else is forbidden.
func CanDeleteRoomMessage(callerID string, msg Message, room Room) Decision {
	if msg.SenderID == callerID {
		return Allow()
	}
	if room.OwnerID == callerID {
		return Allow()
	}
	return Deny(errors.ErrCannotDeleteMessage)
}

// CanDeleteDirectMessage allows only the sender.
func CanDeleteDirectMessage(callerID string, msg Message) Decision {
	if msg.SenderID == callerID {
		return Allow()
	}
	return Deny(errors.ErrCannotDeleteMessage)
}

// CanDeleteRoom allows only the owner.
func CanDeleteRoom(callerID string, room Room) Decision {
	if room.OwnerID == callerID {
		return Allow()
	}
	return Deny(errors.ErrNotRoomOwner)
}

// CanLeaveRoom denies the owner first (a room never loses its owner),
// then denies callers that were never participants. Leaving is not a
// silent no-op for strangers.
func CanLeaveRoom(callerID string, room Room) Decision {
	if room.OwnerID == callerID {
		return Deny(errors.ErrOwnerCannotLeave)
	}
	if !room.HasParticipant(callerID) {
		return Deny(errors.ErrNeverInRoom)
	}
	return Allow()
}

// CanJoinRoom denies duplicate joins; the participant set must not
// grow a second entry for the same user.
func CanJoinRoom(callerID string, room Room) Decision {
	if room.HasParticipant(callerID) {
		return Deny(errors.ErrAlreadyInRoom)
	}
	return Allow()
}

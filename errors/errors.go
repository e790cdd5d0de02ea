// Package errors holds the sentinel errors of the chat API and their
// mapping to HTTP status codes. Handlers never build status codes
// themselves; they surface one of these values and let MapToHTTPError
// translate it at the transport boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Validation failures (400).
var (
	ErrMissingRegisterFields = errors.New("Name, email and password are required")
	ErrMissingLoginFields    = errors.New("Email and password cannot be empty")
	ErrMissingRoomName       = errors.New("All Fields are required")
	ErrMissingMessageFields  = errors.New("The fields are required")
	ErrContentTooLong        = errors.New("Message content exceeds the maximum length")
	ErrInvalidIDFormat       = errors.New("Invalid ID format")
	ErrEmailTaken            = errors.New("Email already exists")
	ErrAlreadyInRoom         = errors.New("User is already in the group")
	ErrOwnerCannotLeave      = errors.New("You are the owner of the room, you can't leave")
	ErrMissingSearchQuery    = errors.New("Search query is required")
)

// Authentication failures (401).
var (
	ErrMissingToken    = errors.New("authorization token is missing")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrMissingIdentity = errors.New("Missing Claims")
	ErrInvalidPassword = errors.New("Invalid password")
	ErrNotInRoom       = errors.New("You are not part of the given Room")
	ErrNotRoomOwner    = errors.New("You have no right to delete the room")
)

// Authorization failures (403).
var (
	ErrCannotDeleteMessage = errors.New("You have no right to delete this message")
)

// Missing resources (404).
var (
	ErrEmailNotFound     = errors.New("Email not Found")
	ErrUserNotFound      = errors.New("User not found")
	ErrRoomNotFound      = errors.New("Room not found")
	ErrOwnerNotFound     = errors.New("The owner with given user id not found")
	ErrInvalidRoomID     = errors.New("Invalid Room Id")
	ErrNeverInRoom       = errors.New("The user was never a part of the room")
	ErrRecipientNotFound = errors.New("Not Found")
	ErrMessageNotFound   = errors.New("Message not found")
)

// ErrTokenGeneration is an internal signing failure (500).
var ErrTokenGeneration = errors.New("token generation failed")

// ErrDocumentNotFound is the storage-level miss returned by the
// repositories. Services translate it into the endpoint-specific
// sentinel above; it must never reach a client as-is.
var ErrDocumentNotFound = errors.New("document not found")

// internalMessage is the only storage/primitive failure text a client
// ever sees. Details stay in the server logs.
const internalMessage = "Internal Server Error"

var statusByError = []struct {
	err    error
	status int
}{
	{ErrMissingRegisterFields, http.StatusBadRequest},
	{ErrMissingLoginFields, http.StatusBadRequest},
	{ErrMissingRoomName, http.StatusBadRequest},
	{ErrMissingMessageFields, http.StatusBadRequest},
	{ErrContentTooLong, http.StatusBadRequest},
	{ErrInvalidIDFormat, http.StatusBadRequest},
	{ErrEmailTaken, http.StatusBadRequest},
	{ErrAlreadyInRoom, http.StatusBadRequest},
	{ErrOwnerCannotLeave, http.StatusBadRequest},
	{ErrMissingSearchQuery, http.StatusBadRequest},

	{ErrMissingToken, http.StatusUnauthorized},
	{ErrInvalidToken, http.StatusUnauthorized},
	{ErrMissingIdentity, http.StatusUnauthorized},
	{ErrInvalidPassword, http.StatusUnauthorized},
	{ErrNotInRoom, http.StatusUnauthorized},
	{ErrNotRoomOwner, http.StatusUnauthorized},

	{ErrCannotDeleteMessage, http.StatusForbidden},

	{ErrEmailNotFound, http.StatusNotFound},
	{ErrUserNotFound, http.StatusNotFound},
	{ErrRoomNotFound, http.StatusNotFound},
	{ErrOwnerNotFound, http.StatusNotFound},
	{ErrInvalidRoomID, http.StatusNotFound},
	{ErrNeverInRoom, http.StatusNotFound},
	{ErrRecipientNotFound, http.StatusNotFound},
	{ErrMessageNotFound, http.StatusNotFound},
}

// MapToHTTPError resolves an error chain to the status code and
// client-facing message of its first matching sentinel. Anything
// unmatched is an internal failure.
func MapToHTTPError(err error) (int, string) {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status, m.err.Error()
		}
	}
	return http.StatusInternalServerError, internalMessage
}

// Internal wraps a storage or primitive failure with the operation that
// produced it, keeping the original chain for the logs.
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

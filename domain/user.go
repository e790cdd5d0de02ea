// Package domain contains the core documents of the chat system and
// the pure decision rules that govern them. No storage, network, or
// transport logic lives here.
package domain

import "time"

// User is an account document. The password digest is irreversible;
// the plain password never reaches this layer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

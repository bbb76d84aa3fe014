package database

import (
	"time"
)

// Message roles as stored in the messages table and sent to the completion
// endpoint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User represents a chat participant. A row is created on the first message
// from a previously unseen Telegram user ID; on every subsequent message only
// the language column is refreshed with the newly resolved value.
type User struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	DisplayName string `db:"display_name"`
	Language    string `db:"language"`
}

// Message represents one conversation turn, attributed to either the user or
// the assistant. Rows are append-only; they are never updated or deleted by
// the conversation pipeline.
type Message struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	UserID  int64  `db:"user_id"`
	Role    string `db:"role"`
	Content string `db:"content"`
}

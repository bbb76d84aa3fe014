package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// StoreError wraps a persistence failure with the operation that produced it.
// Callers at the pipeline boundary use errors.As to tell store failures apart
// from completion failures.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser inserts a user row if the ID is unseen, otherwise updates
	// only the language column. Idempotent.
	UpsertUser(ctx context.Context, id int64, language, displayName string) error

	// GetUser retrieves a user by ID. Returns nil, nil if not found.
	GetUser(ctx context.Context, id int64) (*User, error)

	// SaveMessage inserts a new message record, assigning ID and CreatedAt.
	SaveMessage(ctx context.Context, message *Message) error

	// GetRecentMessages retrieves the most recent 'limit' messages for a user,
	// ordered oldest-first. A non-zero beforeID restricts the read to rows
	// inserted before that message.
	GetRecentMessages(ctx context.Context, userID int64, limit int, beforeID uint) ([]Message, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertUser inserts a new user or refreshes the language of an existing one.
// DisplayName and ID are never touched on update.
func (s *sqlxStore) UpsertUser(ctx context.Context, id int64, language, displayName string) error {
	if id == 0 {
		return &StoreError{Op: "upsert_user", Err: errors.New("user id cannot be zero")}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for user upsert", "user_id", id, "error", err)
		return &StoreError{Op: "upsert_user", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	var exists bool
	err = tx.GetContext(ctx, &exists, `SELECT 1 FROM users WHERE id = ? LIMIT 1`, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error checking if user exists", "user_id", id, "error", err)
		return &StoreError{Op: "upsert_user", Err: fmt.Errorf("failed to check user %d: %w", id, err)}
	}

	now := time.Now().UTC()
	if exists {
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET language = ?, updated_at = ? WHERE id = ?`,
			language, now, id)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, display_name, language, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			id, displayName, language, now, now)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving user", "user_id", id, "error", err)
		return &StoreError{Op: "upsert_user", Err: fmt.Errorf("failed to save user %d: %w", id, err)}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit user upsert", "user_id", id, "error", err)
		return &StoreError{Op: "upsert_user", Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}
	tx = nil

	operation := "updated"
	if !exists {
		operation = "created"
	}
	s.logger.DebugContext(ctx, "User saved successfully", "operation", operation, "user_id", id, "language", language)
	return nil
}

// GetUser retrieves a user by ID. Returns nil, nil if not found.
func (s *sqlxStore) GetUser(ctx context.Context, id int64) (*User, error) {
	if id == 0 {
		return nil, &StoreError{Op: "get_user", Err: errors.New("user id cannot be zero")}
	}

	var user User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, display_name, language, created_at, updated_at FROM users WHERE id = ?`, id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Not found is expected for first-time senders, not an error.
		s.logger.DebugContext(ctx, "No user found", "user_id", id)
		return nil, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user by ID", "user_id", id, "error", err)
		return nil, &StoreError{Op: "get_user", Err: fmt.Errorf("failed to get user %d: %w", id, err)}
	}

	return &user, nil
}

// SaveMessage inserts a new message record. The store assigns the ID and the
// insertion timestamp.
func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return &StoreError{Op: "save_message", Err: errors.New("cannot save nil message")}
	}
	if message.UserID == 0 {
		return &StoreError{Op: "save_message", Err: errors.New("message must have a non-zero user_id")}
	}
	if message.Role != RoleUser && message.Role != RoleAssistant {
		return &StoreError{Op: "save_message", Err: fmt.Errorf("invalid message role %q", message.Role)}
	}
	if message.Content == "" {
		return &StoreError{Op: "save_message", Err: errors.New("message must have non-empty content")}
	}

	message.CreatedAt = time.Now().UTC()

	result, err := s.db.NamedExecContext(ctx,
		`INSERT INTO messages (user_id, role, content, created_at)
		 VALUES (:user_id, :role, :content, :created_at)`, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "user_id", message.UserID, "role", message.Role, "error", err)
		return &StoreError{Op: "save_message", Err: fmt.Errorf("failed to save message (user %d): %w", message.UserID, err)}
	}

	id, err := result.LastInsertId()
	if err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		message.ID = uint(id)
	} else {
		// Log if getting LastInsertId fails, but don't fail the operation.
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"user_id", message.UserID, "error", err)
	}

	s.logger.DebugContext(ctx, "Message saved successfully",
		"user_id", message.UserID, "role", message.Role, "message_id", message.ID)
	return nil
}

// GetRecentMessages retrieves the most recent 'limit' messages for a user.
// The query fetches rows in descending insertion order and reverses the slice
// before returning, so callers always receive oldest-first history and never
// need to sort.
func (s *sqlxStore) GetRecentMessages(ctx context.Context, userID int64, limit int, beforeID uint) ([]Message, error) {
	if userID == 0 {
		return nil, &StoreError{Op: "recent_messages", Err: errors.New("user_id cannot be zero")}
	}

	if limit <= 0 {
		limit = 20
		s.logger.DebugContext(ctx, "Invalid limit provided, using default", "user_id", userID, "default_limit", limit)
	} else if limit > 100 {
		limit = 100
		s.logger.DebugContext(ctx, "Limit exceeded maximum value, capping", "user_id", userID, "capped_limit", limit)
	}

	// The ID bound is only applied when the caller asked for one; a zero
	// beforeID means "from the newest row".
	query := `SELECT id, user_id, role, content, created_at FROM messages WHERE user_id = ?`
	args := []any{userID}
	if beforeID > 0 {
		query += ` AND id < ?`
		args = append(args, beforeID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	var messages []Message
	s.logger.DebugContext(ctx, "Fetching recent messages", "user_id", userID, "limit", limit, "before_id", beforeID)
	err := s.db.SelectContext(ctx, &messages, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent messages", "user_id", userID, "limit", limit, "error", err)
		return nil, &StoreError{Op: "recent_messages", Err: fmt.Errorf("failed to get recent messages for user %d: %w", userID, err)}
	}

	// Reverse to oldest-first before handing the window to callers.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	s.logger.DebugContext(ctx, "Fetched recent messages successfully", "user_id", userID, "count", len(messages))
	return messages, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}

package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/keyxmakerx/showcase/internal/apperror"
)

// MessageRepository defines the data access contract for contact messages.
// All SQL lives in the concrete implementation.
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id string) (*Message, error)

	// ListRecent returns messages newest first plus the total count.
	ListRecent(ctx context.Context, limit, offset int) ([]Message, int, error)

	UpdateStatus(ctx context.Context, id, status string) error
	MarkRead(ctx context.Context, id string, at time.Time) error
}

// messageRepository implements MessageRepository with MariaDB queries.
type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new repository backed by the given DB pool.
func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `id, name, email, message, locale, remote_ip, status, read_at, created_at`

// Create inserts a new message. ID and CreatedAt must already be set.
func (r *messageRepository) Create(ctx context.Context, msg *Message) error {
	query := `INSERT INTO contact_messages (` + messageColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Body, msg.Locale,
		msg.RemoteIP, msg.Status, msg.ReadAt, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting contact message: %w", err)
	}
	return nil
}

// FindByID returns one message or a 404 AppError.
func (r *messageRepository) FindByID(ctx context.Context, id string) (*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM contact_messages WHERE id = ?`
	msg, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("message not found")
	}
	if err != nil {
		return nil, fmt.Errorf("finding contact message: %w", err)
	}
	return msg, nil
}

// ListRecent returns a page of messages ordered newest first.
func (r *messageRepository) ListRecent(ctx context.Context, limit, offset int) ([]Message, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting contact messages: %w", err)
	}

	query := `SELECT ` + messageColumns + ` FROM contact_messages
	          ORDER BY created_at DESC, id DESC
	          LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing contact messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning contact message: %w", err)
		}
		out = append(out, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating contact messages: %w", err)
	}
	return out, total, nil
}

// UpdateStatus records the outcome of relaying a message.
func (r *messageRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("updating contact message status: %w", err)
	}
	return nil
}

// MarkRead stamps the first time an admin opened the message.
func (r *messageRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET read_at = ? WHERE id = ? AND read_at IS NULL`, at, id); err != nil {
		return fmt.Errorf("marking contact message read: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*Message, error) {
	var msg Message
	var readAt sql.NullTime
	if err := s.Scan(
		&msg.ID, &msg.Name, &msg.Email, &msg.Body, &msg.Locale,
		&msg.RemoteIP, &msg.Status, &readAt, &msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	if readAt.Valid {
		t := readAt.Time
		msg.ReadAt = &t
	}
	return &msg, nil
}

// Package repo contains the database access logic for the flight-compare API.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContactRepo records contact form submissions and their relay outcome.
type ContactRepo interface {
	// Create inserts a message and returns it with id and created_at populated.
	Create(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error)

	// ListRecent returns up to limit messages, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.ContactMessage, error)
}

type pgContactRepo struct {
	db db
}

// NewContactRepo constructs a ContactRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewContactRepo(db db) ContactRepo {
	return &pgContactRepo{db: db}
}

func (r *pgContactRepo) Create(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error) {
	const q = `
		INSERT INTO contact_messages (name, email, message, relay_status, relay_message)
		VALUES (@name, @email, @message, @relay_status, @relay_message)
		RETURNING id, name, email, message, relay_status, relay_message, created_at`

	args := pgx.NamedArgs{
		"name":          msg.Name,
		"email":         msg.Email,
		"message":       msg.Message,
		"relay_status":  string(msg.RelayStatus),
		"relay_message": msg.RelayMessage,
	}

	result, err := scanContact(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("repo.ContactRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgContactRepo) ListRecent(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
		SELECT id, name, email, message, relay_status, relay_message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.ContactRepo.ListRecent: %w", err)
	}
	defer rows.Close()

	msgs := []domain.ContactMessage{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ContactRepo.ListRecent: scan: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ContactRepo.ListRecent: rows: %w", err)
	}
	return msgs, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (domain.ContactMessage, error) {
	var (
		m      domain.ContactMessage
		id     pgtype.UUID
		status string
	)
	err := s.Scan(&id, &m.Name, &m.Email, &m.Message, &status, &m.RelayMessage, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ContactMessage{}, domain.ErrNotFound
		}
		return domain.ContactMessage{}, err
	}
	m.ID = uuid.UUID(id.Bytes)
	m.RelayStatus = domain.RelayStatus(status)
	return m, nil
}

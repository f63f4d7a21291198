package chat

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements Storage on top of a pgx connection pool.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a Postgres-backed message storage.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) Create(ctx context.Context, m *Message) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO messages (room, sender, role, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		m.Room, m.Sender, m.Role, m.Text,
	).Scan(&m.ID, &m.CreatedAt)
}

func (s *PostgresStorage) History(ctx context.Context, room string, limit int) ([]Message, error) {
	// The inner query picks the most recent N, the outer one restores
	// chronological order for replay.
	var rows pgx.Rows
	var err error
	if room != "" {
		rows, err = s.pool.Query(ctx,
			`SELECT id, room, sender, role, message, created_at FROM (
			     SELECT id, room, sender, role, message, created_at
			     FROM messages
			     WHERE room = $1
			     ORDER BY created_at DESC, id DESC
			     LIMIT $2
			 ) recent
			 ORDER BY created_at ASC, id ASC`,
			room, limit,
		)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT id, room, sender, role, message, created_at FROM (
			     SELECT id, room, sender, role, message, created_at
			     FROM messages
			     ORDER BY created_at DESC, id DESC
			     LIMIT $1
			 ) recent
			 ORDER BY created_at ASC, id ASC`,
			limit,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Room, &m.Sender, &m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

package notification

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements Storage on top of a pgx connection pool. Every
// method is a single statement; the pool bounds concurrency, so Create may
// block waiting for a free connection.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a Postgres-backed notification storage.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) Create(ctx context.Context, n *Notification) error {
	// Meta stays NULL in the database when the caller sent none.
	var meta any
	if len(n.Meta) > 0 {
		meta = n.Meta
	}

	return s.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, title, message, meta)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_read, created_at`,
		n.UserID, n.Title, n.Message, meta,
	).Scan(&n.ID, &n.Read, &n.CreatedAt)
}

func (s *PostgresStorage) ListRecent(ctx context.Context, userID *int64, limit int) ([]Notification, error) {
	var rows pgx.Rows
	var err error
	if userID != nil {
		rows, err = s.pool.Query(ctx,
			`SELECT id, user_id, title, message, meta, is_read, created_at
			 FROM notifications
			 WHERE user_id IS NULL OR user_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			*userID, limit,
		)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT id, user_id, title, message, meta, is_read, created_at
			 FROM notifications
			 WHERE user_id IS NULL
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func (s *PostgresStorage) MarkRead(ctx context.Context, id int64) error {
	// Unknown and already-read ids both affect zero or one row; either way
	// the end state is the same, so the result is ignored.
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	return err
}

func (s *PostgresStorage) CountUnread(ctx context.Context, userID *int64) (int, error) {
	var count int
	var err error
	if userID != nil {
		err = s.pool.QueryRow(ctx,
			`SELECT count(*) FROM notifications
			 WHERE NOT is_read AND (user_id IS NULL OR user_id = $1)`,
			*userID,
		).Scan(&count)
	} else {
		err = s.pool.QueryRow(ctx,
			`SELECT count(*) FROM notifications
			 WHERE NOT is_read AND user_id IS NULL`,
		).Scan(&count)
	}
	return count, err
}

func scanNotifications(rows pgx.Rows) ([]Notification, error) {
	list := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Meta, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

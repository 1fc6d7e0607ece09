package notification

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notification not found")

type Filter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	Limit      int
}

func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}
	return f
}

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, f Filter) ([]Notification, int, error)
	MarkRead(ctx context.Context, id string, at time.Time) (*Notification, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, n *Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
    INSERT INTO notifications (id, user_id, type, title, message, data, is_read, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,false,NOW(),NOW())
  `, n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.Data)
	return err
}

func (r *PGRepo) List(ctx context.Context, f Filter) ([]Notification, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	f = f.Normalize()
	offset := (f.Page - 1) * f.Limit

	where := `WHERE user_id=$1`
	if f.UnreadOnly {
		where += ` AND is_read=false`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications `+where, f.UserID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
    SELECT id, user_id, type, title, message, data, is_read, read_at, created_at, updated_at
    FROM notifications `+where+`
    ORDER BY created_at DESC LIMIT $2 OFFSET $3
  `, f.UserID, f.Limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Data, &n.IsRead, &n.ReadAt, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) MarkRead(ctx context.Context, id string, at time.Time) (*Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n Notification
	err := r.db.QueryRow(ctx, `
    UPDATE notifications SET is_read=true, read_at=$2, updated_at=NOW()
    WHERE id=$1
    RETURNING id, user_id, type, title, message, data, is_read, read_at, created_at, updated_at
  `, id, at).Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Data, &n.IsRead, &n.ReadAt, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

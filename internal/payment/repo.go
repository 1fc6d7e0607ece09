package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("payment not found")

type Filter struct {
	UserID  string
	OrderID string
	Page    int
	Limit   int
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
	Create(ctx context.Context, p *Payment) error
	AddTransaction(ctx context.Context, t *Transaction) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	List(ctx context.Context, f Filter) ([]Payment, int, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, p *Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
    INSERT INTO payments (id, order_id, user_id, amount, currency, status, payment_method, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
  `, p.ID, p.OrderID, p.UserID, p.Amount, p.Currency, string(p.Status), p.PaymentMethod)
	return err
}

func (r *PGRepo) AddTransaction(ctx context.Context, t *Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
    INSERT INTO transactions (id, payment_id, transaction_id, type, amount, currency, status, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
  `, t.ID, t.PaymentID, t.TransactionID, t.Type, t.Amount, t.Currency, t.Status)
	return err
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE payments SET status=$2, updated_at=NOW() WHERE id=$1
  `, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Payment
	err := r.db.QueryRow(ctx, `
    SELECT id, order_id, user_id, amount::text, currency, status, payment_method, created_at, updated_at
    FROM payments WHERE id=$1
  `, id).Scan(&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Currency, &p.Status, &p.PaymentMethod, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
    SELECT id, payment_id, transaction_id, type, amount::text, currency, status, created_at
    FROM transactions WHERE payment_id=$1 ORDER BY created_at
  `, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.PaymentID, &t.TransactionID, &t.Type, &t.Amount, &t.Currency, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		p.Transactions = append(p.Transactions, t)
	}
	return &p, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, f Filter) ([]Payment, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	f = f.Normalize()
	offset := (f.Page - 1) * f.Limit

	where := ``
	args := []any{}
	switch {
	case f.UserID != "" && f.OrderID != "":
		where = `WHERE user_id=$1 AND order_id=$2`
		args = []any{f.UserID, f.OrderID}
	case f.UserID != "":
		where = `WHERE user_id=$1`
		args = []any{f.UserID}
	case f.OrderID != "":
		where = `WHERE order_id=$1`
		args = []any{f.OrderID}
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := fmt.Sprintf(`
    SELECT id, order_id, user_id, amount::text, currency, status, payment_method, created_at, updated_at
    FROM payments %s
    ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, limitPos, limitPos+1)
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Currency, &p.Status, &p.PaymentMethod, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

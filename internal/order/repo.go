package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrStatusChanged means a conditional status update matched no row
	// because another writer moved the order first.
	ErrStatusChanged = errors.New("order status changed concurrently")
)

// Filter selects a page of orders. An empty UserID returns all orders; that
// is an administrative capability, not a security boundary.
type Filter struct {
	UserID string
	Page   int
	Limit  int
}

// Normalize clamps paging to sane bounds (page >= 1, 1 <= limit <= 100,
// default 10) so handlers and repositories agree on the window.
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
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f Filter) ([]Order, int, error)
	// UpdateStatus applies a compare-and-swap: the row is updated only if it
	// still holds the expected previous status. Returns ErrStatusChanged on a
	// lost race and ErrNotFound if the order does not exist.
	UpdateStatus(ctx context.Context, id string, from, to Status, completedAt *time.Time) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, user_id, order_number, total_amount, status, notes, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
  `, o.ID, o.UserID, o.OrderNumber, o.TotalAmount, string(o.Status), o.Notes); err != nil {
		return err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (id, order_id, product_name, product_sku, quantity, price, subtotal, created_at, updated_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
    `, it.ID, o.ID, it.ProductName, it.ProductSKU, it.Quantity, it.Price, it.Subtotal); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
    SELECT id, user_id, order_number, total_amount::text, status, COALESCE(notes,''), completed_at, created_at, updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.TotalAmount, &o.Status, &o.Notes, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	return &o, nil
}

func (r *PGRepo) List(ctx context.Context, f Filter) ([]Order, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	f = f.Normalize()
	offset := (f.Page - 1) * f.Limit

	where := ``
	countArgs := []any{}
	pageArgs := []any{f.Limit, offset}
	if f.UserID != "" {
		where = `WHERE user_id=$1`
		countArgs = []any{f.UserID}
		pageArgs = []any{f.UserID, f.Limit, offset}
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
    SELECT id, user_id, order_number, total_amount::text, status, COALESCE(notes,''), completed_at, created_at, updated_at
    FROM orders
    ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if f.UserID != "" {
		query = `
    SELECT id, user_id, order_number, total_amount::text, status, COALESCE(notes,''), completed_at, created_at, updated_at
    FROM orders WHERE user_id=$1
    ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	}

	rows, err := r.db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	var ids []string
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.TotalAmount, &o.Status, &o.Notes, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		items, err := r.itemsFor(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range out {
			out[i].Items = items[out[i].ID]
		}
	}
	return out, total, nil
}

func (r *PGRepo) itemsFor(ctx context.Context, orderIDs []string) (map[string][]Item, error) {
	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, product_name, COALESCE(product_sku,''), quantity, price::text, subtotal::text
    FROM order_items WHERE order_id = ANY($1)
    ORDER BY created_at
  `, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string][]Item)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.ProductSKU, &it.Quantity, &it.Price, &it.Subtotal); err != nil {
			return nil, err
		}
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	return items, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, from, to Status, completedAt *time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $3, completed_at = COALESCE($4, completed_at), updated_at = NOW()
    WHERE id = $1 AND status = $2
  `, id, string(from), string(to), completedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var cur string
		err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&cur)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrStatusChanged
	}
	return nil
}

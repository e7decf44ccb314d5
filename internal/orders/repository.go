package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huertohogar/huertohogar/internal/shared"
)

// RepositoryPort defines data access methods for orders.
type RepositoryPort interface {
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	Create(ctx context.Context, order *Order) (int64, error)
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id int64) error
}

const orderColumns = `id, user_id, order_date, status, total, shipping_address`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all orders, most recent first.
func (r *Repository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListByUser returns all orders placed by one user, most recent first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// GetByID fetches an order by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	var order Order
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).
		Scan(&order.ID, &order.UserID, &order.OrderDate, &order.Status, &order.Total, &order.ShippingAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Create inserts a new order and returns its id.
func (r *Repository) Create(ctx context.Context, order *Order) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO orders (user_id, order_date, status, total, shipping_address)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		order.UserID, order.OrderDate, order.Status, order.Total, order.ShippingAddress,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces all mutable fields of an existing order.
func (r *Repository) Update(ctx context.Context, order *Order) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET user_id = $2, order_date = $3, status = $4, total = $5, shipping_address = $6 WHERE id = $1`,
		order.ID, order.UserID, order.OrderDate, order.Status, order.Total, order.ShippingAddress,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an order by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func collect(rows pgx.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.OrderDate, &order.Status, &order.Total, &order.ShippingAddress); err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ RepositoryPort = (*Repository)(nil)

package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"grocery-backend/internal/domain"
)

const uniqueViolation = "23505"

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, userID int64) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id, status)
VALUES ($1, 'active')
RETURNING id, user_id, status, created_at, updated_at
`
	cart, err := scanCart(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	cart.Items = []domain.CartItem{}
	return cart, nil
}

func (r *postgresRepo) GetActiveByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	const q = `
SELECT id, user_id, status, created_at, updated_at
FROM carts
WHERE user_id = $1 AND status = 'active'
`
	cart, err := scanCart(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) SetItem(ctx context.Context, cartID, productID int64, quantity int, unitAmount int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity, unit_amount)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, product_id)
DO UPDATE SET quantity = EXCLUDED.quantity, unit_amount = EXCLUDED.unit_amount, updated_at = now()
`, cartID, productID, quantity, unitAmount); err != nil {
		return err
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) UpdateItem(ctx context.Context, cartID, itemID int64, quantity int, unitAmount int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, unit_amount = $2, updated_at = now()
WHERE id = $3 AND cart_id = $4
`, quantity, unitAmount, itemID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) loadItems(ctx context.Context, cart *domain.Cart) error {
	const q = `
SELECT id, cart_id, product_id, quantity, unit_amount, created_at, updated_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q, cart.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitAmount,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return err
		}
		cart.Items = append(cart.Items, item)
	}
	return rows.Err()
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID int64) error {
	_, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return err
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	var status string
	if err := row.Scan(&cart.ID, &cart.UserID, &status, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, err
	}
	cart.Status = domain.CartStatus(status)
	return &cart, nil
}

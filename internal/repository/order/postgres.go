package order

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"grocery-backend/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const orderColumns = `id, user_id, currency, subtotal_amount, shipping_amount, discount_amount, tax_amount, total_amount, payment_status, delivery_status, address, phone_number, created_at, updated_at`

func (r *postgresRepo) CreateFromCart(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	// Lock product rows in id order regardless of cart order so two
	// checkouts sharing products cannot deadlock on each other.
	items := make([]CheckoutItem, len(in.Items))
	copy(items, in.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Revalidate every item against the live, locked product row. Collect
	// all violations instead of stopping at the first one.
	violations := map[int64]string{}
	for _, item := range items {
		var (
			price    int64
			stock    int
			isActive bool
		)
		err := tx.QueryRow(ctx, `
SELECT price_amount, quantity, is_active FROM products WHERE id = $1 FOR UPDATE
`, item.ProductID).Scan(&price, &stock, &isActive)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			violations[item.ProductID] = "product no longer exists"
			continue
		case err != nil:
			return nil, err
		}
		switch {
		case !isActive:
			violations[item.ProductID] = "product is inactive"
		case price != item.UnitAmount:
			violations[item.ProductID] = "product price has changed"
		case stock < item.Quantity:
			violations[item.ProductID] = "insufficient stock"
		}
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Message: "cart validation failed", Items: violations}
	}

	// Conditional decrement guards against any writer that slipped past the
	// row locks; zero rows affected aborts the whole checkout.
	for _, item := range items {
		cmd, err := tx.Exec(ctx, `
UPDATE products SET quantity = quantity - $1, updated_at = now()
WHERE id = $2 AND quantity >= $1
`, item.Quantity, item.ProductID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, fmt.Errorf("decrement stock for product %d: %w", item.ProductID, domain.ErrConflict)
		}
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitAmount * int64(item.Quantity)
	}

	order, err := scanOrder(tx.QueryRow(ctx, `
INSERT INTO orders (user_id, currency, subtotal_amount, total_amount, payment_status, delivery_status, address, phone_number)
VALUES ($1, $2, $3, $3, 'pending', 'pending', $4, $5)
RETURNING `+orderColumns, in.UserID, in.Currency, subtotal, in.Address, in.PhoneNumber))
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		var oi domain.OrderItem
		if err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, unit_amount, quantity)
VALUES ($1, $2, $3, $4)
RETURNING id, order_id, product_id, unit_amount, quantity
`, order.ID, item.ProductID, item.UnitAmount, item.Quantity).Scan(
			&oi.ID, &oi.OrderID, &oi.ProductID, &oi.UnitAmount, &oi.Quantity,
		); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, oi)
	}

	payment, err := scanPayment(tx.QueryRow(ctx, `
INSERT INTO payments (order_id, provider, status, currency, amount)
VALUES ($1, $2, 'created', $3, $4)
RETURNING id, order_id, provider, status, currency, amount, provider_payment_id, created_at
`, order.ID, string(in.Provider), order.Currency, order.TotalAmount))
	if err != nil {
		return nil, err
	}
	order.Payments = append(order.Payments, *payment)

	cmd, err := tx.Exec(ctx, `
UPDATE carts SET status = 'converted', updated_at = now()
WHERE id = $1 AND status = 'active'
`, in.CartID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, fmt.Errorf("close cart %d: %w", in.CartID, domain.ErrInvalidState)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *postgresRepo) ListOpenForDelivery(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `
SELECT `+orderColumns+` FROM orders
WHERE delivery_status NOT IN ('delivered', 'canceled')
ORDER BY created_at ASC`)
}

func (r *postgresRepo) UpdateStatuses(ctx context.Context, id int64, paymentStatus *domain.OrderPaymentStatus, deliveryStatus *domain.DeliveryStatus) error {
	var pay, del *string
	if paymentStatus != nil {
		v := string(*paymentStatus)
		pay = &v
	}
	if deliveryStatus != nil {
		v := string(*deliveryStatus)
		del = &v
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET payment_status = COALESCE($1, payment_status),
    delivery_status = COALESCE($2, delivery_status),
    updated_at = now()
WHERE id = $3
`, pay, del, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpdateDeliveryStatus(ctx context.Context, id int64, from, to domain.DeliveryStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders SET delivery_status = $1, updated_at = now()
WHERE id = $2 AND delivery_status = $3
`, string(to), id, string(from))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *postgresRepo) Cancel(ctx context.Context, id int64, allowedFrom []domain.DeliveryStatus) error {
	query := `
UPDATE orders SET payment_status = 'canceled', delivery_status = 'canceled', updated_at = now()
WHERE id = $1`
	args := []interface{}{id}
	if len(allowedFrom) > 0 {
		states := make([]string, len(allowedFrom))
		for i, s := range allowedFrom {
			states[i] = string(s)
		}
		query += ` AND delivery_status = ANY($2)`
		args = append(args, states)
	}
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if len(allowedFrom) > 0 {
			// The caller read the order moments ago, so a miss here means
			// another writer advanced it past the cancelable states.
			return fmt.Errorf("cancel order %d: %w", id, domain.ErrConflict)
		}
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) list(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
		if err := r.loadPayments(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.pool.Query(ctx, `
SELECT id, order_id, product_id, unit_amount, quantity
FROM order_items WHERE order_id = $1 ORDER BY id ASC
`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		var oi domain.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.ProductID, &oi.UnitAmount, &oi.Quantity); err != nil {
			return err
		}
		order.Items = append(order.Items, oi)
	}
	return rows.Err()
}

func (r *postgresRepo) loadPayments(ctx context.Context, order *domain.Order) error {
	rows, err := r.pool.Query(ctx, `
SELECT id, order_id, provider, status, currency, amount, provider_payment_id, created_at
FROM payments WHERE order_id = $1 ORDER BY created_at ASC, id ASC
`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Payments = []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return err
		}
		order.Payments = append(order.Payments, *p)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var payStatus, delStatus string
	if err := row.Scan(
		&o.ID, &o.UserID, &o.Currency,
		&o.SubtotalAmount, &o.ShippingAmount, &o.DiscountAmount, &o.TaxAmount, &o.TotalAmount,
		&payStatus, &delStatus,
		&o.Address, &o.PhoneNumber,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.PaymentStatus = domain.OrderPaymentStatus(payStatus)
	o.DeliveryStatus = domain.DeliveryStatus(delStatus)
	return &o, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var provider, status string
	if err := row.Scan(
		&p.ID, &p.OrderID, &provider, &status, &p.Currency, &p.Amount, &p.ProviderPaymentID, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Provider = domain.PaymentProvider(provider)
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}

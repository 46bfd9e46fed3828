package payment

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

const paymentColumns = `id, order_id, provider, status, currency, amount, provider_payment_id, created_at`

func (r *postgresRepo) Create(ctx context.Context, orderID int64, provider domain.PaymentProvider, currency string, amount int64) (*domain.Payment, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the order row so two concurrent attempts serialize on the
	// active-payment check.
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT true FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var active int
	if err := tx.QueryRow(ctx, `
SELECT count(*) FROM payments WHERE order_id = $1 AND status IN ('created', 'authorized')
`, orderID).Scan(&active); err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, domain.ErrConflict
	}

	p, err := scanPayment(tx.QueryRow(ctx, `
INSERT INTO payments (order_id, provider, status, currency, amount)
VALUES ($1, $2, 'created', $3, $4)
RETURNING `+paymentColumns, orderID, string(provider), currency, amount))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.PaymentStatus, providerPaymentID *string, orderStatus *domain.OrderPaymentStatus) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var orderID int64
	err = tx.QueryRow(ctx, `
UPDATE payments
SET status = $1, provider_payment_id = COALESCE($2, provider_payment_id)
WHERE id = $3 AND status = $4
RETURNING order_id
`, string(to), providerPaymentID, id, string(from)).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return err
	}

	if orderStatus != nil {
		if _, err := tx.Exec(ctx, `
UPDATE orders SET payment_status = $1, updated_at = now() WHERE id = $2
`, string(*orderStatus), orderID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
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

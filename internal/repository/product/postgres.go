package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const productColumns = `id, name, description, price_amount, currency, quantity, is_active, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in SaveProductInput) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO products (name, description, price_amount, currency, quantity, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + productColumns
	p, err := scanProduct(tx.QueryRow(ctx, q, in.Name, in.Description, in.PriceAmount, in.Currency, in.Quantity, in.IsActive))
	if err != nil {
		return nil, err
	}
	if err := replaceCategories(ctx, tx, p.ID, in.CategoryIDs); err != nil {
		return nil, err
	}
	p.CategoryIDs = in.CategoryIDs

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int64, in SaveProductInput) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
UPDATE products
SET name = $1, description = $2, price_amount = $3, currency = $4, quantity = $5, is_active = $6, updated_at = now()
WHERE id = $7
RETURNING ` + productColumns
	p, err := scanProduct(tx.QueryRow(ctx, q, in.Name, in.Description, in.PriceAmount, in.Currency, in.Quantity, in.IsActive, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := replaceCategories(ctx, tx, id, in.CategoryIDs); err != nil {
		return nil, err
	}
	p.CategoryIDs = in.CategoryIDs

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadCategories(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	if len(ids) == 0 {
		return map[int64]domain.Product{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make(map[int64]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.PriceAmount, &p.Currency,
			&p.Quantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("id IN (SELECT product_id FROM product_categories WHERE category_id = $%d)", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY name ASC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.PriceAmount, &p.Currency,
			&p.Quantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) loadCategories(ctx context.Context, p *domain.Product) error {
	rows, err := r.pool.Query(ctx, `SELECT category_id FROM product_categories WHERE product_id = $1 ORDER BY category_id`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		p.CategoryIDs = append(p.CategoryIDs, id)
	}
	return rows.Err()
}

func replaceCategories(ctx context.Context, tx pgx.Tx, productID int64, categoryIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for _, catID := range categoryIDs {
		if _, err := tx.Exec(ctx, `
INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)
`, productID, catID); err != nil {
			return err
		}
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceAmount, &p.Currency,
		&p.Quantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

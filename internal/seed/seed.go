package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type userSeed struct {
	FullName string
	Email    string
	Password string
	Role     string
	Phone    string
}

type productSeed struct {
	Name        string
	Description string
	PriceAmount int64
	Currency    string
	Quantity    int
	Categories  []string
}

// Apply inserts demo accounts and a small catalog for manual testing. It is
// idempotent: users and categories upsert on their unique keys, products are
// inserted only when no product with that name exists yet.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	users := []userSeed{
		{FullName: "Demo Admin", Email: "admin@grocery.local", Password: "admin12345", Role: "admin", Phone: "0500000001"},
		{FullName: "Demo Customer", Email: "customer@grocery.local", Password: "customer123", Role: "user", Phone: "0500000002"},
		{FullName: "Demo Courier", Email: "courier@grocery.local", Password: "courier123", Role: "delivery", Phone: "0500000003"},
	}
	for _, u := range users {
		if err := upsertUser(ctx, pool, u); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.Email, err)
		}
	}

	categoryIDs := map[string]int64{}
	for _, name := range []string{"Dairy", "Bakery", "Produce", "Pantry"} {
		id, err := ensureCategory(ctx, pool, name)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", name, err)
		}
		categoryIDs[name] = id
	}

	products := []productSeed{
		{Name: "Milk 3% 1L", Description: "Fresh whole milk", PriceAmount: 690, Currency: "ILS", Quantity: 120, Categories: []string{"Dairy"}},
		{Name: "Cottage Cheese 250g", Description: "5% fat", PriceAmount: 570, Currency: "ILS", Quantity: 80, Categories: []string{"Dairy"}},
		{Name: "Sourdough Loaf", Description: "Baked daily", PriceAmount: 1890, Currency: "ILS", Quantity: 25, Categories: []string{"Bakery"}},
		{Name: "Tomatoes 1kg", Description: "", PriceAmount: 990, Currency: "ILS", Quantity: 60, Categories: []string{"Produce"}},
		{Name: "Cucumbers 1kg", Description: "", PriceAmount: 790, Currency: "ILS", Quantity: 60, Categories: []string{"Produce"}},
		{Name: "Olive Oil 750ml", Description: "Extra virgin", PriceAmount: 4490, Currency: "ILS", Quantity: 40, Categories: []string{"Pantry"}},
	}
	for _, p := range products {
		if err := ensureProduct(ctx, pool, p, categoryIDs); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, u userSeed) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (full_name, email, password_hash, role, default_phone)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET full_name = EXCLUDED.full_name,
    role = EXCLUDED.role
`
	_, err = pool.Exec(ctx, q, u.FullName, u.Email, string(hash), u.Role, u.Phone)
	return err
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, name string) (int64, error) {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`
	var id int64
	if err := pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed, categoryIDs map[string]int64) error {
	const q = `
INSERT INTO products (name, description, price_amount, currency, quantity, is_active)
SELECT $1, $2, $3, $4, $5, TRUE
WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
RETURNING id
`
	var productID int64
	err := pool.QueryRow(ctx, q, p.Name, p.Description, p.PriceAmount, p.Currency, p.Quantity).Scan(&productID)
	if err != nil {
		// No row returned means the product already exists; leave it alone.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	for _, name := range p.Categories {
		catID, ok := categoryIDs[name]
		if !ok {
			continue
		}
		const link = `
INSERT INTO product_categories (product_id, category_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
		if _, err := pool.Exec(ctx, link, productID, catID); err != nil {
			return err
		}
	}
	return nil
}

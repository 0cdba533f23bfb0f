package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/google/uuid"
)

// ProductCatalog is the read side of the catalog used by the ledger and
// the product endpoints.
type ProductCatalog interface {
	ledger.Catalog
	// ListProducts returns active products, optionally of one category.
	ListProducts(ctx context.Context, category models.Category) ([]models.Product, error)
}

// PostgresCatalog reads products from Postgres.
type PostgresCatalog struct {
	db *sql.DB
}

var _ ProductCatalog = (*PostgresCatalog)(nil)

// NewPostgresCatalog wraps an open database handle.
func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

const productColumns = `id, name, category, symbol, price_per_unit, description, risk_level, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Symbol, &p.PricePerUnit,
		&p.Description, &p.RiskLevel, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *PostgresCatalog) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrProductNotFound
	}
	return p, err
}

func (c *PostgresCatalog) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY symbol`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// UpsertProduct inserts p, or updates the price and details of the product
// with the same symbol. p.ID is set to the stored id.
func (c *PostgresCatalog) UpsertProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return c.db.QueryRowContext(ctx, `
		INSERT INTO products (id, name, category, symbol, price_per_unit, description, risk_level, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol)
		DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price_per_unit = EXCLUDED.price_per_unit,
			description = EXCLUDED.description,
			risk_level = EXCLUDED.risk_level,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, p.ID, p.Name, p.Category, p.Symbol, p.PricePerUnit, p.Description, p.RiskLevel, p.IsActive).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

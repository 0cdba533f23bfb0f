package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
)

// PostgresStore keeps users, portfolios and transactions in Postgres.
type PostgresStore struct {
	db *sql.DB
}

var _ ledger.Store = (*PostgresStore)(nil)

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Atomically runs fn in one database transaction. Rows read through the
// Tx are locked FOR UPDATE until commit.
func (s *PostgresStore) Atomically(ctx context.Context, fn func(tx ledger.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if we don't commit

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}

	// Commit transaction (all or nothing!)
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CreateUser inserts a new user with its opening wallet balance.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, wallet_balance)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, user.ID, user.Name, user.Email, user.Wallet.Balance).Scan(&user.CreatedAt, &user.UpdatedAt)
}

// GetUser reads a user without locking it.
func (s *PostgresStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return getUser(ctx, s.db, id, false)
}

// ListTransactionsByUser returns the user's transactions newest first with
// product details attached.
func (s *PostgresStore) ListTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.product_id, t.side, t.units, t.price_per_unit,
		       t.total_amount, t.status, t.created_at, p.symbol, p.name, p.category
		FROM transactions t
		LEFT JOIN products p ON p.id = t.product_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC, t.seq DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]models.Transaction, 0)
	for rows.Next() {
		var (
			t                      models.Transaction
			symbol, name, category sql.NullString
		)
		err := rows.Scan(&t.ID, &t.UserID, &t.ProductID, &t.Side, &t.Units, &t.PricePerUnit,
			&t.TotalAmount, &t.Status, &t.CreatedAt, &symbol, &name, &category)
		if err != nil {
			return nil, err
		}
		if symbol.Valid {
			t.Product = &models.ProductSummary{
				ID:       t.ProductID,
				Symbol:   symbol.String,
				Name:     name.String,
				Category: models.Category(category.String),
			}
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getUser(ctx context.Context, q queryRower, id string, forUpdate bool) (*models.User, error) {
	query := `SELECT id, name, email, wallet_balance, created_at, updated_at FROM users WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var u models.User
	err := q.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Wallet.Balance, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// pgTx implements ledger.Tx on a *sql.Tx.
type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) GetUser(ctx context.Context, id string) (*models.User, error) {
	return getUser(ctx, t.tx, id, true)
}

func (t *pgTx) SaveUser(ctx context.Context, user *models.User) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE users SET wallet_balance = $1, updated_at = $2 WHERE id = $3",
		user.Wallet.Balance, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrUserNotFound
	}
	return nil
}

func (t *pgTx) GetPortfolioByUser(ctx context.Context, userID string) (*models.Portfolio, error) {
	var p models.Portfolio
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, user_id, total_investment, current_value, created_at, updated_at
		FROM portfolios
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&p.ID, &p.UserID, &p.TotalInvestment, &p.CurrentValue, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := t.tx.QueryContext(ctx, `
		SELECT product_id, units, avg_buy_price, total_invested
		FROM holdings
		WHERE portfolio_id = $1
		ORDER BY position
	`, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.Holdings = make([]models.Holding, 0)
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ProductID, &h.Units, &h.AvgBuyPrice, &h.TotalInvested); err != nil {
			return nil, err
		}
		p.Holdings = append(p.Holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePortfolio upserts the portfolio row and rewrites its holdings so the
// stored order matches the in-memory order.
func (t *pgTx) SavePortfolio(ctx context.Context, p *models.Portfolio) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO portfolios (id, user_id, total_investment, current_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			total_investment = EXCLUDED.total_investment,
			current_value = EXCLUDED.current_value,
			updated_at = EXCLUDED.updated_at
	`, p.ID, p.UserID, p.TotalInvestment, p.CurrentValue, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "DELETE FROM holdings WHERE portfolio_id = $1", p.ID); err != nil {
		return err
	}
	for i, h := range p.Holdings {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO holdings (portfolio_id, position, product_id, units, avg_buy_price, total_invested)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.ID, i, h.ProductID, h.Units, h.AvgBuyPrice, h.TotalInvested)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *pgTx) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, product_id, side, units, price_per_unit, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, txn.ID, txn.UserID, txn.ProductID, txn.Side, txn.Units, txn.PricePerUnit, txn.TotalAmount, txn.Status, txn.CreatedAt)
	return err
}

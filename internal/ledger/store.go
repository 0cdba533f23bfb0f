package ledger

import (
	"context"

	"github.com/BalramApply/WealthStream/internal/models"
)

// Catalog resolves products to their live price. Implementations return
// ErrProductNotFound for unknown ids.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// UserStore reads and writes users and their wallet.
type UserStore interface {
	// GetUser returns ErrUserNotFound when id is unknown.
	GetUser(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

// PortfolioStore reads and writes portfolios.
type PortfolioStore interface {
	// GetPortfolioByUser returns nil, nil when the user has no portfolio.
	GetPortfolioByUser(ctx context.Context, userID string) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
}

// TransactionRecorder is append only.
type TransactionRecorder interface {
	AppendTransaction(ctx context.Context, txn *models.Transaction) error
}

// Tx is a unit of work. Everything written through it becomes visible
// together or not at all.
type Tx interface {
	UserStore
	PortfolioStore
	TransactionRecorder
}

// Store runs units of work and serves the read-only history.
type Store interface {
	// Atomically runs fn in one unit of work and commits when fn returns nil.
	// Any error discards every write made through tx.
	Atomically(ctx context.Context, fn func(tx Tx) error) error
	// ListTransactionsByUser returns the user's transactions newest first.
	ListTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error)
	// GetUser reads a user outside of any unit of work.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Publisher is notified of every committed transaction.
type Publisher interface {
	Publish(txn models.Transaction)
}

// Package ledger applies buy and sell orders to a user's wallet and
// portfolio and serves the portfolio valuation and transaction history.
package ledger

import (
	"time"

	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Ledger is the order processor and read path over one store and catalog.
type Ledger struct {
	store     Store
	catalog   Catalog
	locks     *models.UserLocks
	publisher Publisher
	money     MoneyFormatter
	log       logrus.FieldLogger
	now       func() time.Time
	newID     func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sends every committed transaction to p.
func WithPublisher(p Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Ledger) { l.log = log }
}

// WithCurrency sets the ISO code used for display amounts.
func WithCurrency(code string) Option {
	return func(l *Ledger) { l.money = NewMoneyFormatter(code) }
}

// WithClock overrides time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger.
func New(store Store, catalog Catalog, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		catalog: catalog,
		locks:   models.NewUserLocks(),
		money:   NewMoneyFormatter(DefaultCurrency),
		log:     logrus.StandardLogger(),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

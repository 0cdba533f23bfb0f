package db

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===== In-memory adapters =====

// MemoryStore is a ledger.Store kept in process memory. Units of work run
// one at a time and their writes are staged until commit.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[string]*models.User
	portfolios map[string]*models.Portfolio // userID -> portfolio
	txns       []models.Transaction
	faults     map[string]error
}

var _ ledger.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]*models.User),
		portfolios: make(map[string]*models.Portfolio),
		faults:     make(map[string]error),
	}
}

// Operation names accepted by FailOn.
const (
	OpGetUser           = "GetUser"
	OpSaveUser          = "SaveUser"
	OpGetPortfolio      = "GetPortfolioByUser"
	OpSavePortfolio     = "SavePortfolio"
	OpAppendTransaction = "AppendTransaction"
	OpListTransactions  = "ListTransactionsByUser"
	OpCommit            = "Commit"
)

// FailOn makes every later call of op return err. A nil err clears it.
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *MemoryStore) fault(op string) error {
	return s.faults[op]
}

// CreateUser adds a user. The id is generated when empty.
func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, ok := s.users[user.ID]; ok {
		return errors.New("user already exists")
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpGetUser); err != nil {
		return nil, err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, ledger.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

// Portfolio returns a copy of the user's committed portfolio, or nil.
func (s *MemoryStore) Portfolio(userID string) *models.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.portfolios[userID]; ok {
		return p.Clone()
	}
	return nil
}

func (s *MemoryStore) ListTransactionsByUser(_ context.Context, userID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpListTransactions); err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0)
	for i := len(s.txns) - 1; i >= 0; i-- {
		if s.txns[i].UserID == userID {
			out = append(out, s.txns[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Atomically(ctx context.Context, fn func(tx ledger.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memoryTx{
		s:          s,
		users:      make(map[string]*models.User),
		portfolios: make(map[string]*models.Portfolio),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := s.fault(OpCommit); err != nil {
		return err
	}

	for id, u := range tx.users {
		s.users[id] = u
	}
	for userID, p := range tx.portfolios {
		s.portfolios[userID] = p
	}
	s.txns = append(s.txns, tx.txns...)
	return nil
}

// memoryTx stages writes; the store mutex is held for its whole life.
type memoryTx struct {
	s          *MemoryStore
	users      map[string]*models.User
	portfolios map[string]*models.Portfolio
	txns       []models.Transaction
}

func (t *memoryTx) GetUser(_ context.Context, id string) (*models.User, error) {
	if err := t.s.fault(OpGetUser); err != nil {
		return nil, err
	}
	u, ok := t.users[id]
	if !ok {
		u, ok = t.s.users[id]
	}
	if !ok {
		return nil, ledger.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (t *memoryTx) SaveUser(_ context.Context, user *models.User) error {
	if err := t.s.fault(OpSaveUser); err != nil {
		return err
	}
	if _, ok := t.s.users[user.ID]; !ok {
		return ledger.ErrUserNotFound
	}
	if user.Wallet.Balance.LessThan(decimal.Zero) {
		return errors.New("wallet balance would be negative")
	}
	u := *user
	t.users[user.ID] = &u
	return nil
}

func (t *memoryTx) GetPortfolioByUser(_ context.Context, userID string) (*models.Portfolio, error) {
	if err := t.s.fault(OpGetPortfolio); err != nil {
		return nil, err
	}
	p, ok := t.portfolios[userID]
	if !ok {
		p, ok = t.s.portfolios[userID]
	}
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (t *memoryTx) SavePortfolio(_ context.Context, p *models.Portfolio) error {
	if err := t.s.fault(OpSavePortfolio); err != nil {
		return err
	}
	t.portfolios[p.UserID] = p.Clone()
	return nil
}

func (t *memoryTx) AppendTransaction(_ context.Context, txn *models.Transaction) error {
	if err := t.s.fault(OpAppendTransaction); err != nil {
		return err
	}
	t.txns = append(t.txns, *txn)
	return nil
}

// MemoryCatalog is a ProductCatalog kept in process memory.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]*models.Product
	order    []string
}

var _ ProductCatalog = (*MemoryCatalog)(nil)

// NewMemoryCatalog creates a catalog holding products.
func NewMemoryCatalog(products ...models.Product) *MemoryCatalog {
	c := &MemoryCatalog{products: make(map[string]*models.Product)}
	for _, p := range products {
		c.Put(p)
	}
	return c
}

// Put inserts or replaces a product. The id is generated when empty.
func (c *MemoryCatalog) Put(p models.Product) models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, ok := c.products[p.ID]; !ok {
		c.order = append(c.order, p.ID)
	}
	c.products[p.ID] = &p
	return p
}

// SetPrice changes the live price of a product.
func (c *MemoryCatalog) SetPrice(id string, price decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.products[id]; ok {
		p.PricePerUnit = price
		p.UpdatedAt = time.Now().UTC()
	}
}

func (c *MemoryCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return nil, ledger.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (c *MemoryCatalog) ListProducts(_ context.Context, category models.Category) ([]models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, 0, len(c.order))
	for _, id := range c.order {
		p := c.products[id]
		if !p.IsActive || (category != "" && p.Category != category) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

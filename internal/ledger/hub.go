package ledger

import (
	"sync"

	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/sirupsen/logrus"
)

const subscriberBuffer = 16

// Hub fans committed transactions out to per-user subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan models.Transaction]struct{}
	log  logrus.FieldLogger
}

// NewHub creates an empty hub
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		subs: make(map[string]map[chan models.Transaction]struct{}),
		log:  log,
	}
}

// Subscribe returns a channel receiving the user's new transactions and
// a function that unsubscribes and closes it.
func (h *Hub) Subscribe(userID string) (<-chan models.Transaction, func()) {
	ch := make(chan models.Transaction, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan models.Transaction]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers txn to every subscriber of its user. Slow subscribers
// miss events rather than block the order path.
func (h *Hub) Publish(txn models.Transaction) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[txn.UserID] {
		select {
		case ch <- txn:
		default:
			h.log.WithField("user_id", txn.UserID).Warn("Dropped transaction event for slow subscriber")
		}
	}
}

// Subscribers returns the number of live subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

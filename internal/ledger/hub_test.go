package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
)

func TestHub_DeliversCommittedTransactions(t *testing.T) {
	hub := ledger.NewHub(quietLogger())
	f := newFixture(t, "100000", ledger.WithPublisher(hub))

	events, unsubscribe := hub.Subscribe(f.userID)
	defer unsubscribe()
	others, unsubscribeOthers := hub.Subscribe("someone-else")
	defer unsubscribeOthers()

	res, err := f.ledger.ExecuteOrder(context.Background(), f.order(models.SideBuy, "1"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	select {
	case txn := <-events:
		if txn.ID != res.Transaction.ID {
			t.Errorf("Expected transaction %s, got %s", res.Transaction.ID, txn.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected a transaction event")
	}

	select {
	case txn := <-others:
		t.Errorf("Unexpected event for another user: %+v", txn)
	default:
	}

	// Rejected orders are not published.
	f.ledger.ExecuteOrder(context.Background(), f.order(models.SideSell, "50"))
	select {
	case txn := <-events:
		t.Errorf("Unexpected event for rejected order: %+v", txn)
	default:
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := ledger.NewHub(quietLogger())

	events, unsubscribe := hub.Subscribe("u1")
	if hub.Subscribers("u1") != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", hub.Subscribers("u1"))
	}
	unsubscribe()
	unsubscribe()

	if _, ok := <-events; ok {
		t.Error("Expected channel to be closed")
	}
	if hub.Subscribers("u1") != 0 {
		t.Errorf("Expected 0 subscribers, got %d", hub.Subscribers("u1"))
	}
	hub.Publish(models.Transaction{UserID: "u1"})
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := ledger.NewHub(quietLogger())
	_, unsubscribe := hub.Subscribe("u1")
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(models.Transaction{UserID: "u1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

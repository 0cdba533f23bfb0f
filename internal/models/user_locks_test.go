package models

import (
	"sync"
	"testing"
	"time"
)

func TestUserLocks_SerializesSameUser(t *testing.T) {
	locks := NewUserLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("u1")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("Race condition detected! Expected counter 50, got %d", counter)
	}
	if locks.Len() != 0 {
		t.Errorf("Expected lock table to be empty, got %d entries", locks.Len())
	}
}

func TestUserLocks_DifferentUsersDoNotBlock(t *testing.T) {
	locks := NewUserLocks()

	unlock := locks.Lock("u1")
	defer unlock()

	done := make(chan struct{})
	go func() {
		release := locks.Lock("u2")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Lock for u2 blocked behind u1")
	}
}

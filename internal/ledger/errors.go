package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/BalramApply/WealthStream/internal/models"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientUnits   = models.ErrInsufficientUnits
	ErrNoPortfolio         = errors.New("no portfolio")
	ErrInvalidQuantity     = errors.New("units must be positive")
	ErrInvalidSide         = errors.New("side must be buy or sell")
	ErrStorageFailure      = errors.New("storage failure")
)

// StorageError wraps a failure of the underlying store. It matches
// ErrStorageFailure and unwraps to the driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageFailure, e.Err}
}

var domainErrors = []struct {
	err  error
	kind string
}{
	{ErrProductNotFound, "ProductNotFound"},
	{ErrUserNotFound, "UserNotFound"},
	{ErrInsufficientBalance, "InsufficientBalance"},
	{ErrInsufficientUnits, "InsufficientUnits"},
	{ErrNoPortfolio, "NoPortfolio"},
	{ErrInvalidQuantity, "InvalidQuantity"},
	{ErrInvalidSide, "InvalidSide"},
	{ErrStorageFailure, "StorageFailure"},
	{ErrDispatcherStopped, "Unavailable"},
	{context.DeadlineExceeded, "Timeout"},
	{context.Canceled, "Canceled"},
}

// Kind returns the stable name of err's category, or "" for nil and
// "Internal" for anything unknown.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			return de.kind
		}
	}
	return "Internal"
}

// storageFailure passes domain errors through and wraps everything else.
func storageFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if k := Kind(err); k != "Internal" {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

package handlers

import (
	"net/http"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/gin-gonic/gin"
)

var statusByKind = map[string]int{
	"ProductNotFound":     http.StatusNotFound,
	"UserNotFound":        http.StatusNotFound,
	"InsufficientBalance": http.StatusUnprocessableEntity,
	"InsufficientUnits":   http.StatusUnprocessableEntity,
	"NoPortfolio":         http.StatusUnprocessableEntity,
	"InvalidQuantity":     http.StatusBadRequest,
	"InvalidSide":         http.StatusBadRequest,
	"StorageFailure":      http.StatusServiceUnavailable,
	"Unavailable":         http.StatusServiceUnavailable,
	"Canceled":            http.StatusServiceUnavailable,
	"Timeout":             http.StatusGatewayTimeout,
}

// respondError writes err as {"error", "kind"} with the status of its kind.
func (h *Handler) respondError(c *gin.Context, err error) {
	kind := ledger.Kind(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		// driver details stay in the log
		c.JSON(status, gin.H{"error": "Service temporarily unavailable", "kind": kind})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "BadRequest"})
}

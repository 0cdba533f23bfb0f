package handlers

import (
	"net/http"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/gin-gonic/gin"
)

// Buy handles POST /api/transactions/buy
func (h *Handler) Buy(c *gin.Context) {
	h.placeOrder(c, models.SideBuy, "Investment successful")
}

// Sell handles POST /api/transactions/sell
func (h *Handler) Sell(c *gin.Context) {
	h.placeOrder(c, models.SideSell, "Sale successful")
}

func (h *Handler) placeOrder(c *gin.Context, side models.Side, message string) {
	var req models.OrderRequest

	// Parse JSON request body
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.orders.Submit(c.Request.Context(), ledger.Order{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Units:     req.Units,
		Side:      side,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":           message,
		"transaction":       result.Transaction,
		"remaining_balance": result.Balance,
	})
}

// TransactionHistory handles GET /api/transactions/:userId
func (h *Handler) TransactionHistory(c *gin.Context) {
	txns, err := h.ledger.Transactions(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txns,
		"count":        len(txns),
	})
}

// Portfolio handles GET /api/portfolio/:userId
func (h *Handler) Portfolio(c *gin.Context) {
	view, err := h.ledger.GetPortfolio(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Wallet handles GET /api/users/:userId/wallet
func (h *Handler) Wallet(c *gin.Context) {
	userID := c.Param("userId")
	balance, err := h.ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"balance": balance,
		"display": h.ledger.FormatAmount(balance),
	})
}

package handlers

import (
	"context"
	"net/http"

	"github.com/BalramApply/WealthStream/internal/db"
	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OrderSubmitter runs an order and waits for its result.
type OrderSubmitter interface {
	Submit(ctx context.Context, order ledger.Order) (*ledger.OrderResult, error)
}

// LedgerReader is the read side of the ledger used by the API.
type LedgerReader interface {
	GetPortfolio(ctx context.Context, userID string) (*ledger.PortfolioView, error)
	Transactions(ctx context.Context, userID string) ([]models.Transaction, error)
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
	FormatAmount(amount decimal.Decimal) string
}

// TransactionFeed hands out per-user transaction subscriptions.
type TransactionFeed interface {
	Subscribe(userID string) (<-chan models.Transaction, func())
}

// Handler serves the HTTP API.
type Handler struct {
	orders  OrderSubmitter
	ledger  LedgerReader
	catalog db.ProductCatalog
	feed    TransactionFeed
	log     logrus.FieldLogger
}

// New creates a Handler.
func New(orders OrderSubmitter, reader LedgerReader, catalog db.ProductCatalog, feed TransactionFeed, log logrus.FieldLogger) *Handler {
	return &Handler{
		orders:  orders,
		ledger:  reader,
		catalog: catalog,
		feed:    feed,
		log:     log,
	}
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.log))

	api := router.Group("/api")
	{
		// Order endpoints
		api.POST("/transactions/buy", h.Buy)
		api.POST("/transactions/sell", h.Sell)
		api.GET("/transactions/:userId", h.TransactionHistory)

		api.GET("/portfolio/:userId", h.Portfolio)
		api.GET("/users/:userId/wallet", h.Wallet)

		// Catalog endpoints
		api.GET("/products", h.ListProducts)
		api.GET("/products/category/:category", h.ProductsByCategory)
		api.GET("/products/:id", h.GetProduct)
	}

	router.GET("/ws/transactions/:userId", h.TransactionStream)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return router
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		}).Debug("HTTP request")
	}
}

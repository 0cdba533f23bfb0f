package handlers

import (
	"fmt"
	"net/http"

	"github.com/BalramApply/WealthStream/internal/ledger"
	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/gin-gonic/gin"
)

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	h.listProducts(c, "")
}

// ProductsByCategory handles GET /api/products/category/:category
func (h *Handler) ProductsByCategory(c *gin.Context) {
	category := models.Category(c.Param("category"))
	if !category.Valid() {
		badRequest(c, fmt.Errorf("unknown category %q", category))
		return
	}
	h.listProducts(c, category)
}

func (h *Handler) listProducts(c *gin.Context, category models.Category) {
	products, err := h.catalog.ListProducts(c.Request.Context(), category)
	if err != nil {
		h.respondError(c, &ledger.StorageError{Op: "list products", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct handles GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if ledger.Kind(err) == "Internal" {
			err = &ledger.StorageError{Op: "get product", Err: err}
		}
		h.respondError(c, err)
		return
	}
	if !product.IsActive {
		h.respondError(c, ledger.ErrProductNotFound)
		return
	}
	c.JSON(http.StatusOK, product)
}

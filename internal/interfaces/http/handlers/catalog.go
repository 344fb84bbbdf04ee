// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/erp-analytics/internal/config"
	"github.com/your-org/erp-analytics/internal/domain/catalog"
	"gorm.io/gorm"
)

// CatalogHandler handles base-schema endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
	config         *config.Config
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalog.NewService(db, cfg),
		config:         cfg,
	}
}

// GetCustomers handles GET /customers
func (h *CatalogHandler) GetCustomers(c *gin.Context) {
	customers, err := h.catalogService.GetCustomers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve customers",
		})
		return
	}

	if len(customers) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "No customers found.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
	})
}

// GetCustomer handles GET /customers/:id
func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid customer ID",
		})
		return
	}

	customer, err := h.catalogService.GetCustomer(uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Customer not found.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve customer",
		})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// GetProducts handles GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.catalogService.GetProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve products",
		})
		return
	}

	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "No products found.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// GetOrders handles GET /orders
func (h *CatalogHandler) GetOrders(c *gin.Context) {
	orders, err := h.catalogService.GetOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	if len(orders) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "No orders found.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

// GetOrderDetails handles GET /orders/:id
func (h *CatalogHandler) GetOrderDetails(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	lines, err := h.catalogService.GetOrderLines(uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Order not found.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order details",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_details": lines,
	})
}

// CreateOrder handles POST /orders
func (h *CatalogHandler) CreateOrder(c *gin.Context) {
	var req catalog.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Customer ID and products are required.",
		})
		return
	}

	order, err := h.catalogService.CreateOrder(&req)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Customer not found.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create order",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order created successfully.",
		"order_id": order.OrderID,
	})
}

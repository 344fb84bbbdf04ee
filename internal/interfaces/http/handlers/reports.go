// internal/interfaces/http/handlers/reports.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/erp-analytics/internal/config"
	"github.com/your-org/erp-analytics/internal/domain/analytics"
	redisdb "github.com/your-org/erp-analytics/internal/infrastructure/database/redis"
	"gorm.io/gorm"
)

// Cache keys for report payloads
const (
	cacheKeyTopProducts         = "reports:top_products"
	cacheKeyLateDeliveryRate    = "reports:late_delivery_rate"
	cacheKeyCustomerPerformance = "reports:customer_performance"
	cacheKeyDiscountAnalysis    = "reports:discount_analysis"
)

// ReportsHandler handles reporting endpoints
type ReportsHandler struct {
	engine *analytics.Engine
	cache  *redisdb.Client
	config *config.Config
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(db *gorm.DB, cache *redisdb.Client, cfg *config.Config) *ReportsHandler {
	return &ReportsHandler{
		engine: analytics.NewEngine(db, cfg),
		cache:  cache,
		config: cfg,
	}
}

// GetTopProducts handles GET /reports/top-products
func (h *ReportsHandler) GetTopProducts(c *gin.Context) {
	var cached []analytics.TopSellingProduct
	if err := h.cache.GetJSON(c.Request.Context(), cacheKeyTopProducts, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Top selling products retrieved successfully",
			"data":    cached,
			"cached":  true,
		})
		return
	}

	rows, err := h.engine.RebuildTopSellingProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute top selling products",
		})
		return
	}

	// Best effort; a cache failure never fails the request
	_ = h.cache.SetJSON(c.Request.Context(), cacheKeyTopProducts, rows, h.config.Analytics.ReportCacheTTL)

	c.JSON(http.StatusOK, gin.H{
		"message": "Top selling products retrieved successfully",
		"data":    rows,
	})
}

// GetLateDeliveryRate handles GET /reports/late-delivery-rate
func (h *ReportsHandler) GetLateDeliveryRate(c *gin.Context) {
	var cached float64
	if err := h.cache.GetJSON(c.Request.Context(), cacheKeyLateDeliveryRate, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Late delivery rate retrieved successfully",
			"data":    gin.H{"late_delivery_rate_percentage": cached},
			"cached":  true,
		})
		return
	}

	rate, err := h.engine.LateDeliveryRate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute late delivery rate",
		})
		return
	}

	_ = h.cache.SetJSON(c.Request.Context(), cacheKeyLateDeliveryRate, rate, h.config.Analytics.ReportCacheTTL)

	c.JSON(http.StatusOK, gin.H{
		"message": "Late delivery rate retrieved successfully",
		"data":    gin.H{"late_delivery_rate_percentage": rate},
	})
}

// GetCustomerPerformance handles GET /reports/customer-performance
func (h *ReportsHandler) GetCustomerPerformance(c *gin.Context) {
	var cached []analytics.CustomerSalesPerformance
	if err := h.cache.GetJSON(c.Request.Context(), cacheKeyCustomerPerformance, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Customer sales performance retrieved successfully",
			"data":    cached,
			"cached":  true,
		})
		return
	}

	rows, err := h.engine.RebuildCustomerSalesPerformance()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute customer sales performance",
		})
		return
	}

	_ = h.cache.SetJSON(c.Request.Context(), cacheKeyCustomerPerformance, rows, h.config.Analytics.ReportCacheTTL)

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer sales performance retrieved successfully",
		"data":    rows,
	})
}

// GetSalesForecast handles GET /reports/sales-forecast
//
// The reference date for the trailing-3-month window defaults to now and can
// be pinned with ?as_of=YYYY-MM-DD. Forecasts are never cached: the window
// depends on the reference date.
func (h *ReportsHandler) GetSalesForecast(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid as_of date, expected YYYY-MM-DD",
			})
			return
		}
		asOf = parsed
	}

	rows, err := h.engine.RebuildSalesForecast(asOf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute sales forecast",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales forecast retrieved successfully",
		"data":    rows,
		"as_of":   asOf.Format("2006-01-02"),
	})
}

// GetDiscountAnalysis handles GET /reports/discount-analysis
func (h *ReportsHandler) GetDiscountAnalysis(c *gin.Context) {
	var cached []analytics.DiscountAnalysis
	if err := h.cache.GetJSON(c.Request.Context(), cacheKeyDiscountAnalysis, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Discount analysis retrieved successfully",
			"data":    cached,
			"cached":  true,
		})
		return
	}

	rows, err := h.engine.RebuildDiscountAnalysis()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute discount analysis",
		})
		return
	}

	_ = h.cache.SetJSON(c.Request.Context(), cacheKeyDiscountAnalysis, rows, h.config.Analytics.ReportCacheTTL)

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount analysis retrieved successfully",
		"data":    rows,
	})
}

// RebuildAll handles POST /reports/rebuild
func (h *ReportsHandler) RebuildAll(c *gin.Context) {
	if err := h.engine.RebuildAll(time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to rebuild reporting tables",
		})
		return
	}

	// Drop stale cached payloads
	_ = h.cache.Del(c.Request.Context(),
		cacheKeyTopProducts,
		cacheKeyLateDeliveryRate,
		cacheKeyCustomerPerformance,
		cacheKeyDiscountAnalysis,
	)

	c.JSON(http.StatusOK, gin.H{
		"message": "Reporting tables rebuilt successfully",
	})
}

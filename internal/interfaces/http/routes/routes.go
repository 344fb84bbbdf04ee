// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/erp-analytics/internal/config"
	redisdb "github.com/your-org/erp-analytics/internal/infrastructure/database/redis"
	"github.com/your-org/erp-analytics/internal/interfaces/http/handlers"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, cache *redisdb.Client, cfg *config.Config) {
	SetupCatalogRoutes(rg, db, cfg)
	SetupReportRoutes(rg, db, cache, cfg)
}

// SetupCatalogRoutes sets up base-schema routes
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	catalogHandler := handlers.NewCatalogHandler(db, cfg)

	customers := rg.Group("/customers")
	{
		customers.GET("", catalogHandler.GetCustomers)
		customers.GET("/:id", catalogHandler.GetCustomer)
	}

	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
	}

	orders := rg.Group("/orders")
	{
		orders.GET("", catalogHandler.GetOrders)
		orders.GET("/:id", catalogHandler.GetOrderDetails)
		orders.POST("", catalogHandler.CreateOrder)
	}
}

// SetupReportRoutes sets up reporting routes
func SetupReportRoutes(rg *gin.RouterGroup, db *gorm.DB, cache *redisdb.Client, cfg *config.Config) {
	reportsHandler := handlers.NewReportsHandler(db, cache, cfg)

	reports := rg.Group("/reports")
	{
		reports.GET("/top-products", reportsHandler.GetTopProducts)
		reports.GET("/late-delivery-rate", reportsHandler.GetLateDeliveryRate)
		reports.GET("/customer-performance", reportsHandler.GetCustomerPerformance)
		reports.GET("/sales-forecast", reportsHandler.GetSalesForecast)
		reports.GET("/discount-analysis", reportsHandler.GetDiscountAnalysis)
		reports.POST("/rebuild", reportsHandler.RebuildAll)
	}
}

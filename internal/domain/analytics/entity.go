// internal/domain/analytics/entity.go
package analytics

// Customer value segments assigned by the sales performance derivation
const (
	CategoryHighValue = "High-Value Customer"
	CategoryRegular   = "Regular Customer"
)

// TopSellingProduct is one row of the top_selling_products reporting table:
// a product ranked within its category by total units sold. At most three
// ranks per category survive the derivation.
type TopSellingProduct struct {
	Category    string  `gorm:"not null;size:50;index" json:"category"`
	ProductName string  `gorm:"not null;size:100" json:"product_name"`
	TotalSales  float64 `gorm:"not null" json:"total_sales"`
	SalesRank   int     `gorm:"not null" json:"sales_rank"`
}

// TableName overrides the table name for TopSellingProduct
func (TopSellingProduct) TableName() string {
	return "top_selling_products"
}

// CustomerSalesPerformance is one row of the customer_sales_performance
// reporting table. Only customers with at least one order appear.
type CustomerSalesPerformance struct {
	CustomerID       uint    `gorm:"primaryKey;column:customer_id" json:"customer_id"`
	TotalOrders      int64   `gorm:"not null" json:"total_orders"`
	TotalRevenue     float64 `gorm:"not null" json:"total_revenue"`
	AvgOrderValue    float64 `gorm:"not null" json:"avg_order_value"`
	RevenueRank      int     `gorm:"not null" json:"revenue_rank"`
	CustomerCategory string  `gorm:"not null;size:30" json:"customer_category"`
}

// TableName overrides the table name for CustomerSalesPerformance
func (CustomerSalesPerformance) TableName() string {
	return "customer_sales_performance"
}

// SalesForecast is one row of the sales_forecast reporting table: current
// stock against trailing-3-month sales velocity. The stockout estimate is
// null when nothing sold inside the window, since there is no velocity to
// project from.
type SalesForecast struct {
	ProductID                     uint   `gorm:"primaryKey;column:product_id" json:"product_id"`
	ProductName                   string `gorm:"not null;size:100" json:"product_name"`
	StockQuantity                 int64  `gorm:"not null" json:"stock_quantity"`
	SalesLastThreeMonths          int64  `gorm:"not null;column:sales_last_3_months" json:"sales_last_3_months"`
	EstimatedMonthsBeforeStockout *int64 `json:"estimated_months_before_stockout"`
	StockRank                     int    `gorm:"not null" json:"stock_rank"`
}

// TableName overrides the table name for SalesForecast
func (SalesForecast) TableName() string {
	return "sales_forecast"
}

// DiscountAnalysis is one row of the discount_analysis reporting table:
// per-order revenue against catalogue value and modeled cost. Orders with no
// product lines are absent.
type DiscountAnalysis struct {
	OrderID                uint    `gorm:"primaryKey;column:order_id" json:"order_id"`
	TotalRevenue           float64 `gorm:"not null" json:"total_revenue"`
	TotalCost              float64 `gorm:"not null" json:"total_cost"`
	Profit                 float64 `gorm:"not null" json:"profit"`
	ProfitMarginPercentage float64 `gorm:"not null" json:"profit_margin_percentage"`
	DiscountPercentage     float64 `gorm:"not null" json:"discount_percentage"`
	ProfitabilityRank      int     `gorm:"not null" json:"profitability_rank"`
}

// TableName overrides the table name for DiscountAnalysis
func (DiscountAnalysis) TableName() string {
	return "discount_analysis"
}

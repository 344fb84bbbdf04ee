// internal/domain/analytics/service.go
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/your-org/erp-analytics/internal/config"
	"github.com/your-org/erp-analytics/internal/domain/catalog"
	"gorm.io/gorm"
)

// TopProductsPerCategory caps how many ranks survive per category in the
// top_selling_products table.
const TopProductsPerCategory = 3

// DefaultCostRatio is the assumed unit cost as a fraction of catalogue list
// price. The order schema has no per-product cost column, so profitability is
// modeled against this ratio; override it via ANALYTICS_COST_RATIO.
const DefaultCostRatio = 0.7

// DefaultLateDeliveryDayLimit is the elapsed-days threshold beyond which a
// delivered order counts as late.
const DefaultLateDeliveryDayLimit = 5.0

// Engine derives the reporting tables from the base order schema. Each
// Rebuild* method is an idempotent batch derivation: it recomputes its table
// from current base-table state and swaps the contents atomically, so a
// failure leaves the previous rows in place.
type Engine struct {
	db     *gorm.DB
	config *config.Config
}

// NewEngine creates a new analytics engine
func NewEngine(db *gorm.DB, cfg *config.Config) *Engine {
	return &Engine{
		db:     db,
		config: cfg,
	}
}

func (e *Engine) costRatio() float64 {
	if e.config != nil && e.config.Analytics.CostRatio > 0 {
		return e.config.Analytics.CostRatio
	}
	return DefaultCostRatio
}

func (e *Engine) lateDeliveryDayLimit() float64 {
	if e.config != nil && e.config.Analytics.LateDeliveryDayLimit > 0 {
		return e.config.Analytics.LateDeliveryDayLimit
	}
	return DefaultLateDeliveryDayLimit
}

// replaceTable swaps a derived table's contents for rows. Must run inside a
// transaction so readers never observe a dropped-but-empty table.
func replaceTable[T any](tx *gorm.DB, rows []T) error {
	var model T
	if err := tx.Migrator().DropTable(&model); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if err := tx.Migrator().CreateTable(&model); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, 200).Error; err != nil {
		return fmt.Errorf("failed to insert rows: %w", err)
	}
	return nil
}

// RebuildTopSellingProducts replaces the top_selling_products table with the
// top three products per category by total units sold. Equal totals share a
// rank and leave a gap after them.
func (e *Engine) RebuildTopSellingProducts() ([]TopSellingProduct, error) {
	var result []TopSellingProduct

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var sales []struct {
			Category    string
			ProductName string
			TotalSales  float64
		}
		err := tx.Raw(`
			SELECT p.category, p.name AS product_name, SUM(od.quantity) AS total_sales
			FROM order_details od
			JOIN products p ON p.product_id = od.product_id
			GROUP BY p.category, p.name
			ORDER BY p.category, total_sales DESC, p.name
		`).Scan(&sales).Error
		if err != nil {
			return fmt.Errorf("failed to aggregate product sales: %w", err)
		}

		rows := make([]TopSellingProduct, 0, len(sales))
		for start := 0; start < len(sales); {
			end := start
			for end < len(sales) && sales[end].Category == sales[start].Category {
				end++
			}

			totals := make([]float64, 0, end-start)
			for _, s := range sales[start:end] {
				totals = append(totals, s.TotalSales)
			}
			ranks := rankDescending(totals)

			for i, s := range sales[start:end] {
				if ranks[i] > TopProductsPerCategory {
					continue
				}
				rows = append(rows, TopSellingProduct{
					Category:    s.Category,
					ProductName: s.ProductName,
					TotalSales:  round2(s.TotalSales),
					SalesRank:   ranks[i],
				})
			}
			start = end
		}

		if err := replaceTable(tx, rows); err != nil {
			return fmt.Errorf("failed to replace top_selling_products: %w", err)
		}
		result = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LateDeliveryRate returns the percentage of delivered, dated orders whose
// elapsed delivery time exceeded the configured day limit. The difference is
// continuous, so fractional days count against the limit. Returns 0.0 when
// no qualifying orders exist.
func (e *Engine) LateDeliveryRate() (float64, error) {
	var orders []struct {
		OrderDate    time.Time
		DeliveryDate time.Time
	}
	err := e.db.Raw(`
		SELECT order_date, delivery_date
		FROM orders
		WHERE status = ? AND delivery_date IS NOT NULL
	`, catalog.OrderStatusDelivered).Scan(&orders).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load delivered orders: %w", err)
	}

	if len(orders) == 0 {
		return 0.0, nil
	}

	limit := e.lateDeliveryDayLimit()
	late := 0
	for _, o := range orders {
		elapsedDays := o.DeliveryDate.Sub(o.OrderDate).Hours() / 24
		if elapsedDays > limit {
			late++
		}
	}

	return round2(float64(late) / float64(len(orders)) * 100), nil
}

// RebuildCustomerSalesPerformance replaces the customer_sales_performance
// table. Customers without orders are excluded; the rest are ranked globally
// by revenue and split into value segments around the mean revenue.
func (e *Engine) RebuildCustomerSalesPerformance() ([]CustomerSalesPerformance, error) {
	var result []CustomerSalesPerformance

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var stats []struct {
			CustomerID   uint
			TotalOrders  int64
			TotalRevenue float64
		}
		err := tx.Raw(`
			SELECT c.customer_id,
			       COUNT(DISTINCT o.order_id) AS total_orders,
			       COALESCE(SUM(od.total_price), 0) AS total_revenue
			FROM customers c
			LEFT JOIN orders o ON o.customer_id = c.customer_id
			LEFT JOIN order_details od ON od.order_id = o.order_id
			GROUP BY c.customer_id
			HAVING COUNT(DISTINCT o.order_id) > 0
			ORDER BY total_revenue DESC, c.customer_id
		`).Scan(&stats).Error
		if err != nil {
			return fmt.Errorf("failed to aggregate customer sales: %w", err)
		}

		rows := make([]CustomerSalesPerformance, 0, len(stats))
		revenues := make([]float64, 0, len(stats))
		var revenueSum float64
		for _, s := range stats {
			revenue := round2(s.TotalRevenue)
			revenues = append(revenues, revenue)
			revenueSum += revenue
			rows = append(rows, CustomerSalesPerformance{
				CustomerID:    s.CustomerID,
				TotalOrders:   s.TotalOrders,
				TotalRevenue:  revenue,
				AvgOrderValue: round2(revenue / float64(s.TotalOrders)),
			})
		}

		if len(rows) > 0 {
			mean := revenueSum / float64(len(rows))
			ranks := rankDescending(revenues)
			for i := range rows {
				rows[i].RevenueRank = ranks[i]
				if rows[i].TotalRevenue > mean {
					rows[i].CustomerCategory = CategoryHighValue
				} else {
					rows[i].CustomerCategory = CategoryRegular
				}
			}
		}

		if err := replaceTable(tx, rows); err != nil {
			return fmt.Errorf("failed to replace customer_sales_performance: %w", err)
		}
		result = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RebuildSalesForecast replaces the sales_forecast table, projecting months
// of inventory runway from the trailing-3-month sales velocity. The window
// is [asOf - 3 months, asOf]; callers thread the reference date explicitly
// so the derivation stays deterministic under test.
func (e *Engine) RebuildSalesForecast(asOf time.Time) ([]SalesForecast, error) {
	var result []SalesForecast
	windowStart := asOf.AddDate(0, -3, 0)

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var stock []struct {
			ProductID     uint
			ProductName   string
			StockQuantity int64
		}
		err := tx.Raw(`
			SELECT p.product_id, p.name AS product_name,
			       COALESCE(SUM(i.stock_quantity), 0) AS stock_quantity
			FROM products p
			LEFT JOIN inventories i ON i.product_id = p.product_id
			GROUP BY p.product_id, p.name
			ORDER BY stock_quantity DESC, p.product_id
		`).Scan(&stock).Error
		if err != nil {
			return fmt.Errorf("failed to aggregate inventory: %w", err)
		}

		var windowSales []struct {
			ProductID uint
			Units     int64
		}
		err = tx.Raw(`
			SELECT od.product_id, SUM(od.quantity) AS units
			FROM order_details od
			JOIN orders o ON o.order_id = od.order_id
			WHERE o.order_date >= ? AND o.order_date <= ?
			GROUP BY od.product_id
		`, windowStart, asOf).Scan(&windowSales).Error
		if err != nil {
			return fmt.Errorf("failed to aggregate windowed sales: %w", err)
		}

		unitsByProduct := make(map[uint]int64, len(windowSales))
		for _, s := range windowSales {
			unitsByProduct[s.ProductID] = s.Units
		}

		rows := make([]SalesForecast, 0, len(stock))
		stocks := make([]float64, 0, len(stock))
		for _, s := range stock {
			row := SalesForecast{
				ProductID:            s.ProductID,
				ProductName:          s.ProductName,
				StockQuantity:        s.StockQuantity,
				SalesLastThreeMonths: unitsByProduct[s.ProductID],
			}
			if row.SalesLastThreeMonths > 0 {
				monthlyRate := float64(row.SalesLastThreeMonths) / 3.0
				months := int64(math.Round(float64(row.StockQuantity) / monthlyRate))
				row.EstimatedMonthsBeforeStockout = &months
			}
			rows = append(rows, row)
			stocks = append(stocks, float64(s.StockQuantity))
		}

		ranks := rankDescending(stocks)
		for i := range rows {
			rows[i].StockRank = ranks[i]
		}

		if err := replaceTable(tx, rows); err != nil {
			return fmt.Errorf("failed to replace sales_forecast: %w", err)
		}
		result = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RebuildDiscountAnalysis replaces the discount_analysis table, comparing
// each order's charged revenue to its catalogue value and modeled cost.
// Orders without product lines do not appear.
func (e *Engine) RebuildDiscountAnalysis() ([]DiscountAnalysis, error) {
	var result []DiscountAnalysis
	ratio := e.costRatio()

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var totals []struct {
			OrderID     uint
			ActualPrice float64
			ListPrice   float64
		}
		err := tx.Raw(`
			SELECT od.order_id,
			       SUM(od.total_price) AS actual_price,
			       SUM(p.price * od.quantity) AS list_price
			FROM order_details od
			JOIN products p ON p.product_id = od.product_id
			GROUP BY od.order_id
		`).Scan(&totals).Error
		if err != nil {
			return fmt.Errorf("failed to aggregate order totals: %w", err)
		}

		rows := make([]DiscountAnalysis, 0, len(totals))
		for _, t := range totals {
			costPrice := t.ListPrice * ratio
			row := DiscountAnalysis{
				OrderID:      t.OrderID,
				TotalRevenue: round2(t.ActualPrice),
				TotalCost:    round2(costPrice),
				Profit:       round2(t.ActualPrice - costPrice),
			}
			if t.ActualPrice > 0 {
				row.ProfitMarginPercentage = round2((t.ActualPrice - costPrice) / t.ActualPrice * 100)
			}
			if t.ListPrice > 0 {
				row.DiscountPercentage = round2((t.ListPrice - t.ActualPrice) / t.ListPrice * 100)
			}
			rows = append(rows, row)
		}

		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Profit != rows[j].Profit {
				return rows[i].Profit > rows[j].Profit
			}
			return rows[i].OrderID < rows[j].OrderID
		})
		profits := make([]float64, 0, len(rows))
		for _, r := range rows {
			profits = append(profits, r.Profit)
		}
		ranks := rankDescending(profits)
		for i := range rows {
			rows[i].ProfitabilityRank = ranks[i]
		}

		if err := replaceTable(tx, rows); err != nil {
			return fmt.Errorf("failed to replace discount_analysis: %w", err)
		}
		result = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RebuildAll recomputes every reporting table. The derivations are
// independent; each runs in its own transaction, so a failure in one leaves
// the others' tables untouched.
func (e *Engine) RebuildAll(asOf time.Time) error {
	if _, err := e.RebuildTopSellingProducts(); err != nil {
		return fmt.Errorf("top selling products: %w", err)
	}
	if _, err := e.RebuildCustomerSalesPerformance(); err != nil {
		return fmt.Errorf("customer sales performance: %w", err)
	}
	if _, err := e.RebuildSalesForecast(asOf); err != nil {
		return fmt.Errorf("sales forecast: %w", err)
	}
	if _, err := e.RebuildDiscountAnalysis(); err != nil {
		return fmt.Errorf("discount analysis: %w", err)
	}
	return nil
}

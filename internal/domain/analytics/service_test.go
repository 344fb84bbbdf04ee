// internal/domain/analytics/service_test.go
package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/erp-analytics/internal/config"
	"github.com/your-org/erp-analytics/internal/domain/catalog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.Customer{},
		&catalog.Product{},
		&catalog.Order{},
		&catalog.OrderDetail{},
		&catalog.Inventory{},
	))
	return db
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		Analytics: config.AnalyticsConfig{
			CostRatio:            DefaultCostRatio,
			LateDeliveryDayLimit: DefaultLateDeliveryDayLimit,
		},
	}
	return NewEngine(db, cfg), db
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) catalog.Customer {
	t.Helper()
	c := catalog.Customer{Name: name}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, name, category string, price float64) catalog.Product {
	t.Helper()
	p := catalog.Product{Name: name, Category: category, Price: price}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedOrder(t *testing.T, db *gorm.DB, customerID uint, orderDate time.Time) catalog.Order {
	t.Helper()
	o := catalog.Order{CustomerID: customerID, OrderDate: orderDate, Status: catalog.OrderStatusPending}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func seedDelivered(t *testing.T, db *gorm.DB, customerID uint, orderDate, deliveryDate time.Time) catalog.Order {
	t.Helper()
	o := catalog.Order{
		CustomerID:   customerID,
		OrderDate:    orderDate,
		DeliveryDate: &deliveryDate,
		Status:       catalog.OrderStatusDelivered,
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func seedDetail(t *testing.T, db *gorm.DB, orderID, productID uint, quantity int, totalPrice float64) {
	t.Helper()
	d := catalog.OrderDetail{OrderID: orderID, ProductID: productID, Quantity: quantity, TotalPrice: totalPrice}
	require.NoError(t, db.Create(&d).Error)
}

func seedStock(t *testing.T, db *gorm.DB, productID uint, warehouse string, quantity int) {
	t.Helper()
	inv := catalog.Inventory{ProductID: productID, Warehouse: warehouse, StockQuantity: quantity}
	require.NoError(t, db.Create(&inv).Error)
}

func TestRebuildTopSellingProducts(t *testing.T) {
	eng, db := newTestEngine(t)
	now := time.Now()

	cust := seedCustomer(t, db, "Alice")
	order := seedOrder(t, db, cust.CustomerID, now)

	drill := seedProduct(t, db, "Drill", "Tools", 89.99)
	hammer := seedProduct(t, db, "Hammer", "Tools", 17.50)
	saw := seedProduct(t, db, "Saw", "Tools", 25.00)
	wrench := seedProduct(t, db, "Wrench", "Tools", 12.00)
	lamp := seedProduct(t, db, "Lamp", "Home", 32.00)

	// Tools: Drill and Hammer tie at 10 units, Saw 5, Wrench 3
	seedDetail(t, db, order.OrderID, drill.ProductID, 10, 800.00)
	seedDetail(t, db, order.OrderID, hammer.ProductID, 10, 170.00)
	seedDetail(t, db, order.OrderID, saw.ProductID, 5, 120.00)
	seedDetail(t, db, order.OrderID, wrench.ProductID, 3, 36.00)
	// Home: only the lamp sold
	seedDetail(t, db, order.OrderID, lamp.ProductID, 7, 210.00)

	rows, err := eng.RebuildTopSellingProducts()
	require.NoError(t, err)

	byCategory := map[string][]TopSellingProduct{}
	for _, r := range rows {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	tools := byCategory["Tools"]
	require.Len(t, tools, 3, "at most 3 ranked rows per category")
	assert.Equal(t, []int{1, 1, 3}, []int{tools[0].SalesRank, tools[1].SalesRank, tools[2].SalesRank})
	assert.Equal(t, "Saw", tools[2].ProductName)
	for i := 1; i < len(tools); i++ {
		assert.LessOrEqual(t, tools[i].TotalSales, tools[i-1].TotalSales)
	}

	home := byCategory["Home"]
	require.Len(t, home, 1)
	assert.Equal(t, "Lamp", home[0].ProductName)
	assert.Equal(t, 1, home[0].SalesRank)
	assert.InDelta(t, 7.0, home[0].TotalSales, 0.001)

	// Rows are persisted, not just returned
	var persisted []TopSellingProduct
	require.NoError(t, db.Find(&persisted).Error)
	assert.Len(t, persisted, 4)
}

func TestRebuildTopSellingProductsEmptySchema(t *testing.T) {
	eng, db := newTestEngine(t)

	rows, err := eng.RebuildTopSellingProducts()
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.True(t, db.Migrator().HasTable(&TopSellingProduct{}))
	var count int64
	require.NoError(t, db.Model(&TopSellingProduct{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLateDeliveryRate(t *testing.T) {
	eng, db := newTestEngine(t)
	cust := seedCustomer(t, db, "Alice")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Exactly 5 elapsed days is on-time; the threshold is strict
	seedDelivered(t, db, cust.CustomerID, base, base.AddDate(0, 0, 5))
	// 5.5 elapsed days: the fractional half-day makes it late
	seedDelivered(t, db, cust.CustomerID, base, base.AddDate(0, 0, 5).Add(12*time.Hour))
	// 10 elapsed days: late
	seedDelivered(t, db, cust.CustomerID, base, base.AddDate(0, 0, 10))
	// Delivered but without a delivery date: excluded
	o := catalog.Order{CustomerID: cust.CustomerID, OrderDate: base, Status: catalog.OrderStatusDelivered}
	require.NoError(t, db.Create(&o).Error)
	// Pending order: excluded regardless of dates
	seedOrder(t, db, cust.CustomerID, base)

	rate, err := eng.LateDeliveryRate()
	require.NoError(t, err)
	assert.InDelta(t, 66.67, rate, 0.001)
}

func TestLateDeliveryRateNoQualifyingOrders(t *testing.T) {
	eng, db := newTestEngine(t)
	cust := seedCustomer(t, db, "Alice")
	seedOrder(t, db, cust.CustomerID, time.Now())

	rate, err := eng.LateDeliveryRate()
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
}

func TestRebuildCustomerSalesPerformance(t *testing.T) {
	eng, db := newTestEngine(t)
	now := time.Now()

	alice := seedCustomer(t, db, "Alice")
	bob := seedCustomer(t, db, "Bob")
	dana := seedCustomer(t, db, "Dana")
	seedCustomer(t, db, "Carl") // never orders

	widget := seedProduct(t, db, "Widget", "Tools", 10.00)

	aliceOrder1 := seedOrder(t, db, alice.CustomerID, now)
	aliceOrder2 := seedOrder(t, db, alice.CustomerID, now)
	bobOrder := seedOrder(t, db, bob.CustomerID, now)
	seedOrder(t, db, dana.CustomerID, now) // header without detail lines

	seedDetail(t, db, aliceOrder1.OrderID, widget.ProductID, 10, 100.00)
	seedDetail(t, db, aliceOrder1.OrderID, widget.ProductID, 15, 150.00)
	seedDetail(t, db, aliceOrder2.OrderID, widget.ProductID, 5, 50.00)
	seedDetail(t, db, bobOrder.OrderID, widget.ProductID, 10, 100.00)

	rows, err := eng.RebuildCustomerSalesPerformance()
	require.NoError(t, err)
	require.Len(t, rows, 3, "customers without orders are excluded")

	byID := map[uint]CustomerSalesPerformance{}
	for _, r := range rows {
		assert.Greater(t, r.TotalOrders, int64(0))
		byID[r.CustomerID] = r
	}
	_, hasCarl := byID[4]
	assert.False(t, hasCarl)

	a := byID[alice.CustomerID]
	assert.Equal(t, int64(2), a.TotalOrders)
	assert.InDelta(t, 300.00, a.TotalRevenue, 0.001)
	assert.InDelta(t, 150.00, a.AvgOrderValue, 0.001)
	assert.Equal(t, 1, a.RevenueRank)

	b := byID[bob.CustomerID]
	assert.Equal(t, int64(1), b.TotalOrders)
	assert.InDelta(t, 100.00, b.TotalRevenue, 0.001)
	assert.Equal(t, 2, b.RevenueRank)

	d := byID[dana.CustomerID]
	assert.Equal(t, int64(1), d.TotalOrders)
	assert.Zero(t, d.TotalRevenue)
	assert.Zero(t, d.AvgOrderValue)
	assert.Equal(t, 3, d.RevenueRank)

	// Mean revenue is (300+100+0)/3; only Alice clears it
	mean := (a.TotalRevenue + b.TotalRevenue + d.TotalRevenue) / 3
	for _, r := range rows {
		if r.TotalRevenue > mean {
			assert.Equal(t, CategoryHighValue, r.CustomerCategory)
		} else {
			assert.Equal(t, CategoryRegular, r.CustomerCategory)
		}
	}
	assert.Equal(t, CategoryHighValue, a.CustomerCategory)
	assert.Equal(t, CategoryRegular, b.CustomerCategory)
	assert.Equal(t, CategoryRegular, d.CustomerCategory)
}

func TestRebuildCustomerSalesPerformanceTiedRevenue(t *testing.T) {
	eng, db := newTestEngine(t)
	now := time.Now()

	alice := seedCustomer(t, db, "Alice")
	bob := seedCustomer(t, db, "Bob")
	carl := seedCustomer(t, db, "Carl")
	widget := seedProduct(t, db, "Widget", "Tools", 10.00)

	for _, id := range []uint{alice.CustomerID, bob.CustomerID} {
		o := seedOrder(t, db, id, now)
		seedDetail(t, db, o.OrderID, widget.ProductID, 10, 100.00)
	}
	o := seedOrder(t, db, carl.CustomerID, now)
	seedDetail(t, db, o.OrderID, widget.ProductID, 5, 50.00)

	rows, err := eng.RebuildCustomerSalesPerformance()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	ranks := []int{rows[0].RevenueRank, rows[1].RevenueRank, rows[2].RevenueRank}
	assert.Equal(t, []int{1, 1, 3}, ranks)
}

func TestRebuildSalesForecastScenario(t *testing.T) {
	eng, db := newTestEngine(t)
	asOf := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	cust := seedCustomer(t, db, "Alice")
	widget := seedProduct(t, db, "Widget", "Tools", 10.00)
	seedStock(t, db, widget.ProductID, "east", 50)

	order := seedOrder(t, db, cust.CustomerID, asOf.AddDate(0, 0, -40))
	seedDetail(t, db, order.OrderID, widget.ProductID, 5, 45.00)

	rows, err := eng.RebuildSalesForecast(asOf)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, widget.ProductID, r.ProductID)
	assert.Equal(t, "Widget", r.ProductName)
	assert.Equal(t, int64(50), r.StockQuantity)
	assert.Equal(t, int64(5), r.SalesLastThreeMonths)
	require.NotNil(t, r.EstimatedMonthsBeforeStockout)
	assert.Equal(t, int64(30), *r.EstimatedMonthsBeforeStockout)
	assert.Equal(t, 1, r.StockRank)
}

func TestRebuildSalesForecastVelocityAndWindow(t *testing.T) {
	eng, db := newTestEngine(t)
	asOf := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	windowStart := asOf.AddDate(0, -3, 0)

	cust := seedCustomer(t, db, "Alice")
	slow := seedProduct(t, db, "Anvil", "Tools", 99.00)
	fast := seedProduct(t, db, "Nails", "Tools", 3.00)
	unstocked := seedProduct(t, db, "Tape", "Tools", 2.00)

	// Stock sums across warehouses
	seedStock(t, db, slow.ProductID, "east", 50)
	seedStock(t, db, slow.ProductID, "west", 30)
	seedStock(t, db, fast.ProductID, "east", 10)

	// Anvil sold only before the window opened
	stale := seedOrder(t, db, cust.CustomerID, asOf.AddDate(0, -4, 0))
	seedDetail(t, db, stale.OrderID, slow.ProductID, 9, 891.00)

	// Nails sold at both window bounds, which are inclusive
	atStart := seedOrder(t, db, cust.CustomerID, windowStart)
	seedDetail(t, db, atStart.OrderID, fast.ProductID, 4, 12.00)
	atEnd := seedOrder(t, db, cust.CustomerID, asOf)
	seedDetail(t, db, atEnd.OrderID, fast.ProductID, 2, 6.00)

	// Tape sold recently but has no inventory rows
	recent := seedOrder(t, db, cust.CustomerID, asOf.AddDate(0, 0, -10))
	seedDetail(t, db, recent.OrderID, unstocked.ProductID, 2, 4.00)

	rows, err := eng.RebuildSalesForecast(asOf)
	require.NoError(t, err)
	require.Len(t, rows, 3, "every product appears")

	byID := map[uint]SalesForecast{}
	for _, r := range rows {
		byID[r.ProductID] = r
	}

	anvil := byID[slow.ProductID]
	assert.Equal(t, int64(80), anvil.StockQuantity)
	assert.Equal(t, int64(0), anvil.SalesLastThreeMonths)
	assert.Nil(t, anvil.EstimatedMonthsBeforeStockout, "no recent velocity means no estimate")
	assert.Equal(t, 1, anvil.StockRank)

	nails := byID[fast.ProductID]
	assert.Equal(t, int64(10), nails.StockQuantity)
	assert.Equal(t, int64(6), nails.SalesLastThreeMonths)
	require.NotNil(t, nails.EstimatedMonthsBeforeStockout)
	assert.Equal(t, int64(5), *nails.EstimatedMonthsBeforeStockout, "round(10 / (6/3)) = 5")
	assert.Equal(t, 2, nails.StockRank)

	tape := byID[unstocked.ProductID]
	assert.Equal(t, int64(0), tape.StockQuantity)
	assert.Equal(t, int64(2), tape.SalesLastThreeMonths)
	require.NotNil(t, tape.EstimatedMonthsBeforeStockout)
	assert.Equal(t, int64(0), *tape.EstimatedMonthsBeforeStockout)
	assert.Equal(t, 3, tape.StockRank)
}

func TestRebuildDiscountAnalysis(t *testing.T) {
	eng, db := newTestEngine(t)
	now := time.Now()

	cust := seedCustomer(t, db, "Alice")
	widget := seedProduct(t, db, "Widget", "Tools", 10.00)

	// Charged 45.00 against a 50.00 catalogue value
	discounted := seedOrder(t, db, cust.CustomerID, now)
	seedDetail(t, db, discounted.OrderID, widget.ProductID, 5, 45.00)

	// Free giveaway: zero revenue must not fault the margin calculation
	giveaway := seedOrder(t, db, cust.CustomerID, now)
	seedDetail(t, db, giveaway.OrderID, widget.ProductID, 1, 0.00)

	// Header without lines never appears
	seedOrder(t, db, cust.CustomerID, now)

	rows, err := eng.RebuildDiscountAnalysis()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, discounted.OrderID, first.OrderID)
	assert.InDelta(t, 45.00, first.TotalRevenue, 0.001)
	assert.InDelta(t, 35.00, first.TotalCost, 0.001)
	assert.InDelta(t, 10.00, first.Profit, 0.001)
	assert.InDelta(t, 22.22, first.ProfitMarginPercentage, 0.001)
	assert.InDelta(t, 10.00, first.DiscountPercentage, 0.001)
	assert.Equal(t, 1, first.ProfitabilityRank)

	second := rows[1]
	assert.Equal(t, giveaway.OrderID, second.OrderID)
	assert.Zero(t, second.TotalRevenue)
	assert.InDelta(t, 7.00, second.TotalCost, 0.001)
	assert.InDelta(t, -7.00, second.Profit, 0.001)
	assert.Zero(t, second.ProfitMarginPercentage)
	assert.InDelta(t, 100.00, second.DiscountPercentage, 0.001)
	assert.Equal(t, 2, second.ProfitabilityRank)

	for _, r := range rows {
		assert.InDelta(t, r.TotalRevenue-r.TotalCost, r.Profit, 0.01)
	}
}

func TestRebuildLeavesPriorRowsOnFailure(t *testing.T) {
	eng, db := newTestEngine(t)
	now := time.Now()

	cust := seedCustomer(t, db, "Alice")
	widget := seedProduct(t, db, "Widget", "Tools", 10.00)
	order := seedOrder(t, db, cust.CustomerID, now)
	seedDetail(t, db, order.OrderID, widget.ProductID, 5, 45.00)

	_, err := eng.RebuildDiscountAnalysis()
	require.NoError(t, err)

	// Break the read path and rebuild again
	require.NoError(t, db.Migrator().DropTable(&catalog.OrderDetail{}))
	_, err = eng.RebuildDiscountAnalysis()
	require.Error(t, err)

	// The previous materialization survives the failed run
	var persisted []DiscountAnalysis
	require.NoError(t, db.Find(&persisted).Error)
	require.Len(t, persisted, 1)
	assert.Equal(t, order.OrderID, persisted[0].OrderID)
	assert.InDelta(t, 10.00, persisted[0].Profit, 0.001)
}

func TestRebuildAll(t *testing.T) {
	eng, db := newTestEngine(t)
	asOf := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	cust := seedCustomer(t, db, "Alice")
	widget := seedProduct(t, db, "Widget", "Tools", 10.00)
	seedStock(t, db, widget.ProductID, "east", 50)
	order := seedOrder(t, db, cust.CustomerID, asOf.AddDate(0, 0, -40))
	seedDetail(t, db, order.OrderID, widget.ProductID, 5, 45.00)

	require.NoError(t, eng.RebuildAll(asOf))

	assert.True(t, db.Migrator().HasTable(&TopSellingProduct{}))
	assert.True(t, db.Migrator().HasTable(&CustomerSalesPerformance{}))
	assert.True(t, db.Migrator().HasTable(&SalesForecast{}))
	assert.True(t, db.Migrator().HasTable(&DiscountAnalysis{}))
}

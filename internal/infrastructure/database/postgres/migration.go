// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/erp-analytics/internal/domain/catalog"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for the base schema. The
// reporting tables are not migrated here: each derivation owns its table
// lifecycle and recreates it on every run.
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Base tables in dependency order
	models := []interface{}{
		&catalog.Customer{},
		&catalog.Product{},
		&catalog.Order{},
		&catalog.OrderDetail{},
		&catalog.Inventory{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_date ON orders(customer_id, order_date)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_delivery ON orders(status, delivery_date)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders(order_date DESC)",

		// Order detail indexes
		"CREATE INDEX IF NOT EXISTS idx_order_details_order_product ON order_details(order_id, product_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_details_product ON order_details(product_id)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",

		// Inventory indexes
		"CREATE INDEX IF NOT EXISTS idx_inventories_product ON inventories(product_id)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Additional database indexes created successfully")
	return nil
}

// SeedInitialData seeds a small demo dataset for development
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	var customerCount int64
	if err := m.db.Model(&catalog.Customer{}).Count(&customerCount).Error; err != nil {
		return fmt.Errorf("failed to count customers: %w", err)
	}
	if customerCount > 0 {
		log.Println("Base tables already contain data, skipping seed")
		return nil
	}

	customers := []catalog.Customer{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: "555-0101", Address: "12 Oak Street", Country: "USA"},
		{Name: "Bob Martinez", Email: "bob@example.com", Phone: "555-0102", Address: "34 Elm Avenue", Country: "Canada"},
		{Name: "Carla Nguyen", Email: "carla@example.com", Phone: "555-0103", Address: "56 Pine Road", Country: "USA"},
	}
	if err := m.db.Create(&customers).Error; err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	products := []catalog.Product{
		{Name: "Cordless Drill", Category: "Tools", Price: 89.99},
		{Name: "Claw Hammer", Category: "Tools", Price: 17.50},
		{Name: "Desk Lamp", Category: "Home", Price: 32.00},
		{Name: "Office Chair", Category: "Home", Price: 149.00},
	}
	if err := m.db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	now := time.Now()
	delivered := now.AddDate(0, 0, -10)
	orders := []catalog.Order{
		{CustomerID: customers[0].CustomerID, OrderDate: now.AddDate(0, 0, -14), DeliveryDate: &delivered, Status: catalog.OrderStatusDelivered},
		{CustomerID: customers[1].CustomerID, OrderDate: now.AddDate(0, 0, -5), Status: catalog.OrderStatusPending},
	}
	if err := m.db.Create(&orders).Error; err != nil {
		return fmt.Errorf("failed to seed orders: %w", err)
	}

	details := []catalog.OrderDetail{
		{OrderID: orders[0].OrderID, ProductID: products[0].ProductID, Quantity: 1, TotalPrice: 80.99},
		{OrderID: orders[0].OrderID, ProductID: products[1].ProductID, Quantity: 2, TotalPrice: 35.00},
		{OrderID: orders[1].OrderID, ProductID: products[2].ProductID, Quantity: 1, TotalPrice: 32.00},
	}
	if err := m.db.Create(&details).Error; err != nil {
		return fmt.Errorf("failed to seed order details: %w", err)
	}

	inventories := []catalog.Inventory{
		{ProductID: products[0].ProductID, Warehouse: "east", StockQuantity: 40},
		{ProductID: products[1].ProductID, Warehouse: "east", StockQuantity: 120},
		{ProductID: products[2].ProductID, Warehouse: "west", StockQuantity: 15},
		{ProductID: products[3].ProductID, Warehouse: "west", StockQuantity: 8},
	}
	if err := m.db.Create(&inventories).Error; err != nil {
		return fmt.Errorf("failed to seed inventories: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// GetTableInfo logs row counts for the base tables
func (m *Migration) GetTableInfo() {
	tables := []string{"customers", "products", "orders", "order_details", "inventories"}
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("Table %s: error counting rows: %v", table, err)
			continue
		}
		log.Printf("Table %s: %d rows", table, count)
	}
}

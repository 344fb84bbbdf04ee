// internal/domain/catalog/entity.go
package catalog

import (
	"time"
)

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Customer represents a customer record
type Customer struct {
	CustomerID uint   `gorm:"primaryKey;column:customer_id" json:"id"`
	Name       string `gorm:"not null;size:100" json:"name"`
	Email      string `gorm:"size:100;index" json:"email"`
	Phone      string `gorm:"size:20" json:"phone"`
	Address    string `gorm:"type:text" json:"address"`
	Country    string `gorm:"size:50" json:"country"`

	// Relationships
	Orders []Order `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
}

// TableName overrides the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// Product represents a catalogue product with its list price
type Product struct {
	ProductID uint    `gorm:"primaryKey;column:product_id" json:"id"`
	Name      string  `gorm:"not null;size:100" json:"name"`
	Category  string  `gorm:"not null;size:50;index" json:"category"`
	Price     float64 `gorm:"not null" json:"price"` // Undiscounted list price per unit

	// Relationships
	OrderDetails []OrderDetail `gorm:"foreignKey:ProductID" json:"order_details,omitempty"`
	Inventories  []Inventory   `gorm:"foreignKey:ProductID" json:"inventories,omitempty"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// Order represents a customer order header
type Order struct {
	OrderID      uint        `gorm:"primaryKey;column:order_id" json:"order_id"`
	CustomerID   uint        `gorm:"not null;index" json:"customer_id"`
	OrderDate    time.Time   `gorm:"not null;index" json:"order_date"`
	DeliveryDate *time.Time  `json:"delivery_date,omitempty"` // Null until the order is delivered
	Status       OrderStatus `gorm:"not null;size:20;default:'Pending'" json:"status"`

	// Relationships
	Customer Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Details  []OrderDetail `gorm:"foreignKey:OrderID" json:"details,omitempty"`
}

// TableName overrides the table name for Order
func (Order) TableName() string {
	return "orders"
}

// OrderDetail represents one product line within an order. TotalPrice is the
// actual charged revenue for the line and may reflect discounting below the
// catalogue list price.
type OrderDetail struct {
	OrderDetailID uint    `gorm:"primaryKey;column:order_detail_id" json:"order_detail_id"`
	OrderID       uint    `gorm:"not null;index" json:"order_id"`
	ProductID     uint    `gorm:"not null;index" json:"product_id"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	TotalPrice    float64 `gorm:"not null" json:"total_price"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides the table name for OrderDetail
func (OrderDetail) TableName() string {
	return "order_details"
}

// Inventory represents stock on hand for a product. A product may have
// several rows, one per warehouse; consumers sum them.
type Inventory struct {
	InventoryID   uint   `gorm:"primaryKey;column:inventory_id" json:"inventory_id"`
	ProductID     uint   `gorm:"not null;index" json:"product_id"`
	Warehouse     string `gorm:"size:50" json:"warehouse"`
	StockQuantity int    `gorm:"not null;default:0" json:"stock_quantity"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides the table name for Inventory
func (Inventory) TableName() string {
	return "inventories"
}

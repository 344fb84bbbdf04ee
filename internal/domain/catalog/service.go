// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/erp-analytics/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// OrderSummary represents an order joined to its customer name
type OrderSummary struct {
	OrderID      uint       `json:"order_id"`
	CustomerName string     `json:"customer_name"`
	OrderDate    time.Time  `json:"order_date"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Status       string     `json:"status"`
}

// OrderLine represents one product line of an order with the product name
type OrderLine struct {
	OrderDetailID uint    `json:"order_detail_id"`
	ProductName   string  `json:"product_name"`
	Quantity      int     `json:"quantity"`
	TotalPrice    float64 `json:"total_price"`
}

// OrderCreateRequest represents order creation data
type OrderCreateRequest struct {
	CustomerID uint                     `json:"customer_id" binding:"required"`
	OrderDate  *time.Time               `json:"order_date"`
	Status     OrderStatus              `json:"status"`
	Products   []OrderLineCreateRequest `json:"products" binding:"required,min=1,dive"`
}

// OrderLineCreateRequest represents one product line of an order creation request
type OrderLineCreateRequest struct {
	ProductID  uint    `json:"product_id" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
	TotalPrice float64 `json:"total_price" binding:"required,gte=0"`
}

// GetCustomers retrieves all customers
func (s *Service) GetCustomers() ([]Customer, error) {
	var customers []Customer
	if err := s.db.Order("customer_id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// GetCustomer retrieves a single customer by ID
func (s *Service) GetCustomer(customerID uint) (*Customer, error) {
	var customer Customer
	if err := s.db.First(&customer, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return &customer, nil
}

// GetProducts retrieves all products
func (s *Service) GetProducts() ([]Product, error) {
	var products []Product
	if err := s.db.Order("product_id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetOrders retrieves all orders joined to their customer names
func (s *Service) GetOrders() ([]OrderSummary, error) {
	var orders []OrderSummary
	err := s.db.Raw(`
		SELECT o.order_id, c.name AS customer_name, o.order_date, o.delivery_date, o.status
		FROM orders o
		JOIN customers c ON o.customer_id = c.customer_id
		ORDER BY o.order_id
	`).Scan(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrderLines retrieves the product lines of a specific order
func (s *Service) GetOrderLines(orderID uint) ([]OrderLine, error) {
	var lines []OrderLine
	err := s.db.Raw(`
		SELECT od.order_detail_id, p.name AS product_name, od.quantity, od.total_price
		FROM order_details od
		JOIN products p ON od.product_id = p.product_id
		WHERE od.order_id = ?
		ORDER BY od.order_detail_id
	`, orderID).Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get details for order %d: %w", orderID, err)
	}
	if len(lines) == 0 {
		return nil, ErrNotFound
	}
	return lines, nil
}

// CreateOrder creates an order header and its detail lines atomically
func (s *Service) CreateOrder(req *OrderCreateRequest) (*Order, error) {
	order := &Order{
		CustomerID: req.CustomerID,
		Status:     OrderStatusPending,
		OrderDate:  time.Now(),
	}
	if req.Status != "" {
		order.Status = req.Status
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Customer{}).Where("customer_id = ?", req.CustomerID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to verify customer: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("customer %d: %w", req.CustomerID, ErrNotFound)
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		details := make([]OrderDetail, 0, len(req.Products))
		for _, line := range req.Products {
			details = append(details, OrderDetail{
				OrderID:    order.OrderID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				TotalPrice: line.TotalPrice,
			})
		}
		if err := tx.Create(&details).Error; err != nil {
			return fmt.Errorf("failed to create order details: %w", err)
		}

		order.Details = details
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

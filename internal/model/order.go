package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money fields (totalAmount, price) go over the wire as JSON numbers, not
// quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderStatus is the lifecycle label stored on an order. The API stores and
// filters by status; it does not enforce transitions between values.
type OrderStatus string

const (
	StatusNew        OrderStatus = "NEW"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known status values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is the aggregate root: an order row plus its owned line items.
type Order struct {
	ID           int64           `db:"order_id"`
	CustomerName string          `db:"customer_name"`
	OrderDate    Date            `db:"order_date"`
	Status       OrderStatus     `db:"status"`
	TotalAmount  decimal.Decimal `db:"total_amount"`
	Items        []OrderItem     `db:"-"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// OrderItem is a line item owned by exactly one order. OrderID is the
// non-owning back-reference used for persistence; it never appears on the
// wire.
type OrderItem struct {
	ItemID      int64           `json:"itemId" db:"item_id"`
	OrderID     int64           `json:"-" db:"order_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
}

// OrderDTO is the wire representation of an order. OrderID is nil on create
// requests and set on every response. A nil Items slice on update means
// "leave stored items untouched"; a non-nil slice is a full replacement.
// Responses always carry the items array, empty when the order has none.
type OrderDTO struct {
	OrderID      *int64          `json:"orderId,omitempty"`
	CustomerName string          `json:"customerName" validate:"required"`
	OrderDate    Date            `json:"orderDate" validate:"required"`
	Status       OrderStatus     `json:"status" validate:"required,orderstatus"`
	TotalAmount  decimal.Decimal `json:"totalAmount" validate:"required,gt=0"`
	Items        []OrderItemDTO  `json:"items" validate:"omitempty,dive"`
}

// OrderItemDTO is the wire representation of a line item. ItemID is absent
// for new items and preserved on update so pre-existing items keep their
// identity through the replace.
type OrderItemDTO struct {
	ItemID      *int64          `json:"itemId,omitempty"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0"`
}

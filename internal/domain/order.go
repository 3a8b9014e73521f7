package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusAwaitingPay  OrderStatus = "awaiting_payment"
	OrderStatusPaid         OrderStatus = "paid"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// validTransitions is the order status machine. Shipped and cancelled are
// terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:      {OrderStatusAwaitingPay, OrderStatusCancelled},
	OrderStatusAwaitingPay:  {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:         {OrderStatusInProduction, OrderStatusCancelled},
	OrderStatusInProduction: {OrderStatusShipped, OrderStatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Customization is the user-entered personalization for one label template of
// a kit: field values, font and colors, and the character graphic box in
// label pixel space. Persisted as a JSON snapshot on the order item.
type Customization struct {
	Fields          map[string]string `json:"fields"`
	FontID          string            `json:"font_id"`
	TextColor       string            `json:"text_color"`
	BackgroundColor string            `json:"background_color"`
	CharacterURL    string            `json:"character_url,omitempty"`
	GraphicX        float64           `json:"graphic_x"`
	GraphicY        float64           `json:"graphic_y"`
	GraphicW        float64           `json:"graphic_w"`
	GraphicH        float64           `json:"graphic_h"`
}

type Order struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID     *uuid.UUID  `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	KitID          uuid.UUID   `gorm:"type:uuid;index" json:"kit_id"`
	Status         OrderStatus `gorm:"type:varchar(30);index" json:"status"`
	Items          []OrderItem `json:"items"`
	Email          string      `gorm:"size:140" json:"email"`
	Name           string      `gorm:"size:140" json:"name"`
	Phone          string      `gorm:"size:50" json:"phone"`
	Total          float64     `gorm:"type:decimal(12,2)" json:"total"`
	EtiquetaURLs   []string    `gorm:"type:jsonb;serializer:json" json:"etiquetas_urls"`
	MPPreferenceID string      `gorm:"size:140" json:"-"`
	MPStatus       string      `gorm:"size:60" json:"mp_status,omitempty"`
	Notified       bool        `gorm:"not null;default:false" json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem is one kit in the order. Customizations are keyed by label
// template id; there is one per template the kit includes.
type OrderItem struct {
	ID             uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        uuid.UUID                `gorm:"type:uuid;index" json:"order_id"`
	KitID          *uuid.UUID               `gorm:"type:uuid;index" json:"kit_id,omitempty"`
	Title          string                   `gorm:"size:180" json:"title"`
	Qty            int                      `gorm:"not null" json:"qty"`
	UnitPrice      float64                  `gorm:"type:decimal(12,2)" json:"unit_price"`
	Customizations map[string]Customization `gorm:"type:jsonb;serializer:json" json:"customizations"`
}

// LabelExport records one rendered label PNG stored in the etiquetas bucket.
type LabelExport struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	TemplateID string    `gorm:"size:80" json:"template_id"`
	Path       string    `gorm:"size:255" json:"path"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderFilter struct {
	Status   *OrderStatus
	MPStatus *string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type OrderRepo interface {
	// SaveWithExports persists the order, its items and its label export rows
	// in one transaction.
	SaveWithExports(ctx context.Context, o *Order, exports []LabelExport) error
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) ([]Order, int64, error)
	List(ctx context.Context, f OrderFilter) ([]Order, int64, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]Order, error)
}

type LabelExportRepo interface {
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]LabelExport, error)
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error
}

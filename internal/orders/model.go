package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderItem struct {
	ItemCode string
	ItemName string
	Qty      float64
	Rate     float64
	Amount   float64
	Image    *string
}

type SalesOrder struct {
	ID              string
	TransactionDate time.Time
	Customer        string
	CustomerGroup   string
	PatientID       string
	PatientName     string
	DeliveryDate    *time.Time
	Status          string
	ContactMobile   string
	GrandTotal      float64
	Invoiced        bool
	Items           []OrderItem
}

type Invoice struct {
	ID          string
	OrderID     string
	Customer    string
	PatientID   string
	PatientName string
	GrandTotal  float64
	Items       []OrderItem
	CreatedAt   time.Time
}

// Terminal sales order states that can no longer be invoiced.
const (
	StatusClosed    = "Closed"
	StatusCancelled = "Cancelled"
)

func NewInvoiceID() string {
	return "SINV-" + strings.ToUpper(uuid.NewString()[:8])
}

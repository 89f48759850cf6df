package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrMissingMobile = errors.New("mobile number is required")

	// ErrOrderNotInvoiceable covers closed and cancelled orders.
	ErrOrderNotInvoiceable = errors.New("sales order can no longer be invoiced")
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

func (s *Service) OrdersByMobile(ctx context.Context, mobile string) ([]SalesOrder, error) {
	if mobile == "" {
		return nil, ErrMissingMobile
	}

	orders, err := s.repo.ListByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("list orders by mobile: %w", err)
	}
	return orders, nil
}

// ConvertToInvoice turns an open sales order into an invoice. The invoice
// copies the order's customer, patient, items and total; the order is marked
// invoiced in the same transaction so a concurrent conversion loses cleanly.
func (s *Service) ConvertToInvoice(ctx context.Context, orderID string) (*Invoice, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	if order.Status == StatusClosed || order.Status == StatusCancelled {
		return nil, ErrOrderNotInvoiceable
	}
	if order.Invoiced {
		return nil, ErrAlreadyInvoiced
	}

	inv := &Invoice{
		ID:          NewInvoiceID(),
		OrderID:     order.ID,
		Customer:    order.Customer,
		PatientID:   order.PatientID,
		PatientName: order.PatientName,
		GrandTotal:  order.GrandTotal,
		Items:       order.Items,
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		if errors.Is(err, ErrAlreadyInvoiced) {
			return nil, err
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.log.Info().Str("order", order.ID).Str("invoice", inv.ID).Msg("sales order converted to invoice")

	return inv, nil
}

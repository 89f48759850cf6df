package orders

import (
	"context"
	"errors"
)

var (
	ErrOrderNotFound = errors.New("sales order not found")

	// ErrAlreadyInvoiced means the conditional invoiced flag flip matched no
	// row: the order was invoiced by another request first.
	ErrAlreadyInvoiced = errors.New("sales order is already invoiced")
)

type Repository interface {
	// ListByMobile returns orders for a mobile number, newest first, with
	// line items attached.
	ListByMobile(ctx context.Context, mobile string) ([]SalesOrder, error)

	GetByID(ctx context.Context, id string) (*SalesOrder, error)

	// CreateInvoice inserts the invoice and flips the order's invoiced flag
	// in one transaction. The flip is conditional on the flag being unset.
	CreateInvoice(ctx context.Context, inv *Invoice) error
}

package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	orders   map[string]*SalesOrder
	invoices []*Invoice
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{orders: make(map[string]*SalesOrder)}
}

func (f *fakeRepository) ListByMobile(_ context.Context, mobile string) ([]SalesOrder, error) {
	var out []SalesOrder
	for _, o := range f.orders {
		if o.ContactMobile == mobile {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*SalesOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeRepository) CreateInvoice(_ context.Context, inv *Invoice) error {
	o, ok := f.orders[inv.OrderID]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Invoiced {
		return ErrAlreadyInvoiced
	}
	o.Invoiced = true
	f.invoices = append(f.invoices, inv)
	return nil
}

func openOrder(id, mobile string) *SalesOrder {
	return &SalesOrder{
		ID:              id,
		TransactionDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Customer:        "CUST-1",
		PatientID:       "PID-1",
		PatientName:     "Amina",
		Status:          "To Deliver and Bill",
		ContactMobile:   mobile,
		GrandTotal:      45.50,
		Items: []OrderItem{
			{ItemCode: "AMOX-500", ItemName: "Amoxicillin 500mg", Qty: 2, Rate: 10.25, Amount: 20.50},
			{ItemCode: "PARA-500", ItemName: "Paracetamol 500mg", Qty: 5, Rate: 5.00, Amount: 25.00},
		},
	}
}

func TestOrdersByMobile(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["SO-1"] = openOrder("SO-1", "611234567")
	svc := NewService(repo, zerolog.Nop())

	_, err := svc.OrdersByMobile(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingMobile)

	orders, err := svc.OrdersByMobile(context.Background(), "611234567")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "SO-1", orders[0].ID)

	orders, err = svc.OrdersByMobile(context.Background(), "619999999")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestConvertToInvoice(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["SO-1"] = openOrder("SO-1", "611234567")
	svc := NewService(repo, zerolog.Nop())

	inv, err := svc.ConvertToInvoice(context.Background(), "SO-1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.ID, "SINV-"))
	assert.Equal(t, "SO-1", inv.OrderID)
	assert.Equal(t, 45.50, inv.GrandTotal)
	assert.Len(t, inv.Items, 2)

	require.Len(t, repo.invoices, 1)
	assert.True(t, repo.orders["SO-1"].Invoiced)
}

func TestConvertToInvoice_SecondConversionRejected(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["SO-1"] = openOrder("SO-1", "611234567")
	svc := NewService(repo, zerolog.Nop())

	_, err := svc.ConvertToInvoice(context.Background(), "SO-1")
	require.NoError(t, err)

	_, err = svc.ConvertToInvoice(context.Background(), "SO-1")
	require.ErrorIs(t, err, ErrAlreadyInvoiced)
	assert.Len(t, repo.invoices, 1)
}

func TestConvertToInvoice_TerminalStates(t *testing.T) {
	repo := newFakeRepository()
	closed := openOrder("SO-CLOSED", "611234567")
	closed.Status = StatusClosed
	cancelled := openOrder("SO-CANCELLED", "611234567")
	cancelled.Status = StatusCancelled
	repo.orders[closed.ID] = closed
	repo.orders[cancelled.ID] = cancelled
	svc := NewService(repo, zerolog.Nop())

	_, err := svc.ConvertToInvoice(context.Background(), "SO-CLOSED")
	require.ErrorIs(t, err, ErrOrderNotInvoiceable)

	_, err = svc.ConvertToInvoice(context.Background(), "SO-CANCELLED")
	require.ErrorIs(t, err, ErrOrderNotInvoiceable)

	assert.Empty(t, repo.invoices)
}

func TestConvertToInvoice_UnknownOrder(t *testing.T) {
	svc := NewService(newFakeRepository(), zerolog.Nop())

	_, err := svc.ConvertToInvoice(context.Background(), "SO-NOPE")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

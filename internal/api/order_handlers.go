package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hodanhealth/mobile-api/internal/orders"
)

func listOrdersHandler(svc *orders.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mobile := r.URL.Query().Get("mobile")

		result, err := svc.OrdersByMobile(r.Context(), mobile)
		if err != nil {
			if errors.Is(err, orders.ErrMissingMobile) {
				writeError(w, http.StatusBadRequest, "Mobile number is required")
				return
			}
			log.Error().Err(err).Msg("list orders failed")
			writeInternal(w, "Failed to fetch orders")
			return
		}

		if len(result) == 0 {
			// An empty order history is a normal state for new patients.
			writeSuccess(w, http.StatusOK, "No orders found", []OrderResponse{})
			return
		}

		resp := make([]OrderResponse, 0, len(result))
		for _, o := range result {
			resp = append(resp, orderToResponse(o))
		}

		writeSuccess(w, http.StatusOK, "Orders fetched successfully", resp)
	}
}

func convertOrderHandler(svc *orders.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		inv, err := svc.ConvertToInvoice(r.Context(), orderID)
		if err != nil {
			switch {
			case errors.Is(err, orders.ErrOrderNotFound):
				writeError(w, http.StatusNotFound, "Sales order not found: "+orderID)
			case errors.Is(err, orders.ErrOrderNotInvoiceable),
				errors.Is(err, orders.ErrAlreadyInvoiced):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				log.Error().Err(err).Msg("order to invoice conversion failed")
				writeInternal(w, "An error occurred while converting the order.")
			}
			return
		}

		writeSuccess(w, http.StatusCreated, "Invoice created successfully", InvoiceResponse{
			InvoiceID:  inv.ID,
			OrderID:    inv.OrderID,
			GrandTotal: inv.GrandTotal,
		})
	}
}

func orderToResponse(o orders.SalesOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ItemCode: it.ItemCode,
			ItemName: it.ItemName,
			Qty:      it.Qty,
			Rate:     it.Rate,
			Amount:   it.Amount,
			Image:    it.Image,
		})
	}

	var delivery *string
	if o.DeliveryDate != nil {
		d := o.DeliveryDate.Format("2006-01-02")
		delivery = &d
	}

	return OrderResponse{
		Name:            o.ID,
		TransactionDate: o.TransactionDate.Format("2006-01-02"),
		Customer:        o.Customer,
		CustomerGroup:   o.CustomerGroup,
		Patient:         o.PatientID,
		PatientName:     o.PatientName,
		DeliveryDate:    delivery,
		Status:          o.Status,
		ContactMobile:   o.ContactMobile,
		GrandTotal:      o.GrandTotal,
		Items:           items,
	}
}

package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const orderColumns = `id, transaction_date, customer, customer_group, patient_id, patient_name, delivery_date, status, contact_mobile, grand_total, invoiced`

func scanOrder(row pgx.Row) (*SalesOrder, error) {
	var o SalesOrder

	err := row.Scan(
		&o.ID,
		&o.TransactionDate,
		&o.Customer,
		&o.CustomerGroup,
		&o.PatientID,
		&o.PatientName,
		&o.DeliveryDate,
		&o.Status,
		&o.ContactMobile,
		&o.GrandTotal,
		&o.Invoiced,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return &o, nil
}

func (r *PgRepository) itemsForOrder(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT item_code, item_name, qty, rate, amount, image
		FROM sales_order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ItemCode, &it.ItemName, &it.Qty, &it.Rate, &it.Amount, &it.Image); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PgRepository) ListByMobile(ctx context.Context, mobile string) ([]SalesOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM sales_orders
		WHERE contact_mobile = $1
		ORDER BY created_at DESC
	`, mobile)
	if err != nil {
		return nil, err
	}

	var result []SalesOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range result {
		items, err := r.itemsForOrder(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id string) (*SalesOrder, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM sales_orders
		WHERE id = $1
	`, id)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.itemsForOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (r *PgRepository) CreateInvoice(ctx context.Context, inv *Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin invoice tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE sales_orders
		SET invoiced = true,
		    updated_at = now()
		WHERE id = $1
		  AND NOT invoiced
	`, inv.OrderID)
	if err != nil {
		return fmt.Errorf("mark order invoiced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyInvoiced
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (id, order_id, customer, patient_id, patient_name, grand_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, inv.ID, inv.OrderID, inv.Customer, inv.PatientID, inv.PatientName, inv.GrandTotal)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	for _, it := range inv.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, item_code, item_name, qty, rate, amount)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, inv.ID, it.ItemCode, it.ItemName, it.Qty, it.Rate, it.Amount)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

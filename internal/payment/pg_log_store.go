package payment

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgLogStore struct {
	pool *pgxpool.Pool
}

func NewPgLogStore(pool *pgxpool.Pool) *PgLogStore {
	return &PgLogStore{pool: pool}
}

func (s *PgLogStore) Insert(ctx context.Context, entry LogEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO payment_logs (patient_id, appointment_id, request_type, request_payload, response_payload, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		entry.PatientID,
		entry.AppointmentID,
		entry.RequestType,
		entry.RequestPayload,
		entry.ResponsePayload,
		entry.TransactionID,
		entry.CreatedAt,
	)
	return err
}

package labs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) PatientsByMobile(ctx context.Context, mobile string) ([]PatientRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name
		FROM patients
		WHERE mobile_no = $1
	`, mobile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PatientRef
	for rows.Next() {
		var p PatientRef
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListByPatients(ctx context.Context, patientIDs []string) ([]LabResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, patient_name, practitioner_id, status, updated_at
		FROM lab_results
		WHERE patient_id = ANY($1)
		ORDER BY updated_at DESC
	`, patientIDs)
	if err != nil {
		return nil, err
	}

	var result []LabResult
	for rows.Next() {
		var lr LabResult
		if err := rows.Scan(&lr.ID, &lr.PatientID, &lr.PatientName, &lr.PractitionerID, &lr.Status, &lr.ModifiedAt); err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, lr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range result {
		items, err := r.itemsForResult(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}

	return result, nil
}

func (r *PgRepository) itemsForResult(ctx context.Context, resultID string) ([]TestItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT test, event, result_value, normal_range, uom, comment, flag
		FROM lab_test_items
		WHERE result_id = $1
	`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TestItem
	for rows.Next() {
		var it TestItem
		if err := rows.Scan(&it.Test, &it.Event, &it.ResultValue, &it.NormalRange, &it.UOM, &it.Comment, &it.Flag); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

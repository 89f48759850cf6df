package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanFeeValidity(row pgx.Row) (*FeeValidity, error) {
	var fv FeeValidity

	err := row.Scan(
		&fv.ID,
		&fv.PatientID,
		&fv.PractitionerID,
		&fv.Status,
		&fv.StartDate,
		&fv.ValidTill,
		&fv.Visited,
		&fv.MaxVisits,
		&fv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &fv, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.PatientName,
		&a.PractitionerID,
		&a.MobileNo,
		&a.Date,
		&a.PayableAmount,
		&a.Type,
		&a.FollowUp,
		&a.ModeOfPayment,
		&a.CostCenter,
		&a.Source,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// Interface methods

func (r *PgRepository) GetPatientByID(ctx context.Context, id string) (*Patient, error) {
	var p Patient

	err := r.pool.QueryRow(ctx, `
		SELECT id, first_name, mobile_no, gender, age, age_type, district, customer_group, image, created_at
		FROM patients
		WHERE id = $1
	`, id).Scan(
		&p.ID,
		&p.FirstName,
		&p.MobileNo,
		&p.Gender,
		&p.Age,
		&p.AgeType,
		&p.District,
		&p.CustomerGroup,
		&p.Image,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) GetPractitionerByID(ctx context.Context, id string) (*Practitioner, error) {
	var p Practitioner

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, department, consulting_charge, active, hidden, created_at
		FROM practitioners
		WHERE id = $1
	`, id).Scan(
		&p.ID,
		&p.Name,
		&p.Department,
		&p.ConsultingCharge,
		&p.Active,
		&p.Hidden,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPractitionerNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) HasOpenAppointment(ctx context.Context, patientID, practitionerID string, date time.Time) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE patient_id = $1
			  AND practitioner_id = $2
			  AND date = $3
			  AND status <> 'Cancelled'
		)
	`, patientID, practitionerID, date).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *PgRepository) LatestPendingFeeValidity(ctx context.Context, patientID, practitionerID string) (*FeeValidity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, practitioner_id, status, start_date, valid_till, visited, max_visits, created_at
		FROM fee_validities
		WHERE patient_id = $1
		  AND practitioner_id = $2
		  AND status = 'Pending'
		ORDER BY created_at DESC
		LIMIT 1
	`, patientID, practitionerID)

	fv, err := scanFeeValidity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fv, nil
}

func (r *PgRepository) CreateAppointment(ctx context.Context, appt *Appointment, consume *FeeValidityConsumption) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if consume != nil {
		status := FeeValidityPending
		if consume.Complete {
			status = FeeValidityCompleted
		}

		// Conditional on the visited counter we read: a concurrent booking
		// that consumed the entitlement first makes this match zero rows.
		tag, err := tx.Exec(ctx, `
			UPDATE fee_validities
			SET visited = $2,
			    status = $3,
			    updated_at = now()
			WHERE id = $1
			  AND status = 'Pending'
			  AND visited = $4
		`, consume.FeeValidityID, consume.NewVisited, status, consume.ExpectedVisited)
		if err != nil {
			return fmt.Errorf("consume fee validity: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrFeeValidityConflict
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO appointments (
			id, patient_id, patient_name, practitioner_id, mobile_no, date,
			payable_amount, type, follow_up, mode_of_payment, cost_center,
			source, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
	`,
		appt.ID,
		appt.PatientID,
		appt.PatientName,
		appt.PractitionerID,
		appt.MobileNo,
		appt.Date,
		appt.PayableAmount,
		appt.Type,
		appt.FollowUp,
		appt.ModeOfPayment,
		appt.CostCenter,
		appt.Source,
		appt.Status,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) ListAppointmentsByMobile(ctx context.Context, mobile string) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, patient_name, practitioner_id, mobile_no, date,
		       payable_amount, type, follow_up, mode_of_payment, cost_center,
		       source, status, created_at
		FROM appointments
		WHERE mobile_no = $1
		  AND status <> 'Cancelled'
		ORDER BY created_at DESC
	`, mobile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CompleteExpiredFeeValidities(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE fee_validities
		SET status = 'Completed',
		    updated_at = now()
		WHERE status = 'Pending'
		  AND valid_till < $1
	`, asOf)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

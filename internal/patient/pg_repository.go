package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.Gender,
		&p.Age,
		&p.AgeType,
		&p.MobileNo,
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

const patientColumns = `id, first_name, gender, age, age_type, mobile_no, district, customer_group, image, created_at`

func (r *PgRepository) Create(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (id, first_name, gender, age, age_type, mobile_no, district, customer_group, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	`, p.ID, p.FirstName, p.Gender, p.Age, p.AgeType, p.MobileNo, p.District, p.CustomerGroup)
	return err
}

func (r *PgRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) FirstByMobile(ctx context.Context, mobile string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE mobile_no = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, mobile)
	return scanPatient(row)
}

func (r *PgRepository) ListByMobile(ctx context.Context, mobile string) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE mobile_no = $1
		ORDER BY created_at ASC
	`, mobile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) LatestFeeValidity(ctx context.Context, patientID string) (*FollowUp, error) {
	var fu FollowUp

	err := r.pool.QueryRow(ctx, `
		SELECT id, start_date, valid_till, status
		FROM fee_validities
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, patientID).Scan(&fu.ID, &fu.StartDate, &fu.ValidTill, &fu.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &fu, nil
}

func (r *PgRepository) ListDistricts(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name FROM districts ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		result = append(result, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

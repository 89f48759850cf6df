package directory

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const doctorColumns = `id, name, department, consulting_charge, image, services, experience, available_time, created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Department,
		&d.ConsultingCharge,
		&d.Image,
		&d.Services,
		&d.Experience,
		&d.AvailableTime,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *PgRepository) collectDoctors(rows pgx.Rows) ([]Doctor, error) {
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM practitioners
		WHERE active AND NOT hidden
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	return r.collectDoctors(rows)
}

func (r *PgRepository) ListDoctorsByDepartment(ctx context.Context, department string) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM practitioners
		WHERE active AND NOT hidden AND department = $1
		ORDER BY name ASC
	`, department)
	if err != nil {
		return nil, err
	}
	return r.collectDoctors(rows)
}

func (r *PgRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, image
		FROM departments
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Image); err != nil {
			return nil, err
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListBanners(ctx context.Context) ([]Banner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, image, type
		FROM banners
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Banner
	for rows.Next() {
		var b Banner
		if err := rows.Scan(&b.ID, &b.Image, &b.Type); err != nil {
			return nil, err
		}
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

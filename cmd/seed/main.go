package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hodanhealth/mobile-api/internal/booking"
	"github.com/hodanhealth/mobile-api/internal/db"
	"github.com/hodanhealth/mobile-api/internal/patient"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	bg := context.Background()

	if err := seedDistricts(bg, pool); err != nil {
		log.Fatalf("seed districts: %v", err)
	}
	departments, err := seedDepartments(bg, pool)
	if err != nil {
		log.Fatalf("seed departments: %v", err)
	}
	practitioners, err := seedPractitioners(bg, pool, departments, 25)
	if err != nil {
		log.Fatalf("seed practitioners: %v", err)
	}
	patients, err := seedPatients(bg, pool, 500)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedFeeValidities(bg, pool, patients, practitioners); err != nil {
		log.Fatalf("seed fee validities: %v", err)
	}
	if err := seedBanners(bg, pool, 5); err != nil {
		log.Fatalf("seed banners: %v", err)
	}

	log.Println("seed complete")
}

var districts = []string{
	"Hodan", "Hawle Wadag", "Wadajir", "Yaqshid", "Dharkenley",
	"Shangani", "Waberi", "Karan", "Daynile", "Abdiaziz",
}

func seedDistricts(ctx context.Context, pool *pgxpool.Pool) error {
	log.Printf("seeding %d districts", len(districts))

	for _, name := range districts {
		_, err := pool.Exec(ctx, `
			INSERT INTO districts (name, created_at)
			VALUES ($1, now())
			ON CONFLICT (name) DO NOTHING
		`, name)
		if err != nil {
			return err
		}
	}

	return nil
}

func seedDepartments(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	names := []string{
		"Cardiology", "Pediatrics", "Gynecology", "Internal Medicine",
		"Dermatology", "Orthopedics", "ENT", "General Surgery",
	}
	log.Printf("seeding %d departments", len(names))

	for _, name := range names {
		id := "DEPT-" + strings.ToUpper(strings.ReplaceAll(name, " ", "-"))
		_, err := pool.Exec(ctx, `
			INSERT INTO departments (id, name, image, created_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (id) DO NOTHING
		`, id, name, fmt.Sprintf("/departments/%s.png", strings.ToLower(name)))
		if err != nil {
			return nil, err
		}
	}

	// Practitioners reference departments by name.
	return names, nil
}

func seedPractitioners(ctx context.Context, pool *pgxpool.Pool, departments []string, count int) ([]string, error) {
	log.Printf("seeding %d practitioners", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id := "DR-" + strings.ToUpper(uuid.NewString()[:8])
		name := "Dr. " + gofakeit.Name()
		dept := departments[gofakeit.Number(0, len(departments)-1)]
		charge := float64(gofakeit.Number(5, 30))
		hidden := gofakeit.Number(0, 9) == 0

		_, err := tx.Exec(ctx, `
			INSERT INTO practitioners (id, name, department, consulting_charge, image, services, experience, available_time, active, hidden, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, $9, now(), now())
		`, id, name, dept, charge,
			fmt.Sprintf("/practitioners/%s.jpg", strings.ToLower(id)),
			gofakeit.JobTitle(),
			fmt.Sprintf("%d years", gofakeit.Number(2, 25)),
			"Sat-Thu 08:00-16:00",
			hidden)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]string, error) {
	log.Printf("seeding %d patients", count)

	const batchSize = 100

	var ids []string
	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			id := patient.NewPatientID()
			group := patient.DefaultCustomerGroup
			if gofakeit.Number(0, 9) < 2 {
				group = booking.MembershipGroup
			}
			gender := "Male"
			if gofakeit.Bool() {
				gender = "Female"
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, first_name, gender, age, age_type, mobile_no, district, customer_group, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			`, id, gofakeit.FirstName(), gender,
				gofakeit.Number(1, 80), "Years",
				fmt.Sprintf("61%07d", gofakeit.Number(0, 9999999)),
				districts[gofakeit.Number(0, len(districts)-1)],
				group)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}
			ids = append(ids, id)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
	}

	return ids, nil
}

func seedFeeValidities(ctx context.Context, pool *pgxpool.Pool, patients, practitioners []string) error {
	log.Println("seeding fee validities")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	today := time.Now().UTC().Truncate(24 * time.Hour)

	// Roughly a third of patients get an open follow-up window.
	for _, pid := range patients {
		if gofakeit.Number(0, 2) != 0 {
			continue
		}

		practitioner := practitioners[gofakeit.Number(0, len(practitioners)-1)]
		start := today.AddDate(0, 0, -gofakeit.Number(0, 10))
		validTill := start.AddDate(0, 0, 30)

		_, err := tx.Exec(ctx, `
			INSERT INTO fee_validities (id, patient_id, practitioner_id, status, start_date, valid_till, visited, max_visits, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		`, "FV-"+strings.ToUpper(uuid.NewString()[:8]), pid, practitioner,
			booking.FeeValidityPending, start, validTill,
			gofakeit.Number(0, 1), 2)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedBanners(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d banners", count)

	for i := 0; i < count; i++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO banners (id, image, type, created_at)
			VALUES ($1, $2, $3, now())
		`, "BAN-"+strings.ToUpper(uuid.NewString()[:8]),
			fmt.Sprintf("/banners/banner-%d.png", i+1),
			"promo")
		if err != nil {
			return err
		}
	}

	return nil
}

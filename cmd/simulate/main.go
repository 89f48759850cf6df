package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hodanhealth/mobile-api/internal/db"
)

// simulate fires concurrent booking requests at a running api-server and
// reports how contention resolved. With the per-pair lock in place the
// expected outcome is exactly one success per (patient, practitioner, date)
// and clean 400/409 rejections for the rest.

type simConfig struct {
	APIBaseURL  string
	PostgresDSN string
	Workers     int
	Requests    int
	PairLimit   int
}

type metrics struct {
	total     int64
	success   int64
	duplicate int64
	conflict  int64
	errors    int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *metrics) record(latency time.Duration, status int) {
	atomic.AddInt64(&m.total, 1)
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&m.success, 1)
	case status == http.StatusBadRequest:
		atomic.AddInt64(&m.duplicate, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.conflict, 1)
	default:
		atomic.AddInt64(&m.errors, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *metrics) percentile(p int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := simConfig{
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8080"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		Workers:     getInt("SIM_WORKERS", 20),
		Requests:    getInt("SIM_REQUESTS", 500),
		PairLimit:   getInt("SIM_PAIR_LIMIT", 50),
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	log.Printf("simulate: workers=%d requests=%d against %s", cfg.Workers, cfg.Requests, cfg.APIBaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	patients, practitioners, err := loadPairs(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("load ids: %v", err)
	}
	log.Printf("loaded %d patients, %d practitioners", len(patients), len(practitioners))

	client := &http.Client{Timeout: 10 * time.Second}
	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var m metrics
	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				// A narrow pair pool forces contention on the booking lock.
				patientID := patients[rand.Intn(len(patients))]
				practitionerID := practitioners[rand.Intn(len(practitioners))]
				bookOnce(client, cfg.APIBaseURL, &m, patientID, practitionerID, date)
			}
		}()
	}

	for i := 0; i < cfg.Requests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf("\n--- booking storm results ---\n")
	fmt.Printf("requests:   %d in %s (%.1f req/s)\n", m.total, elapsed.Round(time.Millisecond), float64(m.total)/elapsed.Seconds())
	fmt.Printf("created:    %d\n", m.success)
	fmt.Printf("duplicates: %d\n", m.duplicate)
	fmt.Printf("conflicts:  %d\n", m.conflict)
	fmt.Printf("errors:     %d\n", m.errors)
	fmt.Printf("latency:    p50=%s p95=%s\n", m.percentile(50).Round(time.Millisecond), m.percentile(95).Round(time.Millisecond))
}

func bookOnce(client *http.Client, baseURL string, m *metrics, patientID, practitionerID, date string) {
	payload, _ := json.Marshal(map[string]string{
		"patient_id":       patientID,
		"practitioner_id":  practitionerID,
		"appointment_date": date,
	})

	start := time.Now()
	resp, err := client.Post(baseURL+"/appointments", "application/json", bytes.NewReader(payload))
	latency := time.Since(start)
	if err != nil {
		m.record(latency, 0)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	m.record(latency, resp.StatusCode)
}

func loadPairs(ctx context.Context, cfg simConfig) (patients, practitioners []string, err error) {
	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, `SELECT id FROM patients ORDER BY created_at LIMIT $1`, cfg.PairLimit)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, nil, err
		}
		patients = append(patients, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	prows, err := pool.Query(ctx, `SELECT id FROM practitioners WHERE active LIMIT $1`, cfg.PairLimit/5+1)
	if err != nil {
		return nil, nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var id string
		if err := prows.Scan(&id); err != nil {
			return nil, nil, err
		}
		practitioners = append(practitioners, id)
	}
	if err := prows.Err(); err != nil {
		return nil, nil, err
	}

	if len(patients) == 0 || len(practitioners) == 0 {
		return nil, nil, fmt.Errorf("no seeded patients or practitioners found, run cmd/seed first")
	}

	return patients, practitioners, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hodanhealth/mobile-api/internal/booking"
)

// stubRepo serves exactly one patient/practitioner pair for handler tests.
type stubRepo struct {
	charge       float64
	appointments []booking.Appointment
}

func (s *stubRepo) GetPatientByID(_ context.Context, id string) (*booking.Patient, error) {
	if id != "PID-1" {
		return nil, booking.ErrPatientNotFound
	}
	return &booking.Patient{ID: "PID-1", FirstName: "Amina", MobileNo: "611234567", CustomerGroup: "All Customer Groups"}, nil
}

func (s *stubRepo) GetPractitionerByID(_ context.Context, id string) (*booking.Practitioner, error) {
	if id != "DR-1" {
		return nil, booking.ErrPractitionerNotFound
	}
	charge := s.charge
	return &booking.Practitioner{ID: "DR-1", Name: "Dr. Hassan", ConsultingCharge: &charge, Active: true}, nil
}

func (s *stubRepo) HasOpenAppointment(_ context.Context, patientID, practitionerID string, date time.Time) (bool, error) {
	for _, a := range s.appointments {
		if a.PatientID == patientID && a.PractitionerID == practitionerID && a.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) LatestPendingFeeValidity(_ context.Context, _, _ string) (*booking.FeeValidity, error) {
	return nil, nil
}

func (s *stubRepo) CreateAppointment(_ context.Context, appt *booking.Appointment, _ *booking.FeeValidityConsumption) error {
	s.appointments = append(s.appointments, *appt)
	return nil
}

func (s *stubRepo) ListAppointmentsByMobile(_ context.Context, mobile string) ([]booking.Appointment, error) {
	var out []booking.Appointment
	for _, a := range s.appointments {
		if a.MobileNo == mobile {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubRepo) CompleteExpiredFeeValidities(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type noopLocker struct{}

func (noopLocker) WithBookingLock(ctx context.Context, _, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newBookingService(repo *stubRepo) *booking.Service {
	return booking.NewService(repo, noopLocker{}, zerolog.Nop())
}

func postAppointment(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCreateAppointmentHandler(t *testing.T) {
	repo := &stubRepo{charge: 20}
	handler := createAppointmentHandler(newBookingService(repo), zerolog.Nop())

	rec := postAppointment(t, handler, `{"patient_id":"PID-1","practitioner_id":"DR-1","appointment_date":"2026-03-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var env struct {
		Status string          `json:"status"`
		Data   BookingResponse `json:"Data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	assert.True(t, strings.HasPrefix(env.Data.AppointmentID, "QUE-"))
	assert.Equal(t, "New Patient", env.Data.AppointmentType)
	assert.Equal(t, 20.0, env.Data.AmountCharged)
}

func TestCreateAppointmentHandler_ErrorMapping(t *testing.T) {
	repo := &stubRepo{charge: 20}
	svc := newBookingService(repo)
	handler := createAppointmentHandler(svc, zerolog.Nop())

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing fields", `{"patient_id":"PID-1"}`, http.StatusBadRequest},
		{"bad date", `{"patient_id":"PID-1","practitioner_id":"DR-1","appointment_date":"10/03/2026"}`, http.StatusBadRequest},
		{"unknown patient", `{"patient_id":"PID-X","practitioner_id":"DR-1","appointment_date":"2026-03-10"}`, http.StatusNotFound},
		{"unknown practitioner", `{"patient_id":"PID-1","practitioner_id":"DR-X","appointment_date":"2026-03-10"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postAppointment(t, handler, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("duplicate booking", func(t *testing.T) {
		body := `{"patient_id":"PID-1","practitioner_id":"DR-1","appointment_date":"2026-03-11"}`
		rec := postAppointment(t, handler, body)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = postAppointment(t, handler, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestValidateAppointmentHandler_NoRecordsCreated(t *testing.T) {
	repo := &stubRepo{charge: 20}
	handler := validateAppointmentHandler(newBookingService(repo), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/appointments/validate",
		strings.NewReader(`{"patient_id":"PID-1","practitioner_id":"DR-1","appointment_date":"2026-03-10"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data QuoteResponse `json:"Data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 20.0, env.Data.PayableAmount)
	assert.False(t, env.Data.FollowUp)

	assert.Empty(t, repo.appointments)
}

func TestListAppointmentsHandler_EmptyIsNotFound(t *testing.T) {
	repo := &stubRepo{charge: 20}
	handler := listAppointmentsHandler(newBookingService(repo), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/appointments?mobile=611234567", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

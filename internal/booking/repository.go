package booking

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPractitionerNotFound = errors.New("practitioner not found")

	// ErrFeeValidityConflict means the conditional visited-counter update
	// matched no row: a concurrent booking consumed the entitlement first.
	ErrFeeValidityConflict = errors.New("fee validity was modified concurrently")
)

// FeeValidityConsumption records one follow-up visit against an entitlement.
// The update is conditional on ExpectedVisited so concurrent bookings cannot
// both consume the same visit.
type FeeValidityConsumption struct {
	FeeValidityID   string
	ExpectedVisited int
	NewVisited      int
	Complete        bool
}

// Repository contains all record store interactions needed by the service.
type Repository interface {
	GetPatientByID(ctx context.Context, id string) (*Patient, error)
	GetPractitionerByID(ctx context.Context, id string) (*Practitioner, error)

	// For the duplicate booking check: any non-cancelled appointment for the
	// same patient, practitioner and date.
	HasOpenAppointment(ctx context.Context, patientID, practitionerID string, date time.Time) (bool, error)

	// Most recently created Pending fee validity for the pair, or nil.
	LatestPendingFeeValidity(ctx context.Context, patientID, practitionerID string) (*FeeValidity, error)

	// CreateAppointment inserts the appointment and, when consume is not nil,
	// applies the fee validity consumption in the same transaction.
	CreateAppointment(ctx context.Context, appt *Appointment, consume *FeeValidityConsumption) error

	ListAppointmentsByMobile(ctx context.Context, mobile string) ([]Appointment, error)

	// Sweeper support
	CompleteExpiredFeeValidities(ctx context.Context, asOf time.Time) (int64, error)
}

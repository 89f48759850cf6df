package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	redisclient "github.com/hodanhealth/mobile-api/internal/redis"
)

var (
	ErrMissingField     = errors.New("patient, practitioner and appointment date are required")
	ErrMalformedDate    = errors.New("invalid appointment date format, use YYYY-MM-DD")
	ErrDuplicateBooking = errors.New("an appointment already exists for this patient, practitioner and date")

	// ErrBookingConflict is returned when a concurrent booking for the same
	// (patient, practitioner) pair wins both attempts.
	ErrBookingConflict = errors.New("booking conflicted with a concurrent request, please retry")
)

const dateLayout = "2006-01-02"

type Service struct {
	repo   Repository
	locker redisclient.Locker
	log    zerolog.Logger
}

func NewService(repo Repository, locker redisclient.Locker, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		log:    log,
	}
}

// BookAppointment runs the full booking flow: validation, fee validity
// evaluation, pricing, entitlement consumption and appointment creation.
// The whole flow runs under a per (patient, practitioner) lock; if the
// conditional fee validity update still loses a race the flow is retried
// once from the top before surfacing a conflict.
func (s *Service) BookAppointment(ctx context.Context, patientID, practitionerID, dateStr string) (*BookingResult, error) {
	date, err := parseBookingDate(patientID, practitionerID, dateStr)
	if err != nil {
		return nil, err
	}

	var result *BookingResult

	err = s.locker.WithBookingLock(ctx, patientID, practitionerID, func(lockCtx context.Context) error {
		for attempt := 0; attempt < 2; attempt++ {
			result, err = s.bookOnce(lockCtx, patientID, practitionerID, date)
			if errors.Is(err, ErrFeeValidityConflict) {
				s.log.Warn().
					Str("patient", patientID).
					Str("practitioner", practitionerID).
					Int("attempt", attempt+1).
					Msg("fee validity consumed concurrently, retrying booking")
				continue
			}
			return err
		}
		return ErrBookingConflict
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrBookingConflict
		}
		return nil, err
	}

	return result, nil
}

func (s *Service) bookOnce(ctx context.Context, patientID, practitionerID string, date time.Time) (*BookingResult, error) {
	patient, practitioner, err := s.loadParties(ctx, patientID, practitionerID)
	if err != nil {
		return nil, err
	}

	dup, err := s.repo.HasOpenAppointment(ctx, patientID, practitionerID, date)
	if err != nil {
		return nil, fmt.Errorf("check duplicate booking: %w", err)
	}
	if dup {
		return nil, ErrDuplicateBooking
	}

	fv, err := s.repo.LatestPendingFeeValidity(ctx, patientID, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("load fee validity: %w", err)
	}

	quote, err := ResolvePrice(practitioner.ConsultingCharge, patient.CustomerGroup, EligibleFollowUp(fv, date))
	if err != nil {
		return nil, err
	}

	appt := &Appointment{
		ID:             NewAppointmentID(),
		PatientID:      patient.ID,
		PatientName:    patient.FirstName,
		PractitionerID: practitioner.ID,
		MobileNo:       patient.MobileNo,
		Date:           date,
		PayableAmount:  quote.PayableAmount,
		Type:           quote.Type,
		FollowUp:       quote.FollowUp,
		ModeOfPayment:  ModeOfPayment,
		CostCenter:     CostCenter,
		Source:         SourceMobile,
		Status:         StatusOpen,
	}

	var consume *FeeValidityConsumption
	if quote.FollowUp {
		consume = &FeeValidityConsumption{
			FeeValidityID:   fv.ID,
			ExpectedVisited: fv.Visited,
			NewVisited:      fv.Visited + 1,
			Complete:        fv.Visited+1 >= fv.MaxVisits,
		}
	}

	if err := s.repo.CreateAppointment(ctx, appt, consume); err != nil {
		if errors.Is(err, ErrFeeValidityConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info().
		Str("appointment", appt.ID).
		Str("patient", patient.ID).
		Str("practitioner", practitioner.ID).
		Str("type", string(quote.Type)).
		Float64("payable", quote.PayableAmount).
		Msg("appointment booked")

	return &BookingResult{
		AppointmentID:   appt.ID,
		AppointmentType: quote.Type,
		AmountCharged:   quote.PayableAmount,
		OriginalAmount:  quote.OriginalAmount,
	}, nil
}

// ValidateBooking is the dry run used by the mobile client before payment:
// it performs every booking check and prices the visit, but never consumes a
// fee validity and never creates an appointment.
func (s *Service) ValidateBooking(ctx context.Context, patientID, practitionerID, dateStr string) (*Quote, error) {
	date, err := parseBookingDate(patientID, practitionerID, dateStr)
	if err != nil {
		return nil, err
	}

	patient, practitioner, err := s.loadParties(ctx, patientID, practitionerID)
	if err != nil {
		return nil, err
	}

	dup, err := s.repo.HasOpenAppointment(ctx, patientID, practitionerID, date)
	if err != nil {
		return nil, fmt.Errorf("check duplicate booking: %w", err)
	}
	if dup {
		return nil, ErrDuplicateBooking
	}

	fv, err := s.repo.LatestPendingFeeValidity(ctx, patientID, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("load fee validity: %w", err)
	}

	quote, err := ResolvePrice(practitioner.ConsultingCharge, patient.CustomerGroup, EligibleFollowUp(fv, date))
	if err != nil {
		return nil, err
	}

	return &quote, nil
}

func (s *Service) ListAppointmentsByMobile(ctx context.Context, mobile string) ([]Appointment, error) {
	if mobile == "" {
		return nil, ErrMissingField
	}

	appts, err := s.repo.ListAppointmentsByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("list appointments by mobile: %w", err)
	}
	return appts, nil
}

// CompleteExpiredFeeValidities closes Pending entitlements whose window has
// passed. They are already ineligible by date, this just keeps the Pending
// set small. Called by the expiry worker.
func (s *Service) CompleteExpiredFeeValidities(ctx context.Context) (int64, error) {
	n, err := s.repo.CompleteExpiredFeeValidities(ctx, time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		return 0, fmt.Errorf("complete expired fee validities: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("completed expired fee validities")
	}
	return n, nil
}

func (s *Service) loadParties(ctx context.Context, patientID, practitionerID string) (*Patient, *Practitioner, error) {
	patient, err := s.repo.GetPatientByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("load patient: %w", err)
	}

	practitioner, err := s.repo.GetPractitionerByID(ctx, practitionerID)
	if err != nil {
		if errors.Is(err, ErrPractitionerNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("load practitioner: %w", err)
	}

	return patient, practitioner, nil
}

func parseBookingDate(patientID, practitionerID, dateStr string) (time.Time, error) {
	if patientID == "" || practitionerID == "" || dateStr == "" {
		return time.Time{}, ErrMissingField
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, ErrMalformedDate
	}

	return date, nil
}

package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/hodanhealth/mobile-api/internal/redis"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	patients      map[string]*Patient
	practitioners map[string]*Practitioner
	feeValidity   *FeeValidity
	appointments  []*Appointment

	// consumeFailures makes the conditional fee validity update lose the
	// race this many times before succeeding.
	consumeFailures int
	consumptions    []FeeValidityConsumption
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		patients:      make(map[string]*Patient),
		practitioners: make(map[string]*Practitioner),
	}
}

func (f *fakeRepository) GetPatientByID(_ context.Context, id string) (*Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (f *fakeRepository) GetPractitionerByID(_ context.Context, id string) (*Practitioner, error) {
	p, ok := f.practitioners[id]
	if !ok {
		return nil, ErrPractitionerNotFound
	}
	return p, nil
}

func (f *fakeRepository) HasOpenAppointment(_ context.Context, patientID, practitionerID string, date time.Time) (bool, error) {
	for _, a := range f.appointments {
		if a.PatientID == patientID && a.PractitionerID == practitionerID &&
			a.Date.Equal(date) && a.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) LatestPendingFeeValidity(_ context.Context, patientID, practitionerID string) (*FeeValidity, error) {
	fv := f.feeValidity
	if fv == nil || fv.Status != FeeValidityPending ||
		fv.PatientID != patientID || fv.PractitionerID != practitionerID {
		return nil, nil
	}
	copied := *fv
	return &copied, nil
}

func (f *fakeRepository) CreateAppointment(_ context.Context, appt *Appointment, consume *FeeValidityConsumption) error {
	if consume != nil {
		if f.consumeFailures > 0 {
			f.consumeFailures--
			// Simulate the concurrent winner bumping the counter.
			f.feeValidity.Visited++
			return ErrFeeValidityConflict
		}
		if f.feeValidity == nil || f.feeValidity.Visited != consume.ExpectedVisited {
			return ErrFeeValidityConflict
		}
		f.feeValidity.Visited = consume.NewVisited
		if consume.Complete {
			f.feeValidity.Status = FeeValidityCompleted
		}
		f.consumptions = append(f.consumptions, *consume)
	}
	f.appointments = append(f.appointments, appt)
	return nil
}

func (f *fakeRepository) ListAppointmentsByMobile(_ context.Context, mobile string) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appointments {
		if a.MobileNo == mobile && a.Status != StatusCancelled {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepository) CompleteExpiredFeeValidities(_ context.Context, asOf time.Time) (int64, error) {
	if f.feeValidity != nil && f.feeValidity.Status == FeeValidityPending && f.feeValidity.ValidTill.Before(asOf) {
		f.feeValidity.Status = FeeValidityCompleted
		return 1, nil
	}
	return 0, nil
}

// passthroughLocker runs the callback without any real locking.
type passthroughLocker struct {
	calls int
	err   error
}

func (l *passthroughLocker) WithBookingLock(ctx context.Context, _, _ string, fn func(ctx context.Context) error) error {
	l.calls++
	if l.err != nil {
		return l.err
	}
	return fn(ctx)
}

const (
	testPatientID      = "PID-AAAA1111"
	testPractitionerID = "DR-BBBB2222"
	testDate           = "2026-03-10"
)

func newTestService(repo *fakeRepository, locker redisclient.Locker) *Service {
	return NewService(repo, locker, zerolog.Nop())
}

func seedParties(repo *fakeRepository, customerGroup string, charge *float64) {
	repo.patients[testPatientID] = &Patient{
		ID:            testPatientID,
		FirstName:     "Amina",
		MobileNo:      "611234567",
		CustomerGroup: customerGroup,
	}
	repo.practitioners[testPractitionerID] = &Practitioner{
		ID:               testPractitionerID,
		Name:             "Dr. Hassan",
		ConsultingCharge: charge,
		Active:           true,
	}
}

func pendingFeeValidity(visited, maxVisits int) *FeeValidity {
	return &FeeValidity{
		ID:             "FV-CCCC3333",
		PatientID:      testPatientID,
		PractitionerID: testPractitionerID,
		Status:         FeeValidityPending,
		StartDate:      time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		ValidTill:      time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
		Visited:        visited,
		MaxVisits:      maxVisits,
	}
}

func TestBookAppointment_NewPatientFullPrice(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	svc := newTestService(repo, &passthroughLocker{})

	result, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)

	assert.Equal(t, TypeNewPatient, result.AppointmentType)
	assert.Equal(t, 20.0, result.AmountCharged)
	assert.Equal(t, 20.0, result.OriginalAmount)

	require.Len(t, repo.appointments, 1)
	appt := repo.appointments[0]
	assert.Equal(t, ModeOfPayment, appt.ModeOfPayment)
	assert.Equal(t, CostCenter, appt.CostCenter)
	assert.Equal(t, SourceMobile, appt.Source)
	assert.Equal(t, StatusOpen, appt.Status)
	assert.False(t, appt.FollowUp)
	assert.Empty(t, repo.consumptions)
}

func TestBookAppointment_FollowUpConsumesEntitlement(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	repo.feeValidity = pendingFeeValidity(0, 2)
	svc := newTestService(repo, &passthroughLocker{})

	result, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)

	assert.Equal(t, TypeFollowUp, result.AppointmentType)
	assert.Equal(t, 0.0, result.AmountCharged)
	assert.Equal(t, 20.0, result.OriginalAmount)

	assert.Equal(t, 1, repo.feeValidity.Visited)
	assert.Equal(t, FeeValidityPending, repo.feeValidity.Status)

	require.Len(t, repo.consumptions, 1)
	assert.Equal(t, 0, repo.consumptions[0].ExpectedVisited)
	assert.Equal(t, 1, repo.consumptions[0].NewVisited)
	assert.False(t, repo.consumptions[0].Complete)
}

func TestBookAppointment_LastVisitCompletesEntitlement(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	repo.feeValidity = pendingFeeValidity(1, 2)
	svc := newTestService(repo, &passthroughLocker{})

	result, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)
	assert.Equal(t, TypeFollowUp, result.AppointmentType)

	assert.Equal(t, 2, repo.feeValidity.Visited)
	assert.Equal(t, FeeValidityCompleted, repo.feeValidity.Status)
}

func TestBookAppointment_ExhaustedEntitlementChargesMembershipRate(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, MembershipGroup, floatPtr(20))
	repo.feeValidity = pendingFeeValidity(2, 2)
	svc := newTestService(repo, &passthroughLocker{})

	result, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)

	assert.Equal(t, TypeNewPatient, result.AppointmentType)
	assert.Equal(t, 10.0, result.AmountCharged)
	assert.Equal(t, 2, repo.feeValidity.Visited)
	assert.Empty(t, repo.consumptions)
}

func TestBookAppointment_DuplicateRejected(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	svc := newTestService(repo, &passthroughLocker{})

	_, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)

	_, err = svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.ErrorIs(t, err, ErrDuplicateBooking)
	assert.Len(t, repo.appointments, 1)
}

func TestBookAppointment_UnknownParties(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	svc := newTestService(repo, &passthroughLocker{})

	_, err := svc.BookAppointment(context.Background(), "PID-NOPE", testPractitionerID, testDate)
	require.ErrorIs(t, err, ErrPatientNotFound)

	_, err = svc.BookAppointment(context.Background(), testPatientID, "DR-NOPE", testDate)
	require.ErrorIs(t, err, ErrPractitionerNotFound)

	assert.Empty(t, repo.appointments)
}

func TestBookAppointment_InputValidation(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	locker := &passthroughLocker{}
	svc := newTestService(repo, locker)

	_, err := svc.BookAppointment(context.Background(), "", testPractitionerID, testDate)
	require.ErrorIs(t, err, ErrMissingField)

	_, err = svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, "10-03-2026")
	require.ErrorIs(t, err, ErrMalformedDate)

	// Validation failures never reach the lock.
	assert.Zero(t, locker.calls)
}

func TestBookAppointment_MissingChargeRejected(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", nil)
	svc := newTestService(repo, &passthroughLocker{})

	_, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.ErrorIs(t, err, ErrInvalidCharge)
	assert.Empty(t, repo.appointments)
}

func TestBookAppointment_RetriesOnceOnConsumptionRace(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	repo.feeValidity = pendingFeeValidity(0, 2)
	repo.consumeFailures = 1
	svc := newTestService(repo, &passthroughLocker{})

	result, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)

	// The retry re-reads the bumped counter and takes the second visit.
	assert.Equal(t, TypeFollowUp, result.AppointmentType)
	assert.Equal(t, 2, repo.feeValidity.Visited)
	assert.Equal(t, FeeValidityCompleted, repo.feeValidity.Status)
}

func TestBookAppointment_ConflictAfterRetryBudget(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	repo.feeValidity = pendingFeeValidity(0, 5)
	repo.consumeFailures = 2
	svc := newTestService(repo, &passthroughLocker{})

	_, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.ErrorIs(t, err, ErrBookingConflict)
	assert.Empty(t, repo.appointments)
}

func TestBookAppointment_LockContentionIsConflict(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	svc := newTestService(repo, &passthroughLocker{err: redisclient.ErrLockNotAcquired})

	_, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.ErrorIs(t, err, ErrBookingConflict)
}

func TestValidateBooking_DryRunMutatesNothing(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	repo.feeValidity = pendingFeeValidity(0, 2)
	locker := &passthroughLocker{}
	svc := newTestService(repo, locker)

	quote, err := svc.ValidateBooking(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)

	assert.Equal(t, TypeFollowUp, quote.Type)
	assert.True(t, quote.FollowUp)
	assert.Equal(t, 0.0, quote.PayableAmount)
	assert.Equal(t, 20.0, quote.OriginalAmount)

	// Dry run: no appointment, no consumption, no lock.
	assert.Empty(t, repo.appointments)
	assert.Equal(t, 0, repo.feeValidity.Visited)
	assert.Equal(t, FeeValidityPending, repo.feeValidity.Status)
	assert.Zero(t, locker.calls)
}

func TestValidateBooking_ReportsDuplicate(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	svc := newTestService(repo, &passthroughLocker{})

	_, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)

	_, err = svc.ValidateBooking(context.Background(), testPatientID, testPractitionerID, testDate)
	require.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestListAppointmentsByMobile(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	svc := newTestService(repo, &passthroughLocker{})

	_, err := svc.ListAppointmentsByMobile(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingField)

	_, err = svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)

	appts, err := svc.ListAppointmentsByMobile(context.Background(), "611234567")
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, testPatientID, appts[0].PatientID)

	appts, err = svc.ListAppointmentsByMobile(context.Background(), "619999999")
	require.NoError(t, err)
	assert.Empty(t, appts)
}

func TestBookAppointment_ExpiredWindowChargesFull(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	fv := pendingFeeValidity(0, 2)
	fv.ValidTill = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	repo.feeValidity = fv
	svc := newTestService(repo, &passthroughLocker{})

	result, err := svc.BookAppointment(context.Background(), testPatientID, testPractitionerID, testDate)
	require.NoError(t, err)

	assert.Equal(t, TypeNewPatient, result.AppointmentType)
	assert.Equal(t, 20.0, result.AmountCharged)
	assert.Equal(t, 0, repo.feeValidity.Visited)
}

func TestBookAppointment_ErrorsDoNotLeaveRecords(t *testing.T) {
	repo := newFakeRepository()
	seedParties(repo, "All Customer Groups", floatPtr(20))
	repo.feeValidity = pendingFeeValidity(0, 2)
	svc := newTestService(repo, &passthroughLocker{})

	_, err := svc.BookAppointment(context.Background(), testPatientID, "DR-NOPE", testDate)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrBookingConflict))

	assert.Empty(t, repo.appointments)
	assert.Equal(t, 0, repo.feeValidity.Visited)
}

package patient

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hodanhealth/mobile-api/internal/imageurl"
)

type fakeRepository struct {
	byID        map[string]*Patient
	byMobile    map[string][]Patient
	feeValidity map[string]*FollowUp
	districts   []string
	created     []*Patient
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:        make(map[string]*Patient),
		byMobile:    make(map[string][]Patient),
		feeValidity: make(map[string]*FollowUp),
	}
}

func (f *fakeRepository) Create(_ context.Context, p *Patient) error {
	f.created = append(f.created, p)
	f.byID[p.ID] = p
	f.byMobile[p.MobileNo] = append(f.byMobile[p.MobileNo], *p)
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*Patient, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepository) FirstByMobile(_ context.Context, mobile string) (*Patient, error) {
	list := f.byMobile[mobile]
	if len(list) == 0 {
		return nil, ErrPatientNotFound
	}
	copied := list[0]
	return &copied, nil
}

func (f *fakeRepository) ListByMobile(_ context.Context, mobile string) ([]Patient, error) {
	return append([]Patient(nil), f.byMobile[mobile]...), nil
}

func (f *fakeRepository) LatestFeeValidity(_ context.Context, patientID string) (*FollowUp, error) {
	return f.feeValidity[patientID], nil
}

func (f *fakeRepository) ListDistricts(_ context.Context) ([]string, error) {
	return f.districts, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, imageurl.Formatter{Host: "https://img.example.com"}, zerolog.Nop())
}

func TestRegister(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	p, err := svc.Register(context.Background(), RegistrationInput{
		FullName: "Amina Yusuf",
		Gender:   "Female",
		Age:      29,
		AgeType:  "Years",
		MobileNo: "611234567",
		District: "Hodan",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.ID, "PID-"))
	assert.Equal(t, DefaultCustomerGroup, p.CustomerGroup)
	require.Len(t, repo.created, 1)
}

func TestRegister_RequiresFullName(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.Register(context.Background(), RegistrationInput{FullName: "   "})
	require.ErrorIs(t, err, ErrMissingFullName)
}

func TestLogin(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	first, err := svc.Register(context.Background(), RegistrationInput{FullName: "Amina", MobileNo: "611234567"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), RegistrationInput{FullName: "Hassan", MobileNo: "611234567"})
	require.NoError(t, err)

	// The earliest registration owns the login.
	p, err := svc.Login(context.Background(), "611234567")
	require.NoError(t, err)
	assert.Equal(t, first.ID, p.ID)

	_, err = svc.Login(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingMobile)

	_, err = svc.Login(context.Background(), "619999999")
	require.ErrorIs(t, err, ErrPatientNotFound)
}

func TestListWithFollowUps(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	img := "/patient-photos/p1.jpg"
	repo.byMobile["611234567"] = []Patient{
		{ID: "PID-1", FirstName: "Amina", MobileNo: "611234567", Image: &img},
		{ID: "PID-2", FirstName: "Hassan", MobileNo: "611234567", CustomerGroup: "Membership"},
	}
	repo.feeValidity["PID-1"] = &FollowUp{
		ID:        "FV-1",
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		ValidTill: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Status:    "Pending",
	}

	result, err := svc.ListWithFollowUps(context.Background(), "611234567")
	require.NoError(t, err)
	require.Len(t, result, 2)

	require.NotNil(t, result[0].FollowUp)
	assert.Equal(t, "FV-1", result[0].FollowUp.ID)
	require.NotNil(t, result[0].Image)
	assert.True(t, strings.HasPrefix(*result[0].Image, "https://img.example.com/files/"))

	// Missing group falls back to the default; no entitlement means nil.
	assert.Equal(t, DefaultCustomerGroup, result[0].CustomerGroup)
	assert.Equal(t, "Membership", result[1].CustomerGroup)
	assert.Nil(t, result[1].FollowUp)
}

func TestProfile(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	repo.byID["PID-1"] = &Patient{ID: "PID-1", FirstName: "Amina"}

	p, err := svc.Profile(context.Background(), "PID-1")
	require.NoError(t, err)
	assert.Equal(t, "Amina", p.FirstName)

	_, err = svc.Profile(context.Background(), "PID-NOPE")
	require.ErrorIs(t, err, ErrPatientNotFound)
}

func TestDistricts(t *testing.T) {
	repo := newFakeRepository()
	repo.districts = []string{"Hodan", "Wadajir"}
	svc := newTestService(repo)

	districts, err := svc.Districts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hodan", "Wadajir"}, districts)
}

package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hodanhealth/mobile-api/internal/imageurl"
)

var (
	ErrMissingFullName = errors.New("full name is required")
	ErrMissingMobile   = errors.New("mobile number is required")
)

type Service struct {
	repo   Repository
	images imageurl.Formatter
	log    zerolog.Logger
}

func NewService(repo Repository, images imageurl.Formatter, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		images: images,
		log:    log,
	}
}

func (s *Service) Register(ctx context.Context, in RegistrationInput) (*Patient, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, ErrMissingFullName
	}

	p := &Patient{
		ID:            NewPatientID(),
		FirstName:     in.FullName,
		Gender:        in.Gender,
		Age:           in.Age,
		AgeType:       in.AgeType,
		MobileNo:      in.MobileNo,
		District:      in.District,
		CustomerGroup: DefaultCustomerGroup,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	s.log.Info().Str("patient", p.ID).Msg("patient registered")

	return p, nil
}

// Login resolves a mobile number to the earliest registered patient.
func (s *Service) Login(ctx context.Context, mobile string) (*Patient, error) {
	if mobile == "" {
		return nil, ErrMissingMobile
	}

	p, err := s.repo.FirstByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup patient by mobile: %w", err)
	}

	p.Image = s.images.Format(p.Image)
	return p, nil
}

// ListWithFollowUps returns every patient sharing the mobile number, each
// enriched with their most recent fee validity so the client can show the
// follow-up window per family member.
func (s *Service) ListWithFollowUps(ctx context.Context, mobile string) ([]PatientWithFollowUp, error) {
	if mobile == "" {
		return nil, ErrMissingMobile
	}

	patients, err := s.repo.ListByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("list patients by mobile: %w", err)
	}

	result := make([]PatientWithFollowUp, 0, len(patients))
	for _, p := range patients {
		p.Image = s.images.Format(p.Image)
		if p.CustomerGroup == "" {
			p.CustomerGroup = DefaultCustomerGroup
		}

		fu, err := s.repo.LatestFeeValidity(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("load fee validity for %s: %w", p.ID, err)
		}

		result = append(result, PatientWithFollowUp{Patient: p, FollowUp: fu})
	}

	return result, nil
}

func (s *Service) Profile(ctx context.Context, id string) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient profile: %w", err)
	}

	p.Image = s.images.Format(p.Image)
	return p, nil
}

func (s *Service) Districts(ctx context.Context) ([]string, error) {
	districts, err := s.repo.ListDistricts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	return districts, nil
}

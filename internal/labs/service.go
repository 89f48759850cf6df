package labs

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMissingMobile   = errors.New("mobile number is required")
	ErrNoPatientsFound = errors.New("no patients found for mobile number")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResultsByMobile returns lab results for every patient registered under the
// mobile number. Rich text fields are stripped to plain text and the patient
// name is always resolved from the patient record, since older results may
// carry a stale name.
func (s *Service) ResultsByMobile(ctx context.Context, mobile string) ([]LabResult, error) {
	if mobile == "" {
		return nil, ErrMissingMobile
	}

	patients, err := s.repo.PatientsByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("lookup patients by mobile: %w", err)
	}
	if len(patients) == 0 {
		return nil, ErrNoPatientsFound
	}

	nameByID := make(map[string]string, len(patients))
	ids := make([]string, 0, len(patients))
	for _, p := range patients {
		nameByID[p.ID] = p.Name
		ids = append(ids, p.ID)
	}

	results, err := s.repo.ListByPatients(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list lab results: %w", err)
	}

	for i := range results {
		results[i].PatientName = nameByID[results[i].PatientID]
		for j := range results[i].Items {
			results[i].Items[j].NormalRange = stripHTML(results[i].Items[j].NormalRange)
			results[i].Items[j].Comment = stripHTML(results[i].Items[j].Comment)
		}
	}

	return results, nil
}

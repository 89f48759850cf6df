package patient

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)

	// FirstByMobile returns the earliest registered patient for a mobile
	// number; that one owns the login.
	FirstByMobile(ctx context.Context, mobile string) (*Patient, error)

	// ListByMobile returns every patient sharing the mobile number, oldest
	// first.
	ListByMobile(ctx context.Context, mobile string) ([]Patient, error)

	// LatestFeeValidity returns the most recent fee validity for the patient
	// in any status, or nil.
	LatestFeeValidity(ctx context.Context, patientID string) (*FollowUp, error)

	ListDistricts(ctx context.Context) ([]string, error)
}

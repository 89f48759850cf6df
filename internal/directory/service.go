package directory

import (
	"context"
	"fmt"

	"github.com/hodanhealth/mobile-api/internal/imageurl"
)

type Service struct {
	repo   Repository
	images imageurl.Formatter
}

func NewService(repo Repository, images imageurl.Formatter) *Service {
	return &Service{
		repo:   repo,
		images: images,
	}
}

func (s *Service) Doctors(ctx context.Context, department string) ([]Doctor, error) {
	var (
		doctors []Doctor
		err     error
	)

	if department != "" {
		doctors, err = s.repo.ListDoctorsByDepartment(ctx, department)
	} else {
		doctors, err = s.repo.ListDoctors(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}

	for i := range doctors {
		doctors[i].Image = s.images.Format(doctors[i].Image)
	}

	return doctors, nil
}

func (s *Service) Departments(ctx context.Context) ([]Department, error) {
	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	for i := range departments {
		departments[i].Image = s.images.Format(departments[i].Image)
	}

	return departments, nil
}

func (s *Service) Banners(ctx context.Context) ([]Banner, error) {
	banners, err := s.repo.ListBanners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}

	for i := range banners {
		banners[i].Image = s.images.Format(banners[i].Image)
	}

	return banners, nil
}

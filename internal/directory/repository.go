package directory

import "context"

// Repository reads the public directory data shown in the app. Only active,
// non-hidden practitioners are ever listed.
type Repository interface {
	ListDoctors(ctx context.Context) ([]Doctor, error)
	ListDoctorsByDepartment(ctx context.Context, department string) ([]Doctor, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	ListBanners(ctx context.Context) ([]Banner, error)
}

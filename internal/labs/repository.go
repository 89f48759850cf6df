package labs

import "context"

type Repository interface {
	PatientsByMobile(ctx context.Context, mobile string) ([]PatientRef, error)

	// ListByPatients returns lab results for the given patients, most
	// recently modified first, with test items attached.
	ListByPatients(ctx context.Context, patientIDs []string) ([]LabResult, error)
}

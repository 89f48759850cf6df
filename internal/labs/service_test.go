package labs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	patients map[string][]PatientRef
	results  map[string][]LabResult
}

func (f *fakeRepository) PatientsByMobile(_ context.Context, mobile string) ([]PatientRef, error) {
	return f.patients[mobile], nil
}

func (f *fakeRepository) ListByPatients(_ context.Context, patientIDs []string) ([]LabResult, error) {
	var out []LabResult
	for _, id := range patientIDs {
		out = append(out, f.results[id]...)
	}
	return out, nil
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"4.0 - 11.0", "4.0 - 11.0"},
		{"<div class=\"ql-editor\"><p>4.0 - 11.0</p></div>", "4.0 - 11.0"},
		{"<p>Repeat in <b>2 weeks</b></p>", "Repeat in 2 weeks"},
		{"a < b", "a < b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stripHTML(tt.in))
	}
}

func TestResultsByMobile(t *testing.T) {
	repo := &fakeRepository{
		patients: map[string][]PatientRef{
			"611234567": {
				{ID: "PID-1", Name: "Amina"},
				{ID: "PID-2", Name: "Hassan"},
			},
		},
		results: map[string][]LabResult{
			"PID-1": {{
				ID:          "LAB-1",
				PatientID:   "PID-1",
				PatientName: "Old Name",
				Status:      "Completed",
				Items: []TestItem{{
					Test:        "WBC",
					ResultValue: "7.5",
					NormalRange: "<p>4.0 - 11.0</p>",
					Comment:     "<div>Within range</div>",
				}},
			}},
			"PID-2": {{
				ID:        "LAB-2",
				PatientID: "PID-2",
				Status:    "Completed",
			}},
		},
	}
	svc := NewService(repo)

	results, err := svc.ResultsByMobile(context.Background(), "611234567")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The name comes from the patient record, not the stored result.
	assert.Equal(t, "Amina", results[0].PatientName)
	assert.Equal(t, "Hassan", results[1].PatientName)

	assert.Equal(t, "4.0 - 11.0", results[0].Items[0].NormalRange)
	assert.Equal(t, "Within range", results[0].Items[0].Comment)
}

func TestResultsByMobile_Validation(t *testing.T) {
	svc := NewService(&fakeRepository{patients: map[string][]PatientRef{}})

	_, err := svc.ResultsByMobile(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingMobile)

	_, err = svc.ResultsByMobile(context.Background(), "619999999")
	require.ErrorIs(t, err, ErrNoPatientsFound)
}

package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hodanhealth/mobile-api/internal/labs"
)

func listLabResultsHandler(svc *labs.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mobile := r.URL.Query().Get("mobile")

		results, err := svc.ResultsByMobile(r.Context(), mobile)
		if err != nil {
			switch {
			case errors.Is(err, labs.ErrMissingMobile):
				writeError(w, http.StatusBadRequest, "Mobile number is required.")
			case errors.Is(err, labs.ErrNoPatientsFound):
				writeError(w, http.StatusNotFound, "No patients found for mobile: "+mobile)
			default:
				log.Error().Err(err).Msg("list lab results failed")
				writeInternal(w, "Internal Server Error")
			}
			return
		}

		resp := make([]LabResultResponse, 0, len(results))
		for _, lr := range results {
			items := make([]LabTestItemResponse, 0, len(lr.Items))
			for _, it := range lr.Items {
				items = append(items, LabTestItemResponse{
					Test:        it.Test,
					Event:       it.Event,
					ResultValue: it.ResultValue,
					NormalRange: it.NormalRange,
					UOM:         it.UOM,
					Comment:     it.Comment,
					Flag:        it.Flag,
				})
			}
			resp = append(resp, LabResultResponse{
				Name:         lr.ID,
				Patient:      lr.PatientID,
				PatientName:  lr.PatientName,
				Practitioner: lr.PractitionerID,
				Status:       lr.Status,
				Items:        items,
			})
		}

		writeSuccess(w, http.StatusOK, "Lab results retrieved successfully.", resp)
	}
}

package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hodanhealth/mobile-api/internal/directory"
)

func listDoctorsHandler(svc *directory.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		department := r.URL.Query().Get("department")

		doctors, err := svc.Doctors(r.Context(), department)
		if err != nil {
			log.Error().Err(err).Msg("list doctors failed")
			writeInternal(w, "An error occurred while fetching doctors.")
			return
		}

		if len(doctors) == 0 {
			writeError(w, http.StatusNotFound, "No doctors found in the system.")
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			resp = append(resp, DoctorResponse{
				Name:             d.ID,
				DoctorName:       d.Name,
				ConsultingCharge: d.ConsultingCharge,
				Department:       d.Department,
				Image:            d.Image,
				Services:         d.Services,
				Experience:       d.Experience,
				AvailableTime:    d.AvailableTime,
			})
		}

		writeSuccess(w, http.StatusOK, "Doctors fetched successfully", resp)
	}
}

func listDepartmentsHandler(svc *directory.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departments, err := svc.Departments(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list departments failed")
			writeInternal(w, "An error occurred while retrieving departments.")
			return
		}

		if len(departments) == 0 {
			writeError(w, http.StatusNotFound, "No departments found in the system.")
			return
		}

		resp := make([]DepartmentResponse, 0, len(departments))
		for _, d := range departments {
			resp = append(resp, DepartmentResponse{
				Name:           d.ID,
				DepartmentName: d.Name,
				Image:          d.Image,
			})
		}

		writeSuccess(w, http.StatusOK, "Departments retrieved successfully.", resp)
	}
}

func listBannersHandler(svc *directory.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		banners, err := svc.Banners(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list banners failed")
			writeInternal(w, "An error occurred while fetching banners.")
			return
		}

		if len(banners) == 0 {
			writeError(w, http.StatusNotFound, "No banners found in the system.")
			return
		}

		resp := make([]BannerResponse, 0, len(banners))
		for _, b := range banners {
			resp = append(resp, BannerResponse{
				Name:  b.ID,
				Image: b.Image,
				Type:  b.Type,
			})
		}

		writeSuccess(w, http.StatusOK, "Banners fetched successfully", resp)
	}
}

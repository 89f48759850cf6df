package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hodanhealth/mobile-api/internal/patient"
)

func registerPatientHandler(svc *patient.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse request body")
			return
		}

		p, err := svc.Register(r.Context(), patient.RegistrationInput{
			FullName: req.FullName,
			Gender:   req.Gender,
			Age:      req.Age,
			AgeType:  req.AgeType,
			MobileNo: req.MobileNo,
			District: req.District,
		})
		if err != nil {
			if errors.Is(err, patient.ErrMissingFullName) {
				writeError(w, http.StatusBadRequest, "Full Name is required.")
				return
			}
			log.Error().Err(err).Msg("patient registration failed")
			writeInternal(w, "An error occurred while registering the patient.")
			return
		}

		writeSuccess(w, http.StatusCreated, "Patient registered successfully.", map[string]string{
			"patient_id": p.ID,
		})
	}
}

func patientLoginHandler(svc *patient.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse request body")
			return
		}

		p, err := svc.Login(r.Context(), req.MobileNo)
		if err != nil {
			switch {
			case errors.Is(err, patient.ErrMissingMobile):
				writeError(w, http.StatusBadRequest, "Mobile number is required!")
			case errors.Is(err, patient.ErrPatientNotFound):
				writeError(w, http.StatusNotFound, "Patient not found with the provided mobile number.")
			default:
				log.Error().Err(err).Msg("patient login failed")
				writeInternal(w, "An error occurred while logging in")
			}
			return
		}

		writeSuccess(w, http.StatusOK, "Login successful", patientToResponse(p))
	}
}

func listPatientsHandler(svc *patient.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mobile := r.URL.Query().Get("mobile")

		patients, err := svc.ListWithFollowUps(r.Context(), mobile)
		if err != nil {
			if errors.Is(err, patient.ErrMissingMobile) {
				writeError(w, http.StatusBadRequest, "Mobile number is required.")
				return
			}
			log.Error().Err(err).Msg("list patients failed")
			writeInternal(w, "An error occurred while retrieving patients.")
			return
		}

		if len(patients) == 0 {
			writeError(w, http.StatusNotFound, "No patients found for mobile number: "+mobile)
			return
		}

		resp := make([]PatientWithFollowUpResponse, 0, len(patients))
		for _, p := range patients {
			item := PatientWithFollowUpResponse{
				Name:          p.ID,
				FirstName:     p.FirstName,
				Age:           p.Age,
				Image:         p.Image,
				CustomerGroup: p.CustomerGroup,
			}
			if p.FollowUp != nil {
				start := p.FollowUp.StartDate.Format("2006-01-02")
				till := p.FollowUp.ValidTill.Format("2006-01-02")
				status := p.FollowUp.Status
				item.FollowUpID = &p.FollowUp.ID
				item.FollowUpStartDate = &start
				item.FollowUpExpiration = &till
				item.FollowUpStatus = &status
			}
			resp = append(resp, item)
		}

		writeSuccess(w, http.StatusOK, "Patients found successfully.", resp)
	}
}

func patientProfileHandler(svc *patient.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		p, err := svc.Profile(r.Context(), id)
		if err != nil {
			if errors.Is(err, patient.ErrPatientNotFound) {
				writeError(w, http.StatusNotFound, "Patient with ID '"+id+"' does not exist.")
				return
			}
			log.Error().Err(err).Msg("patient profile failed")
			writeInternal(w, "An unexpected error occurred.")
			return
		}

		writeSuccess(w, http.StatusOK, "Patient profile retrieved successfully", patientToResponse(p))
	}
}

func listDistrictsHandler(svc *patient.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		districts, err := svc.Districts(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list districts failed")
			writeInternal(w, "An error occurred while fetching districts.")
			return
		}

		writeSuccess(w, http.StatusOK, "Districts found successfully.", districts)
	}
}

func patientToResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		PatientID: p.ID,
		FirstName: p.FirstName,
		Gender:    p.Gender,
		Age:       p.Age,
		AgeType:   p.AgeType,
		Mobile:    p.MobileNo,
		District:  p.District,
		Image:     p.Image,
	}
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hodanhealth/mobile-api/internal/booking"
)

func createAppointmentHandler(svc *booking.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse request body")
			return
		}

		result, err := svc.BookAppointment(r.Context(), req.PatientID, req.PractitionerID, req.AppointmentDate)
		if err != nil {
			handleBookingError(w, log, err)
			return
		}

		writeSuccess(w, http.StatusCreated, "Appointment created successfully", BookingResponse{
			AppointmentID:   result.AppointmentID,
			AppointmentType: string(result.AppointmentType),
			AmountCharged:   result.AmountCharged,
			OriginalAmount:  result.OriginalAmount,
		})
	}
}

func validateAppointmentHandler(svc *booking.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse request body")
			return
		}

		quote, err := svc.ValidateBooking(r.Context(), req.PatientID, req.PractitionerID, req.AppointmentDate)
		if err != nil {
			handleBookingError(w, log, err)
			return
		}

		writeSuccess(w, http.StatusOK, "Booking is valid", QuoteResponse{
			PayableAmount:   quote.PayableAmount,
			OriginalAmount:  quote.OriginalAmount,
			AppointmentType: string(quote.Type),
			FollowUp:        quote.FollowUp,
		})
	}
}

func listAppointmentsHandler(svc *booking.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mobile := r.URL.Query().Get("mobile")

		appts, err := svc.ListAppointmentsByMobile(r.Context(), mobile)
		if err != nil {
			if errors.Is(err, booking.ErrMissingField) {
				writeError(w, http.StatusBadRequest, "Mobile No is required.")
				return
			}
			log.Error().Err(err).Msg("list appointments failed")
			writeInternal(w, "An error occurred while retrieving appointments.")
			return
		}

		if len(appts) == 0 {
			writeError(w, http.StatusNotFound, "No appointments found for patient: "+mobile)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for _, a := range appts {
			resp = append(resp, AppointmentResponse{
				Name:          a.ID,
				Patient:       a.PatientID,
				PatientName:   a.PatientName,
				Practitioner:  a.PractitionerID,
				PayableAmount: a.PayableAmount,
				Date:          a.Date.Format("2006-01-02"),
				Creation:      a.CreatedAt.Format("2006-01-02 15:04:05"),
				Source:        a.Source,
			})
		}

		writeSuccess(w, http.StatusOK, "Appointments retrieved successfully", resp)
	}
}

func handleBookingError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, booking.ErrMissingField),
		errors.Is(err, booking.ErrMalformedDate),
		errors.Is(err, booking.ErrDuplicateBooking),
		errors.Is(err, booking.ErrInvalidCharge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrPatientNotFound),
		errors.Is(err, booking.ErrPractitionerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrBookingConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("booking failed")
		writeInternal(w, "An error occurred while creating the appointment.")
	}
}

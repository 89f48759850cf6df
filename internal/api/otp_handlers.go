package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hodanhealth/mobile-api/internal/otp"
)

func sendOTPHandler(svc *otp.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse request body")
			return
		}

		if err := svc.Send(r.Context(), req.MobileNo); err != nil {
			if errors.Is(err, otp.ErrMissingMobile) {
				writeError(w, http.StatusBadRequest, "Mobile number is required.")
				return
			}
			log.Error().Err(err).Msg("otp send failed")
			writeInternal(w, "Failed to send OTP.")
			return
		}

		writeSuccess(w, http.StatusOK, "OTP sent successfully.", nil)
	}
}

func verifyOTPHandler(svc *otp.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse request body")
			return
		}

		token, err := svc.Verify(r.Context(), req.MobileNo, req.OTP)
		if err != nil {
			switch {
			case errors.Is(err, otp.ErrMissingMobile):
				writeError(w, http.StatusBadRequest, "Mobile number is required.")
			case errors.Is(err, otp.ErrOTPNotFound):
				writeError(w, http.StatusNotFound, "No active OTP for this number. Request a new one.")
			case errors.Is(err, otp.ErrOTPMismatch):
				writeError(w, http.StatusUnauthorized, "Incorrect OTP.")
			case errors.Is(err, otp.ErrTooManyAttempts):
				writeError(w, http.StatusUnauthorized, "Too many attempts. Request a new OTP.")
			default:
				log.Error().Err(err).Msg("otp verify failed")
				writeInternal(w, "Failed to verify OTP.")
			}
			return
		}

		writeSuccess(w, http.StatusOK, "OTP verified successfully.", map[string]string{
			"token": token,
		})
	}
}

func validateTokenHandler(svc *otp.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse request body")
			return
		}

		mobile, err := svc.ValidateToken(r.Context(), req.Token)
		if err != nil {
			if errors.Is(err, otp.ErrTokenInvalid) {
				writeError(w, http.StatusUnauthorized, "Token is invalid or expired.")
				return
			}
			log.Error().Err(err).Msg("token validation failed")
			writeInternal(w, "Failed to validate token.")
			return
		}

		writeSuccess(w, http.StatusOK, "Token is valid.", map[string]string{
			"mobile_no": mobile,
		})
	}
}

package api

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body the mobile client expects.
type Envelope struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
	Data   any    `json:"Data"`
	Error  string `json:"error,omitempty"`
}

func writeSuccess(w http.ResponseWriter, code int, msg string, data any) {
	writeJSON(w, code, Envelope{
		Status: "success",
		Msg:    msg,
		Data:   data,
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, Envelope{
		Status: "error",
		Msg:    msg,
	})
}

// writeInternal hides the underlying error from the caller; handlers log it.
func writeInternal(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, Envelope{
		Status: "error",
		Msg:    msg,
		Error:  "internal server error",
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

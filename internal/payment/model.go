package payment

import (
	"context"
	"time"
)

// Gateway request types, one log row per call.
const (
	RequestPreauthorize = "PREAUTHORIZE"
	RequestCapture      = "CAPTURE"
	RequestCancel       = "CANCEL"
)

type PreauthResult struct {
	TransactionID string
	PreauthCode   string
	CashierURL    string
}

// ApproverContact is an escalation contact embedded in credit-limit style
// gateway rejections.
type ApproverContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// GatewayError is a structured gateway rejection. Approvers is populated
// when the message carries recognizable name/phone pairs; Details always
// carries the flat message parts as a fallback.
type GatewayError struct {
	Code      string
	Message   string
	Approvers []ApproverContact
	Details   []string
}

func (e *GatewayError) Error() string {
	return "payment gateway error " + e.Code + ": " + e.Message
}

// LogEntry is the audit row recorded for every gateway call.
type LogEntry struct {
	PatientID       string
	AppointmentID   string
	RequestType     string
	RequestPayload  []byte
	ResponsePayload []byte
	TransactionID   string
	CreatedAt       time.Time
}

// LogStore persists the payment audit trail.
type LogStore interface {
	Insert(ctx context.Context, entry LogEntry) error
}

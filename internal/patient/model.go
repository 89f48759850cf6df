package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCustomerGroup is reported when a patient has no explicit group.
const DefaultCustomerGroup = "All Customer Groups"

type Patient struct {
	ID            string
	FirstName     string
	Gender        string
	Age           int
	AgeType       string
	MobileNo      string
	District      string
	CustomerGroup string
	Image         *string
	CreatedAt     time.Time
}

type RegistrationInput struct {
	FullName string
	Gender   string
	Age      int
	AgeType  string
	MobileNo string
	District string
}

// FollowUp is the latest fee validity attached to a patient, regardless of
// status, used to enrich the same-mobile patient listing.
type FollowUp struct {
	ID        string
	StartDate time.Time
	ValidTill time.Time
	Status    string
}

type PatientWithFollowUp struct {
	Patient
	FollowUp *FollowUp
}

func NewPatientID() string {
	return "PID-" + strings.ToUpper(uuid.NewString()[:8])
}

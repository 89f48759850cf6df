package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type FeeValidityStatus string

const (
	FeeValidityPending   FeeValidityStatus = "Pending"
	FeeValidityCompleted FeeValidityStatus = "Completed"
)

type AppointmentType string

const (
	TypeNewPatient AppointmentType = "New Patient"
	TypeFollowUp   AppointmentType = "Follow Up"
)

type AppointmentStatus string

const (
	StatusOpen      AppointmentStatus = "Open"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// Fixed booking fields for the mobile channel.
const (
	ModeOfPayment = "Cash"
	CostCenter    = "Main - HH"
	SourceMobile  = "Mobile-App"
)

type Patient struct {
	ID            string
	FirstName     string
	MobileNo      string
	Gender        string
	Age           int
	AgeType       string
	District      string
	CustomerGroup string
	Image         *string
	CreatedAt     time.Time
}

type Practitioner struct {
	ID               string
	Name             string
	Department       string
	ConsultingCharge *float64
	Active           bool
	Hidden           bool
	CreatedAt        time.Time
}

// FeeValidity is the follow-up entitlement granted after a paid visit.
// Invariant: Visited <= MaxVisits; at Visited == MaxVisits the record is
// Completed and no longer grants free visits.
type FeeValidity struct {
	ID             string
	PatientID      string
	PractitionerID string
	Status         FeeValidityStatus
	StartDate      time.Time
	ValidTill      time.Time
	Visited        int
	MaxVisits      int
	CreatedAt      time.Time
}

type Appointment struct {
	ID             string
	PatientID      string
	PatientName    string
	PractitionerID string
	MobileNo       string
	Date           time.Time
	PayableAmount  float64
	Type           AppointmentType
	FollowUp       bool
	ModeOfPayment  string
	CostCenter     string
	Source         string
	Status         AppointmentStatus
	CreatedAt      time.Time
}

// BookingResult is what the mobile client gets back after a booking.
type BookingResult struct {
	AppointmentID   string
	AppointmentType AppointmentType
	AmountCharged   float64
	OriginalAmount  float64
}

// NewAppointmentID mimics the hospital's human-readable naming series.
func NewAppointmentID() string {
	return "QUE-" + strings.ToUpper(uuid.NewString()[:8])
}

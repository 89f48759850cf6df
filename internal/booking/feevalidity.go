package booking

import "time"

// EligibleFollowUp reports whether fv grants a free follow-up visit on date.
// The window is inclusive: a booking on valid_till itself still qualifies.
//
// Only the single most recent Pending record is ever passed in here; an
// expired or exhausted candidate does not fall through to an older record,
// which keeps one clear entitlement lineage per (patient, practitioner).
func EligibleFollowUp(fv *FeeValidity, date time.Time) bool {
	if fv == nil || fv.Status != FeeValidityPending {
		return false
	}
	if date.After(fv.ValidTill) {
		return false
	}
	return fv.Visited < fv.MaxVisits
}

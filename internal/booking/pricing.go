package booking

import (
	"errors"
	"math"
)

var ErrInvalidCharge = errors.New("practitioner consulting charge is not set")

// MembershipGroup patients get a flat 50% consultation discount when no
// follow-up entitlement applies.
const MembershipGroup = "Membership"

// Quote is the outcome of the pricing cascade.
type Quote struct {
	PayableAmount  float64
	OriginalAmount float64
	Type           AppointmentType
	FollowUp       bool
}

type pricingInput struct {
	charge           float64
	customerGroup    string
	eligibleFollowUp bool
}

// pricingRule is one step of the discount cascade. Rules are evaluated in
// order and the first one that applies wins.
type pricingRule struct {
	name    string
	applies func(in pricingInput) bool
	quote   func(in pricingInput) Quote
}

var pricingRules = []pricingRule{
	{
		name:    "follow-up-free",
		applies: func(in pricingInput) bool { return in.eligibleFollowUp },
		quote: func(in pricingInput) Quote {
			return Quote{PayableAmount: 0, Type: TypeFollowUp, FollowUp: true}
		},
	},
	{
		name:    "membership-half-price",
		applies: func(in pricingInput) bool { return in.customerGroup == MembershipGroup },
		quote: func(in pricingInput) Quote {
			return Quote{PayableAmount: roundMoney(in.charge * 0.5), Type: TypeNewPatient}
		},
	},
	{
		name:    "full-price",
		applies: func(in pricingInput) bool { return true },
		quote: func(in pricingInput) Quote {
			return Quote{PayableAmount: roundMoney(in.charge), Type: TypeNewPatient}
		},
	},
}

// ResolvePrice applies the discount cascade to a practitioner's base charge.
// charge is nil when the practitioner record has no consulting charge set.
func ResolvePrice(charge *float64, customerGroup string, eligibleFollowUp bool) (Quote, error) {
	if charge == nil || *charge < 0 {
		return Quote{}, ErrInvalidCharge
	}

	in := pricingInput{
		charge:           *charge,
		customerGroup:    customerGroup,
		eligibleFollowUp: eligibleFollowUp,
	}

	for _, rule := range pricingRules {
		if rule.applies(in) {
			q := rule.quote(in)
			q.OriginalAmount = roundMoney(in.charge)
			return q, nil
		}
	}

	// Unreachable: the last rule always applies.
	return Quote{}, ErrInvalidCharge
}

// roundMoney rounds half-up to cents.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

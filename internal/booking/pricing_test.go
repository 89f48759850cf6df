package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestResolvePrice(t *testing.T) {
	tests := []struct {
		name             string
		charge           *float64
		customerGroup    string
		eligibleFollowUp bool
		wantPayable      float64
		wantOriginal     float64
		wantType         AppointmentType
		wantFollowUp     bool
		wantErr          error
	}{
		{
			name:          "full price for regular patient",
			charge:        floatPtr(20.00),
			customerGroup: "All Customer Groups",
			wantPayable:   20.00,
			wantOriginal:  20.00,
			wantType:      TypeNewPatient,
		},
		{
			name:          "membership pays half",
			charge:        floatPtr(20.00),
			customerGroup: MembershipGroup,
			wantPayable:   10.00,
			wantOriginal:  20.00,
			wantType:      TypeNewPatient,
		},
		{
			name:          "membership discount rounds to cents",
			charge:        floatPtr(15.25),
			customerGroup: MembershipGroup,
			wantPayable:   7.63,
			wantOriginal:  15.25,
			wantType:      TypeNewPatient,
		},
		{
			name:             "eligible follow-up is free",
			charge:           floatPtr(20.00),
			customerGroup:    "All Customer Groups",
			eligibleFollowUp: true,
			wantPayable:      0,
			wantOriginal:     20.00,
			wantType:         TypeFollowUp,
			wantFollowUp:     true,
		},
		{
			name:             "follow-up beats membership discount",
			charge:           floatPtr(20.00),
			customerGroup:    MembershipGroup,
			eligibleFollowUp: true,
			wantPayable:      0,
			wantOriginal:     20.00,
			wantType:         TypeFollowUp,
			wantFollowUp:     true,
		},
		{
			name:          "zero charge is a valid free consultation",
			charge:        floatPtr(0),
			customerGroup: "All Customer Groups",
			wantPayable:   0,
			wantOriginal:  0,
			wantType:      TypeNewPatient,
		},
		{
			name:          "missing charge",
			charge:        nil,
			customerGroup: "All Customer Groups",
			wantErr:       ErrInvalidCharge,
		},
		{
			name:          "negative charge",
			charge:        floatPtr(-5),
			customerGroup: "All Customer Groups",
			wantErr:       ErrInvalidCharge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := ResolvePrice(tt.charge, tt.customerGroup, tt.eligibleFollowUp)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPayable, quote.PayableAmount)
			assert.Equal(t, tt.wantOriginal, quote.OriginalAmount)
			assert.Equal(t, tt.wantType, quote.Type)
			assert.Equal(t, tt.wantFollowUp, quote.FollowUp)
		})
	}
}

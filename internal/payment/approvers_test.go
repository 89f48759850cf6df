package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApprovers(t *testing.T) {
	t.Run("name colon phone pairs", func(t *testing.T) {
		contacts, parts := parseApprovers("Limit exceeded. Contact; Dr Ahmed: +252611111111, Halima Ali: 0612222222")

		require.Len(t, contacts, 2)
		assert.Equal(t, ApproverContact{Name: "Dr Ahmed", Phone: "+252611111111"}, contacts[0])
		assert.Equal(t, ApproverContact{Name: "Halima Ali", Phone: "0612222222"}, contacts[1])
		assert.Contains(t, parts, "Limit exceeded. Contact")
	})

	t.Run("dash separated pair", func(t *testing.T) {
		contacts, _ := parseApprovers("Mohamed Noor - 061 333 4444")

		require.Len(t, contacts, 1)
		assert.Equal(t, "Mohamed Noor", contacts[0].Name)
		// Spaces inside the number are squeezed out.
		assert.Equal(t, "0613334444", contacts[0].Phone)
	})

	t.Run("no pairs keeps raw parts", func(t *testing.T) {
		contacts, parts := parseApprovers("Insufficient balance")

		assert.Empty(t, contacts)
		assert.Equal(t, []string{"Insufficient balance"}, parts)
	})

	t.Run("empty message", func(t *testing.T) {
		contacts, parts := parseApprovers("")

		assert.Empty(t, contacts)
		assert.Empty(t, parts)
	})
}

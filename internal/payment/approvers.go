package payment

import (
	"regexp"
	"strings"
)

var approverPattern = regexp.MustCompile(`([A-Za-z][A-Za-z .'-]*?)\s*[:\-]\s*(\+?\d[\d\s-]{5,}\d)`)

// parseApprovers pulls name/phone pairs out of a credit-limit rejection
// message. Pairs look like "Dr Ahmed: +252611111111" separated by commas,
// semicolons or newlines. The flat parts are always returned so callers can
// fall back to showing the raw message.
func parseApprovers(msg string) ([]ApproverContact, []string) {
	parts := splitMessage(msg)

	var contacts []ApproverContact
	for _, part := range parts {
		m := approverPattern.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		contacts = append(contacts, ApproverContact{
			Name:  strings.TrimSpace(m[1]),
			Phone: strings.Join(strings.Fields(m[2]), ""),
		})
	}

	return contacts, parts
}

func splitMessage(msg string) []string {
	raw := strings.FieldsFunc(msg, func(r rune) bool {
		return r == ';' || r == ',' || r == '\n'
	})

	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

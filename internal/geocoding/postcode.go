package geocoding

import (
	"regexp"
	"strings"
)

var postcodePattern = regexp.MustCompile(`^[0-9]{4}[A-Z]{2}$`)

// NormalizePostcode upper-cases a Dutch postcode and formats it as "1234 AB".
// Input that is not a valid postcode is returned trimmed and upper-cased only.
func NormalizePostcode(postcode string) string {
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(postcode), " ", ""))
	if !postcodePattern.MatchString(compact) {
		return strings.ToUpper(strings.TrimSpace(postcode))
	}
	return compact[:4] + " " + compact[4:]
}

// ValidatePostcode accepts four digits followed by two letters, ignoring case and spaces.
func ValidatePostcode(postcode string) bool {
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(postcode), " ", ""))
	return postcodePattern.MatchString(compact)
}

package geocoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePostcode(t *testing.T) {
	for _, valid := range []string{"3511 AA", "3511AA", "3511aa", " 3511 aa ", "1012 J S"} {
		assert.True(t, ValidatePostcode(valid), valid)
	}
	for _, invalid := range []string{"", "351 AA", "35111AA", "3511 A1", "ABCD EF", "3511-AA"} {
		assert.False(t, ValidatePostcode(invalid), invalid)
	}
}

func TestNormalizePostcode(t *testing.T) {
	assert.Equal(t, "3511 AA", NormalizePostcode("3511aa"))
	assert.Equal(t, "3511 AA", NormalizePostcode(" 3511 Aa"))
	assert.Equal(t, "NOT A POSTCODE", NormalizePostcode(" not a postcode "))
}

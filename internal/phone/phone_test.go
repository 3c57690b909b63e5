package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/northfield/contactcrawl/internal/phone"
)

func TestParse_NormalizesSwedishLocalFormat(t *testing.T) {
	e164, ok := phone.Parse("08-123 456 78")
	assert.True(t, ok)
	assert.True(t, len(e164) >= 9 && len(e164) <= 16)
	assert.Equal(t, byte('+'), e164[0])
	assert.Contains(t, e164, "+46")
}

func TestParse_RejectsRepeatedDigitPlaceholder(t *testing.T) {
	_, ok := phone.Parse("+4600000000")
	assert.False(t, ok)
}

func TestParse_RejectsGarbage(t *testing.T) {
	_, ok := phone.Parse("not a phone number")
	assert.False(t, ok)
}

func TestParse_RejectsNonSwedishNumber(t *testing.T) {
	_, ok := phone.Parse("+1 415 555 2671")
	assert.False(t, ok)
}

func TestFindCandidates_MatchesPhoneShapedSubstrings(t *testing.T) {
	candidates := phone.FindCandidates("Call us at +46 8 400 222 70 or visit our office.")
	assert.NotEmpty(t, candidates)
}

package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/email"
)

func TestClean_RejectsJunkAddresses(t *testing.T) {
	cases := []string{
		"user@example.com",
		"test@acme.se",
		"noreply@acme.se",
		"placeholder@acme.se",
		"not-an-email",
		"person@acme.xyz", // disallowed TLD
	}

	for _, addr := range cases {
		_, ok := email.Clean(addr)
		assert.False(t, ok, "expected %q to be rejected", addr)
	}
}

func TestClean_AcceptsAndNormalizes(t *testing.T) {
	cleaned, ok := email.Clean("  Info@Acme.SE  ")
	assert.True(t, ok)
	assert.Equal(t, "info@acme.se", cleaned)
}

func TestClassify_RoleLocalpart(t *testing.T) {
	emailType, score := email.Classify("info@acme.se", "acme.se")
	assert.Equal(t, domain.EmailTypeRole, emailType)
	assert.GreaterOrEqual(t, score, 80)
}

func TestClassify_PersonalDomain(t *testing.T) {
	emailType, _ := email.Classify("jane.doe@gmail.com", "acme.se")
	assert.Equal(t, domain.EmailTypePersonal, emailType)
}

func TestClassify_CompanyDomainGenericShortLocal(t *testing.T) {
	emailType, _ := email.Classify("a@acme.se", "acme.se")
	assert.Equal(t, domain.EmailTypeGeneric, emailType)
}

func TestClassify_CompanyDomainRoleOtherwise(t *testing.T) {
	emailType, _ := email.Classify("jane@acme.se", "acme.se")
	assert.Equal(t, domain.EmailTypeRole, emailType)
}

func TestClassify_Unknown(t *testing.T) {
	emailType, _ := email.Classify("jane@unrelated.se", "acme.se")
	assert.Equal(t, domain.EmailTypeUnknown, emailType)
}

func TestClassify_ScoreNeverExceedsBounds(t *testing.T) {
	_, score := email.Classify("info@acme.se", "acme.se")
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)
}

func TestConfidence_ConvertsScoreToUnitRange(t *testing.T) {
	assert.InDelta(t, 0.8, email.Confidence(80), 0.001)
	assert.InDelta(t, 1.0, email.Confidence(150), 0.001)
	assert.InDelta(t, 0.0, email.Confidence(-10), 0.001)
}

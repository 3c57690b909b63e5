package sitecrawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCandidatePages_UsesFixedOrderAndTruncates(t *testing.T) {
	pages := buildCandidatePages("https://acme.se/", 3)

	assert.Equal(t, []string{
		"https://acme.se",
		"https://acme.se/kontakt",
		"https://acme.se/kontakta-oss",
	}, pages)
}

func TestBuildCandidatePages_ZeroMaxPagesKeepsFullList(t *testing.T) {
	pages := buildCandidatePages("https://acme.se", 0)
	assert.Len(t, pages, len(candidatePaths))
}

func TestNormalizePhones_DedupesAndDropsInvalid(t *testing.T) {
	out := normalizePhones([]string{"08-123 456 78", "08-123 456 78", "not a phone"})
	assert.Len(t, out, 1)
}

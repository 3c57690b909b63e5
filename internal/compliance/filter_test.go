package compliance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/northfield/contactcrawl/internal/compliance"
)

func TestDNCList_StrictSuffixMatch(t *testing.T) {
	list := compliance.NewDNCList()
	list.Add("blocked.se")

	assert.True(t, list.Has("blocked.se"))
	assert.True(t, list.Has("www.blocked.se"))
	assert.False(t, list.Has("notblocked.se"))
	assert.False(t, list.Has("otherblocked.se"))
}

func TestDNCList_RemoveClearsEntry(t *testing.T) {
	list := compliance.NewDNCList()
	list.Add("blocked.se")
	list.Remove("blocked.se")

	assert.False(t, list.Has("blocked.se"))
}

func TestTOSList_SubstringMatchOnDefaults(t *testing.T) {
	list := compliance.NewTOSList()

	reason, hit := list.Check("www.linkedin.com")
	assert.True(t, hit)
	assert.NotEmpty(t, reason)

	_, hit = list.Check("acme.se")
	assert.False(t, hit)
}

func TestTOSList_AddCustomDomain(t *testing.T) {
	list := compliance.NewTOSList()
	list.Add("example-platform.com", "custom reason")

	reason, hit := list.Check("sub.example-platform.com")
	assert.True(t, hit)
	assert.Equal(t, "custom reason", reason)
}

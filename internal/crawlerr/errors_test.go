package crawlerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/northfield/contactcrawl/internal/crawlerr"
)

func TestURLError_UnwrapMatchesSentinelViaErrorsIs(t *testing.T) {
	err := crawlerr.NewURLError("https://acme.se/kontakt", crawlerr.ErrTimeout)

	assert.True(t, errors.Is(err, crawlerr.ErrTimeout))
	assert.False(t, errors.Is(err, crawlerr.ErrNotFound))
}

func TestURLError_ErrorIncludesURLAndUnderlyingMessage(t *testing.T) {
	err := crawlerr.NewURLError("https://acme.se/", crawlerr.ErrBlocked)

	assert.Contains(t, err.Error(), "https://acme.se/")
	assert.Contains(t, err.Error(), "blocked")
}

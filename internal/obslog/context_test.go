package obslog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/northfield/contactcrawl/internal/obslog"
)

func TestFromContext_ReturnsNopWhenUnset(t *testing.T) {
	logger := obslog.FromContext(context.Background())
	assert.NotNil(t, logger)
}

func TestWithContext_RoundTripsLogger(t *testing.T) {
	original := obslog.NewNop()
	ctx := obslog.WithContext(context.Background(), original)

	assert.Equal(t, original, obslog.FromContext(ctx))
}

package captcha_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/northfield/contactcrawl/internal/captcha"
)

func TestDetect_RecognizesRecaptchaMarker(t *testing.T) {
	hit, marker := captcha.Detect(`<html><body><div class="g-recaptcha"></div></body></html>`)
	assert.True(t, hit)
	assert.Equal(t, "recaptcha", marker)
}

func TestDetect_CaseInsensitive(t *testing.T) {
	hit, _ := captcha.Detect(`<title>Attention Required! | Cloudflare</title>`)
	assert.True(t, hit)
}

func TestDetect_RecognizesJustAMoment(t *testing.T) {
	hit, marker := captcha.Detect(`<html><body><p>Just a moment...</p></body></html>`)
	assert.True(t, hit)
	assert.Equal(t, "just a moment", marker)
}

func TestDetect_NoMarkerOnOrdinaryPage(t *testing.T) {
	hit, marker := captcha.Detect(`<html><body><h1>Contact us</h1><p>info@acme.se</p></body></html>`)
	assert.False(t, hit)
	assert.Empty(t, marker)
}

package extract_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northfield/contactcrawl/internal/extract"
)

func TestExtract_MailtoAndFooterAndInline(t *testing.T) {
	html := `<html><body>
		<a href="mailto:sales@acme.se">Email sales</a>
		<footer><a href="mailto:support@acme.se?subject=hi">Support</a></footer>
		<p>Reach us at hello@acme.se anytime.</p>
		<a href="tel:+46812345678">Call</a>
	</body></html>`

	result, phones := extract.Extract(html, "https://acme.se/contact")

	emails := make(map[string]string)
	for _, ev := range result.Emails {
		emails[ev.Email] = ev.Source
	}

	assert.Equal(t, extract.DiscoveryMailto, emails["sales@acme.se"])
	assert.Equal(t, extract.DiscoveryFooter, emails["support@acme.se"])
	assert.Equal(t, extract.DiscoveryInline, emails["hello@acme.se"])
	assert.Contains(t, phones, "+46812345678")
}

func TestExtract_JSONLDOverridesAndSocials(t *testing.T) {
	html := `<html><body>
		<script type="application/ld+json">
		{"@type":"Organization","email":"info@acme.se","telephone":"+46812345678",
		 "sameAs":["https://www.linkedin.com/company/acme","https://facebook.com/acme"]}
		</script>
	</body></html>`

	result, phones := extract.Extract(html, "https://acme.se/")

	require.Len(t, result.Emails, 1)
	assert.Equal(t, "info@acme.se", result.Emails[0].Email)
	assert.Equal(t, extract.DiscoveryJSONLD, result.Emails[0].Source)
	assert.Contains(t, phones, "+46812345678")
	assert.Contains(t, result.Socials.LinkedIn, "linkedin.com")
	assert.Contains(t, result.Socials.Facebook, "facebook.com")
}

func TestExtract_DedupesWithinSinglePage(t *testing.T) {
	html := `<html><body>
		<a href="mailto:dup@acme.se">a</a>
		<a href="mailto:dup@acme.se">b</a>
	</body></html>`

	result, _ := extract.Extract(html, "https://acme.se/")
	assert.Len(t, result.Emails, 1)
}

func TestExtract_RejectsJunkEmailsDuringCleaning(t *testing.T) {
	html := `<a href="mailto:test@example.com">junk</a>`

	result, _ := extract.Extract(html, "https://acme.se/")
	assert.Empty(t, result.Emails)
}

func TestExtract_DotComHostDoesNotFalselyMatchContactPath(t *testing.T) {
	html := `<p>Reach us at hello@acme.com anytime.</p>`

	result, _ := extract.Extract(html, "https://acme.com/pricing")

	require.Len(t, result.Emails, 1)
	assert.Equal(t, extract.DiscoveryInline, result.Emails[0].Source)
	assert.InDelta(t, 0.50, result.Emails[0].Confidence, 0.001)
}

func TestExtract_ContactPathOnDotComHostIsContactLike(t *testing.T) {
	html := `<p>Reach us at hello@acme.com anytime.</p>`

	result, _ := extract.Extract(html, "https://acme.com/contact")

	require.Len(t, result.Emails, 1)
	assert.InDelta(t, 0.70, result.Emails[0].Confidence, 0.001)
}

func TestDiscoverContactPages_SameHostAndCapped(t *testing.T) {
	html := `<html><body>
		<a href="/kontakt">Kontakt</a>
		<a href="/om-oss">Om oss</a>
		<a href="https://evil.example.com/kontakt">External contact</a>
		<a href="/random">Random</a>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	pages := extract.DiscoverContactPages(doc, "acme.se")
	assert.Contains(t, pages, "/kontakt")
	assert.Contains(t, pages, "/om-oss")
	assert.NotContains(t, pages, "https://evil.example.com/kontakt")
}

package compose

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamhuhhg/XActions/internal/browser"
	"github.com/hamhuhhg/XActions/internal/browser/browsertest"
)

func newVerifier(pg *browsertest.Page) *Verifier {
	return NewVerifier(pg, zerolog.Nop()).WithSettle(time.Millisecond)
}

func TestVerifyFailsWhenTextRemains(t *testing.T) {
	pg := browsertest.New()
	pg.Add(InputSelector, "composer", &browsertest.Element{TextValue: "hello world"})

	res := newVerifier(pg).Verify(context.Background(), "hello world")
	assert.False(t, res.Succeeded)
	assert.NotEmpty(t, res.Diagnostic, "failure always carries a diagnostic")
}

func TestVerifyFailsWhenAriaVariantHoldsText(t *testing.T) {
	// Some surfaces render only the aria-label composer; the verifier has
	// to re-check every candidate it is handed, not just the testid one.
	pg := browsertest.New()
	pg.Add(InputAriaSelector, "composer", &browsertest.Element{TextValue: "sticky reply"})

	res := newVerifier(pg).
		WithCandidates(InputSelector, InputAriaSelector).
		Verify(context.Background(), "sticky reply")
	assert.False(t, res.Succeeded)
	assert.NotEmpty(t, res.Diagnostic)
}

func TestVerifySucceedsWhenComposerGone(t *testing.T) {
	pg := browsertest.New()
	res := newVerifier(pg).Verify(context.Background(), "hello world")
	assert.True(t, res.Succeeded)
	assert.Empty(t, res.ResultID)
}

func TestVerifySucceedsWhenComposerCleared(t *testing.T) {
	pg := browsertest.New()
	pg.Add(InputSelector, "composer", &browsertest.Element{TextValue: ""})

	res := newVerifier(pg).Verify(context.Background(), "hello world")
	assert.True(t, res.Succeeded)
}

func TestVerifySucceedsWhenComposerHoldsDifferentText(t *testing.T) {
	pg := browsertest.New()
	pg.Add(InputSelector, "composer", &browsertest.Element{TextValue: "a new draft"})

	res := newVerifier(pg).Verify(context.Background(), "hello world")
	assert.True(t, res.Succeeded)
}

func TestVerifyExtractsStatusIDFromToast(t *testing.T) {
	pg := browsertest.New()
	link := &browsertest.Element{Attrs: map[string]string{
		"href": "https://x.com/someone/status/1234567890/photo/1",
	}}
	pg.Add(ToastSelector, "toast", &browsertest.Element{
		Children: map[string][]browser.Element{
			StatusLinkSelector: {link},
		},
	})

	res := newVerifier(pg).Verify(context.Background(), "posted text")
	require.True(t, res.Succeeded)
	assert.Equal(t, "1234567890", res.ResultID)
}

func TestVerifyMissingToastDoesNotDowngradeSuccess(t *testing.T) {
	pg := browsertest.New()
	res := newVerifier(pg).Verify(context.Background(), "posted text")
	assert.True(t, res.Succeeded)
	assert.Empty(t, res.ResultID)
}

func TestStatusIDFromURL(t *testing.T) {
	cases := []struct {
		href string
		want string
	}{
		{"https://x.com/u/status/42", "42"},
		{"https://x.com/u/status/42/photo/1", "42"},
		{"/u/status/99?s=20", "99"},
		{"https://x.com/u/status/7#replies", "7"},
		{"https://x.com/u/with_replies", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, StatusIDFromURL(tc.href), "href=%q", tc.href)
	}
}

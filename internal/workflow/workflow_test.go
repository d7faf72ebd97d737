package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamhuhhg/XActions/internal/browser"
	"github.com/hamhuhhg/XActions/internal/browser/browsertest"
	"github.com/hamhuhhg/XActions/internal/compose"
	"github.com/hamhuhhg/XActions/internal/report"
)

type fakeSession struct {
	pg     *browsertest.Page
	base   string
	closes int
}

func (f *fakeSession) Page() browser.Page { return f.pg }
func (f *fakeSession) BaseURL() string    { return f.base }
func (f *fakeSession) Close()             { f.closes++ }

func testEngine(sess *fakeSession) (*Engine, *[]bool) {
	var headlessCalls []bool
	open := func(ctx context.Context, headless bool) (Session, error) {
		headlessCalls = append(headlessCalls, headless)
		return sess, nil
	}
	e := New(open, zerolog.Nop()).WithTuning(fastTuning())
	return e, &headlessCalls
}

func fastTuning() Tuning {
	ms := time.Millisecond
	return Tuning{
		Compose: compose.Tuning{
			PollInterval:  ms,
			InputMaxWait:  5 * ms,
			SubmitMaxWait: 5 * ms,
			ComposerOpen:  ms,
			Debounce:      ms,
			AfterText:     ms,
			UploadWait:    ms,
			CardWait:      ms,
		},
		VerifySettle:   ms,
		HomeSettle:     ms,
		ProfileSettle:  ms,
		ReplyNavSettle: ms,
		QuoteNavSettle: ms,
		BrowseWake:     5 * ms,
	}
}

func newHomeSession(base string) *fakeSession {
	pg := browsertest.New()
	pg.URLValue = base + "/home"
	return &fakeSession{pg: pg, base: base}
}

func TestCheckSuspendedOnHomeSurface(t *testing.T) {
	sess := newHomeSession("https://x.com")
	sess.pg.Body = "Home\nAccount suspended\nX suspends accounts that violate the X Rules"
	e, headless := testEngine(sess)

	rec := e.Check(context.Background(), "lockedacct")
	require.IsType(t, report.CheckRecord{}, rec)
	got := rec.(report.CheckRecord)
	assert.True(t, got.Success)
	assert.Equal(t, "lockedacct", got.Username)
	assert.True(t, got.IsSuspended)
	assert.False(t, got.DoesNotExist)

	// Home surface fired, so the profile was never visited.
	assert.Empty(t, sess.pg.NavigatedTo)
	assert.Equal(t, 1, sess.closes, "session torn down exactly once")
	assert.Equal(t, []bool{true}, *headless, "checks run headless")
}

func TestCheckNonexistentOnProfileSurface(t *testing.T) {
	sess := newHomeSession("https://x.com")
	sess.pg.Body = "Home\nFor you\nFollowing"
	sess.pg.BodyByURL = map[string]string{
		"https://x.com/ghost": "Something went wrong, but don’t fret — let’s give it another shot.",
	}
	e, _ := testEngine(sess)

	rec := e.Check(context.Background(), "@ghost")
	got := rec.(report.CheckRecord)
	assert.True(t, got.Success)
	assert.Equal(t, "ghost", got.Username, "leading @ stripped")
	assert.False(t, got.IsSuspended)
	assert.True(t, got.DoesNotExist)
	assert.Equal(t, []string{"https://x.com/ghost"}, sess.pg.NavigatedTo)
	assert.Equal(t, 1, sess.closes)
}

func TestCheckRedirectWall(t *testing.T) {
	sess := newHomeSession("https://x.com")
	sess.pg.URLValue = "https://x.com/account/access"
	sess.pg.Body = "Verify your identity"
	e, _ := testEngine(sess)

	got := e.Check(context.Background(), "walled").(report.CheckRecord)
	assert.True(t, got.IsSuspended)
	assert.False(t, got.DoesNotExist)
}

func TestCheckProfileReportsBothFlags(t *testing.T) {
	sess := newHomeSession("https://x.com")
	sess.pg.Body = "Home"
	sess.pg.BodyByURL = map[string]string{
		"https://x.com/odd": "Account suspended\nThis account doesn't exist",
	}
	e, _ := testEngine(sess)

	got := e.Check(context.Background(), "odd").(report.CheckRecord)
	assert.True(t, got.IsSuspended)
	assert.True(t, got.DoesNotExist, "profile surface surfaces both scans")
}

func TestCheckOpenFailure(t *testing.T) {
	open := func(ctx context.Context, headless bool) (Session, error) {
		return nil, errors.New("no chromium")
	}
	e := New(open, zerolog.Nop()).WithTuning(fastTuning())

	rec := e.Check(context.Background(), "anyone")
	require.IsType(t, report.FailureRecord{}, rec)
	got := rec.(report.FailureRecord)
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "Failed to initialize browser")
}

func TestPostSuccessWithoutToast(t *testing.T) {
	sess := newHomeSession("https://x.com")
	input := &browsertest.Element{}
	submit := &browsertest.Element{}
	sess.pg.OnQuery = func(selector string, count int) (browser.Element, error) {
		switch selector {
		case compose.InputSelector:
			// Present for composition, cleared by submission: the element
			// holds no text when the verifier re-reads it.
			return input, nil
		case compose.SubmitModalSelector:
			return submit, nil
		}
		return nil, nil
	}
	e, headless := testEngine(sess)

	rec := e.Post(context.Background(), "hello world", "")
	require.IsType(t, report.PostRecord{}, rec)
	got := rec.(report.PostRecord)
	assert.True(t, got.Success)
	assert.Equal(t, "Tweet posted successfully", got.Message)
	assert.Nil(t, got.TweetID, "no toast means a null id, still a success")
	assert.Equal(t, []string{"hello world"}, input.Typed)
	assert.Equal(t, 1, sess.closes)
	assert.Equal(t, []bool{false}, *headless, "composer actions run headed")
}

func TestPostVerifierDetectsFailure(t *testing.T) {
	sess := newHomeSession("https://x.com")
	input := &browsertest.Element{}
	sess.pg.OnQuery = func(selector string, count int) (browser.Element, error) {
		switch selector {
		case compose.InputSelector:
			// The composer never clears: typing leaves the payload in the
			// element the verifier re-reads.
			input.TextValue = "sticky text"
			return input, nil
		case compose.SubmitModalSelector:
			return &browsertest.Element{}, nil
		}
		return nil, nil
	}
	e, _ := testEngine(sess)

	rec := e.Post(context.Background(), "sticky text", "")
	require.IsType(t, report.FailureRecord{}, rec)
	assert.Contains(t, rec.(report.FailureRecord).Error, "text remains in composer")
	assert.Equal(t, 1, sess.closes, "failure path still tears the session down")
}

func TestPostComposerNeverAppears(t *testing.T) {
	sess := newHomeSession("https://x.com")
	e, _ := testEngine(sess)

	rec := e.Post(context.Background(), "void", "")
	require.IsType(t, report.FailureRecord{}, rec)
	assert.Equal(t, "Failed to find tweet composer textarea.", rec.(report.FailureRecord).Error)
}

func TestReplyToDeletedPost(t *testing.T) {
	sess := newHomeSession("https://x.com")
	errorSurface := &browsertest.Element{TextValue: "Hmm...this page doesn’t exist."}
	sess.pg.OnQuery = func(selector string, count int) (browser.Element, error) {
		if selector == errorContainerSelector {
			return errorSurface, nil
		}
		return nil, nil
	}
	e, _ := testEngine(sess)

	rec := e.Reply(context.Background(), "https://x.com/u/status/404", "hi", "")
	require.IsType(t, report.FailureRecord{}, rec)
	got := rec.(report.FailureRecord)
	assert.False(t, got.Success)
	assert.Equal(t, "Target tweet exists but is an error page (e.g. deleted or protected).", got.Error)
	assert.Equal(t, 1, sess.closes)
}

func TestReplySuccess(t *testing.T) {
	sess := newHomeSession("https://x.com")
	input := &browsertest.Element{}
	submit := &browsertest.Element{}
	toastLink := &browsertest.Element{Attrs: map[string]string{
		"href": "https://x.com/me/status/555",
	}}
	toast := &browsertest.Element{Children: map[string][]browser.Element{
		compose.StatusLinkSelector: {toastLink},
	}}
	sess.pg.OnQuery = func(selector string, count int) (browser.Element, error) {
		switch selector {
		case compose.InputSelector:
			return input, nil
		case compose.SubmitInlineSelector:
			return submit, nil
		case compose.ToastSelector:
			return toast, nil
		}
		return nil, nil
	}
	e, _ := testEngine(sess)

	rec := e.Reply(context.Background(), "https://x.com/u/status/7", "good point", "")
	require.IsType(t, report.ReplyRecord{}, rec)
	got := rec.(report.ReplyRecord)
	assert.True(t, got.Success)
	require.NotNil(t, got.ReplyID)
	assert.Equal(t, "555", *got.ReplyID)
	assert.Equal(t, []string{"https://x.com/u/status/7"}, sess.pg.NavigatedTo)
}

func TestReplyFailureDetectedOnAriaVariantComposer(t *testing.T) {
	// The reply surface sometimes renders only the aria-label composer.
	// When the draft never clears there, the flow must report failure,
	// not let the verifier miss the variant and claim success.
	sess := newHomeSession("https://x.com")
	input := &browsertest.Element{TextValue: "sticky reply"}
	sess.pg.OnQuery = func(selector string, count int) (browser.Element, error) {
		if selector == compose.InputAriaSelector {
			return input, nil
		}
		return nil, nil
	}
	e, _ := testEngine(sess)

	rec := e.Reply(context.Background(), "https://x.com/u/status/7", "sticky reply", "")
	require.IsType(t, report.FailureRecord{}, rec)
	got := rec.(report.FailureRecord)
	assert.Equal(t, "Reply button clicked, but text remained in composer. Reply likely failed.", got.Error)
	assert.Equal(t, 1, sess.closes)
}

func TestQuoteEntrySequenceEndToEnd(t *testing.T) {
	sess := newHomeSession("https://x.com")
	input := &browsertest.Element{}
	submit := &browsertest.Element{}
	sess.pg.OnQuery = func(selector string, count int) (browser.Element, error) {
		switch selector {
		case compose.InputSelector:
			return input, nil
		case compose.SubmitModalSelector:
			return submit, nil
		}
		return nil, nil
	}
	e, _ := testEngine(sess)

	rec := e.Quote(context.Background(), "https://x.com/u/status/42", "look at this", "")
	require.IsType(t, report.QuoteRecord{}, rec)
	got := rec.(report.QuoteRecord)
	assert.True(t, got.Success)
	assert.Equal(t, "Quote posted successfully", got.Message)

	// The intent page was used, then the newline pair preceded the URL and
	// a standalone space followed it.
	assert.Equal(t, []string{"https://x.com/compose/tweet"}, sess.pg.NavigatedTo)
	events := sess.pg.EventLog()
	down := indexOf(events, "keydown:Enter")
	up := indexOf(events, "keyup:Enter")
	space := indexOf(events, "press:Space")
	require.GreaterOrEqual(t, down, 0)
	require.Greater(t, up, down)
	require.Greater(t, space, up)
	assert.Equal(t, []string{"look at this", "https://x.com/u/status/42"}, input.Typed)
}

func TestGuardConvertsPanics(t *testing.T) {
	open := func(ctx context.Context, headless bool) (Session, error) {
		panic("driver exploded")
	}
	e := New(open, zerolog.Nop()).WithTuning(fastTuning())

	rec := e.Post(context.Background(), "text", "")
	require.IsType(t, report.FailureRecord{}, rec)
	assert.Contains(t, rec.(report.FailureRecord).Error, "driver exploded")
}

func TestBrowseIdlesUntilCancelled(t *testing.T) {
	sess := newHomeSession("https://x.com")
	e, headless := testEngine(sess)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := e.Browse(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []bool{false}, *headless, "interactive mode is headed")
	assert.Equal(t, 1, sess.closes)
}

func indexOf(events []string, event string) int {
	for i, ev := range events {
		if ev == event {
			return i
		}
	}
	return -1
}

package locate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamhuhhg/XActions/internal/browser"
	"github.com/hamhuhhg/XActions/internal/browser/browsertest"
)

func TestFindReturnsImmediatelyOnMatch(t *testing.T) {
	pg := browsertest.New()
	want := pg.Add("#target", "target", &browsertest.Element{})

	spec := NewSpec("#target").WithBudget(50*time.Millisecond, 5*time.Second)
	start := time.Now()
	el, ok := Find(context.Background(), pg, spec)
	elapsed := time.Since(start)

	require.True(t, ok)
	assert.Same(t, browser.Element(want), el)
	assert.Less(t, elapsed, 50*time.Millisecond, "match must not wait out the budget")
	assert.Equal(t, 1, pg.QueryCount("#target"))
}

func TestFindExhaustsBudgetWhenNothingMatches(t *testing.T) {
	pg := browsertest.New()

	interval := 10 * time.Millisecond
	maxWait := 50 * time.Millisecond
	spec := NewSpec("#missing").WithBudget(interval, maxWait)

	start := time.Now()
	el, ok := Find(context.Background(), pg, spec)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Nil(t, el)
	assert.GreaterOrEqual(t, elapsed, maxWait, "not-found arrives at timeout")
	assert.Less(t, elapsed, maxWait+4*interval, "timeout overshoot stays within an interval or so")
	assert.Equal(t, spec.Attempts(), pg.QueryCount("#missing"))
}

func TestFindTriesCandidatesInDeclaredOrder(t *testing.T) {
	pg := browsertest.New()
	first := pg.Add("#a", "a", &browsertest.Element{})
	pg.Add("#b", "b", &browsertest.Element{})

	el, ok := Find(context.Background(), pg, NewSpec("#a", "#b"))
	require.True(t, ok)
	assert.Same(t, browser.Element(first), el)
	// First candidate matched, so the second is never queried.
	assert.Equal(t, 0, pg.QueryCount("#b"))
}

func TestFindSwallowsQueryErrors(t *testing.T) {
	pg := browsertest.New()
	pg.QueryErrs["#flaky"] = errors.New("node detached")
	want := pg.Add("#stable", "stable", &browsertest.Element{})

	el, ok := Find(context.Background(), pg, NewSpec("#flaky", "#stable"))
	require.True(t, ok)
	assert.Same(t, browser.Element(want), el)
}

func TestFindPicksUpLateArrival(t *testing.T) {
	pg := browsertest.New()
	late := &browsertest.Element{}
	pg.OnQuery = func(selector string, count int) (browser.Element, error) {
		if count >= 3 {
			return late, nil
		}
		return nil, nil
	}

	spec := NewSpec("#late").WithBudget(5*time.Millisecond, 100*time.Millisecond)
	el, ok := Find(context.Background(), pg, spec)
	require.True(t, ok)
	assert.Same(t, browser.Element(late), el)
	assert.Equal(t, 3, pg.QueryCount("#late"))
}

func TestFindStopsOnContextCancel(t *testing.T) {
	pg := browsertest.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spec := NewSpec("#missing").WithBudget(10*time.Millisecond, time.Hour)
	start := time.Now()
	_, ok := Find(ctx, pg, spec)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAttempts(t *testing.T) {
	cases := []struct {
		name     string
		interval time.Duration
		maxWait  time.Duration
		want     int
	}{
		{"even division", 500 * time.Millisecond, 5 * time.Second, 10},
		{"rounds up", 300 * time.Millisecond, time.Second, 4},
		{"at least one", time.Second, 10 * time.Millisecond, 1},
		{"zero values use defaults", 0, 0, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := Spec{Candidates: []string{"x"}, Interval: tc.interval, MaxWait: tc.maxWait}
			assert.Equal(t, tc.want, spec.Attempts())
		})
	}
}

func TestSleepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, Sleep(ctx, time.Hour))
	assert.True(t, Sleep(context.Background(), time.Millisecond))
}

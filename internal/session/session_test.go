package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glabrego/feedsync/internal/feedapi"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newSession() *Session {
	return New(func() time.Time { return fixedNow })
}

func snapshot(title string, bodies ...string) feedapi.FeedSnapshot {
	snap := feedapi.FeedSnapshot{Title: title}
	for _, b := range bodies {
		snap.Items = append(snap.Items, feedapi.FeedItem{Title: "item", Description: b})
	}
	return snap
}

func TestSucceed_RendersSanitizedBodies(t *testing.T) {
	s := newSession()
	ticket := s.Begin("https://a.example/rss")
	require.Equal(t, PhaseLoading, s.Phase())

	ok := s.Succeed(ticket, snapshot("A", `<p style="color:red">x</p>`))
	require.True(t, ok)

	assert.Equal(t, PhaseRendered, s.Phase())
	assert.Equal(t, "A", s.Snapshot().Title)
	assert.Equal(t, []string{`<p data-theme="auto">x</p>`}, s.Bodies())
	assert.Equal(t, fixedNow, s.RenderedAt())
}

func TestLastSelectionWins(t *testing.T) {
	s := newSession()
	first := s.Begin("A")
	second := s.Begin("B")

	assert.True(t, s.Succeed(second, snapshot("B")))
	assert.False(t, s.Succeed(first, snapshot("A")))

	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "B", selected)
	assert.Equal(t, "B", s.Snapshot().Title)
}

func TestStaleFailureDoesNotTouchPane(t *testing.T) {
	s := newSession()
	first := s.Begin("A")
	second := s.Begin("B")
	require.True(t, s.Succeed(second, snapshot("B")))

	assert.False(t, s.Fail(first, errors.New("boom")))
	assert.Equal(t, PhaseRendered, s.Phase())
	assert.NoError(t, s.Err())
}

func TestReselectSameURLSupersedesEarlierLoad(t *testing.T) {
	s := newSession()
	first := s.Begin("A")
	second := s.Begin("A")

	assert.False(t, s.Current(first))
	assert.True(t, s.Current(second))
	assert.False(t, s.Succeed(first, snapshot("old")))
	assert.True(t, s.Succeed(second, snapshot("new")))
	assert.Equal(t, "new", s.Snapshot().Title)
}

func TestTimedOut_OnlyWhileLoading(t *testing.T) {
	s := newSession()
	ticket := s.Begin("A")

	assert.True(t, s.TimedOut(ticket))
	assert.True(t, s.Slow())

	require.True(t, s.Succeed(ticket, snapshot("A")))
	assert.False(t, s.Slow())
	assert.False(t, s.TimedOut(ticket))
}

func TestTimedOut_StaleWatchdogIgnored(t *testing.T) {
	s := newSession()
	old := s.Begin("A")
	s.Begin("B")

	assert.False(t, s.TimedOut(old))
	assert.False(t, s.Slow())
}

func TestFail_SetsErrorPhase(t *testing.T) {
	s := newSession()
	ticket := s.Begin("A")
	require.True(t, s.TimedOut(ticket))

	require.True(t, s.Fail(ticket, errors.New("boom")))
	assert.Equal(t, PhaseFailed, s.Phase())
	assert.False(t, s.Slow())
	assert.EqualError(t, s.Err(), "boom")
}

func TestApplyNormalized_RequiresCurrentRender(t *testing.T) {
	s := newSession()
	ticket := s.Begin("A")
	require.True(t, s.Succeed(ticket, snapshot("A", "<p>x</p>")))

	assert.False(t, s.ApplyNormalized(ticket, []string{"a", "b"}))
	assert.True(t, s.ApplyNormalized(ticket, []string{"<p>y</p>"}))
	assert.Equal(t, []string{"<p>y</p>"}, s.Bodies())

	next := s.Begin("B")
	assert.False(t, s.ApplyNormalized(ticket, []string{"<p>z</p>"}))
	assert.True(t, s.Succeed(next, snapshot("B")))
}

func TestClear_ResetsAndInvalidatesInFlight(t *testing.T) {
	s := newSession()
	ticket := s.Begin("A")
	s.Clear()

	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.False(t, s.Succeed(ticket, snapshot("A")))
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestEmptySnapshotRenders(t *testing.T) {
	s := newSession()
	ticket := s.Begin("A")
	require.True(t, s.Succeed(ticket, feedapi.FeedSnapshot{Title: "A"}))
	assert.Empty(t, s.Bodies())
	assert.Equal(t, PhaseRendered, s.Phase())
}

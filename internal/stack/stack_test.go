package stack_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurora-ide/aurora-notify/internal/eventloop"
	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

const cardHeight = 80

// recorder is a Renderer that records calls. When holdExits is set, exit
// completions are queued instead of running immediately.
type recorder struct {
	holdExits bool
	mounted   []string
	unmounted []string
	exits     map[string]func()
	exitCalls map[string]int
	heights   []int
}

func newRecorder() *recorder {
	return &recorder{exits: map[string]func(){}, exitCalls: map[string]int{}}
}

func (r *recorder) Mount(c *stack.Card) { r.mounted = append(r.mounted, c.ID) }
func (r *recorder) Update(*stack.Card) {}
func (r *recorder) Unmount(c *stack.Card) { r.unmounted = append(r.unmounted, c.ID) }
func (r *recorder) Height(*stack.Card) int { return cardHeight }
func (r *recorder) Resize(h int) { r.heights = append(r.heights, h) }

func (r *recorder) Exit(c *stack.Card, done func()) {
	r.exitCalls[c.ID]++
	if r.holdExits {
		r.exits[c.ID] = done
		return
	}
	done()
}

func (r *recorder) finishExit(id string) {
	if done, ok := r.exits[id]; ok {
		delete(r.exits, id)
		done()
	}
}

type closed struct {
	id     string
	reason model.CloseReason
}

func newStack(t *testing.T, opts stack.Options) (*stack.Stack, *eventloop.Manual, *recorder, *[]closed) {
	t.Helper()
	clock := eventloop.NewManual(epoch)
	view := newRecorder()
	s := stack.New(clock, view, opts, nil)
	var events []closed
	s.OnClosed(func(c *stack.Card, reason model.CloseReason) {
		events = append(events, closed{id: c.ID, reason: reason})
	})
	return s, clock, view, &events
}

func ids(s *stack.Stack) []string {
	var out []string
	for _, c := range s.Cards() {
		out = append(out, c.ID)
	}
	return out
}

func TestDefaultOptions(t *testing.T) {
	opts := stack.DefaultOptions()
	assert.Equal(t, 3, opts.MaxVisible)
	assert.Equal(t, 12, opts.Gap)
	assert.Equal(t, 5*time.Second, opts.DefaultDuration)
	assert.True(t, opts.PauseOnHover)
}

func TestShow_NewestFirstWithContiguousIndices(t *testing.T) {
	s, _, view, _ := newStack(t, stack.DefaultOptions())

	a := s.Show("first", model.SeverityInfo, 0)
	b := s.Show("second", model.SeverityInfo, 0)
	c := s.Show("third", model.SeverityInfo, 0)

	assert.Equal(t, []string{c, b, a}, ids(s))
	for i, card := range s.Cards() {
		assert.Equal(t, i, card.Index())
	}
	assert.Equal(t, []string{a, b, c}, view.mounted)
}

func TestShow_EntersThenBecomesVisibleNextFrame(t *testing.T) {
	s, clock, _, _ := newStack(t, stack.DefaultOptions())

	id := s.Show("hello", model.SeveritySuccess, 0)
	card := s.Card(id)
	require.NotNil(t, card)
	assert.Equal(t, model.StateEntering, card.State())

	clock.Flush()
	assert.Equal(t, model.StateVisible, card.State())
}

func TestShow_DefaultsAndFallbacks(t *testing.T) {
	s, _, _, _ := newStack(t, stack.DefaultOptions())

	tests := []struct {
		name         string
		severity     model.Severity
		duration     time.Duration
		wantSeverity model.Severity
		wantTotal    time.Duration
	}{
		{"explicit", model.SeverityError, 2 * time.Second, model.SeverityError, 2 * time.Second},
		{"zero duration", model.SeverityWarning, 0, model.SeverityWarning, 5 * time.Second},
		{"negative duration", model.SeveritySuccess, -time.Second, model.SeveritySuccess, 5 * time.Second},
		{"unknown severity", model.Severity("fatal"), time.Second, model.SeverityInfo, time.Second},
		{"empty severity", "", time.Second, model.SeverityInfo, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := s.Card(s.Show("msg", tt.severity, tt.duration))
			require.NotNil(t, card)
			assert.Equal(t, tt.wantSeverity, card.Severity)
			assert.Equal(t, tt.wantTotal, card.Total)
			assert.Equal(t, tt.wantTotal, card.Remaining())
		})
	}
}

func TestShow_EscapesPlainText(t *testing.T) {
	s, _, _, _ := newStack(t, stack.DefaultOptions())

	card := s.Card(s.Show("<b>x</b> & y", model.SeverityInfo, 0))
	assert.Equal(t, "&lt;b&gt;x&lt;/b&gt; &amp; y", card.Message)
	assert.Equal(t, "<b>x</b> & y", card.Text())
}

func TestShowMarkup_Sanitizes(t *testing.T) {
	s, _, _, _ := newStack(t, stack.DefaultOptions())

	card := s.Card(s.ShowMarkup(`<b onclick="x()">saved</b><script>evil()</script>`, model.SeverityInfo, 0))
	assert.Equal(t, "<b>saved</b>", card.Message)
	assert.Equal(t, "saved", card.Text())
}

func TestPush_KeepsProvidedID(t *testing.T) {
	s, _, _, _ := newStack(t, stack.DefaultOptions())

	id := s.Push(stack.Notification{ID: "fixed", Message: "x"})
	assert.Equal(t, "fixed", id)
	assert.NotNil(t, s.Card("fixed"))
}

func TestPush_DuplicateIDGetsFreshOne(t *testing.T) {
	s, clock, _, events := newStack(t, stack.DefaultOptions())

	first := s.Push(stack.Notification{ID: "fixed", Message: "first", Duration: time.Minute})
	second := s.Push(stack.Notification{ID: "fixed", Message: "second", Duration: time.Minute})

	require.Equal(t, "fixed", first)
	require.NotEqual(t, "fixed", second)
	require.Len(t, s.Cards(), 2)
	assert.Equal(t, "first", s.Card(first).Text())
	assert.Equal(t, "second", s.Card(second).Text())

	// Each id reaches exactly one card.
	s.Dismiss(first)
	clock.Flush()
	require.Len(t, s.Cards(), 1)
	assert.Equal(t, second, s.Cards()[0].ID)
	require.Len(t, *events, 1)
	assert.Equal(t, first, (*events)[0].id)
}

func TestExpiry_RemovesAfterDuration(t *testing.T) {
	s, clock, view, events := newStack(t, stack.DefaultOptions())

	id := s.Show("bye", model.SeverityInfo, 2*time.Second)
	clock.Advance(1999 * time.Millisecond)
	assert.Equal(t, 1, s.Len())

	clock.Advance(time.Millisecond)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{id}, view.unmounted)
	assert.Equal(t, []closed{{id, model.CloseReasonExpired}}, *events)
}

func TestExpiry_DefaultDuration(t *testing.T) {
	s, clock, _, _ := newStack(t, stack.DefaultOptions())

	s.Show("bye", model.SeverityInfo, 0)
	clock.Advance(4999 * time.Millisecond)
	assert.Equal(t, 1, s.Len())
	clock.Advance(time.Millisecond)
	assert.Equal(t, 0, s.Len())
}

func TestPauseResume_PreservesRemaining(t *testing.T) {
	s, clock, view, _ := newStack(t, stack.DefaultOptions())
	view.holdExits = true

	id := s.Show("hover me", model.SeverityInfo, 5*time.Second)
	card := s.Card(id)

	clock.Advance(2 * time.Second)
	s.Pause(id)
	assert.Equal(t, model.StatePaused, card.State())
	assert.Equal(t, 3*time.Second, card.Remaining())
	assert.False(t, card.Running())

	// Time spent hovering does not count.
	clock.Advance(time.Minute)
	assert.Equal(t, model.StatePaused, card.State())
	assert.Equal(t, 3*time.Second, card.RemainingAt(clock.Now()))

	s.Resume(id)
	assert.Equal(t, model.StateVisible, card.State())
	assert.True(t, card.Running())

	clock.Advance(2999 * time.Millisecond)
	assert.Equal(t, model.StateVisible, card.State())
	clock.Advance(time.Millisecond)
	assert.Equal(t, model.StateExiting, card.State())
}

func TestPauseResume_ProgressFreezesAndContinues(t *testing.T) {
	s, clock, _, _ := newStack(t, stack.DefaultOptions())

	id := s.Show("bar", model.SeverityInfo, 4*time.Second)
	card := s.Card(id)
	assert.InDelta(t, 1.0, card.Progress().At(clock.Now()), 1e-9)

	clock.Advance(time.Second)
	assert.InDelta(t, 0.75, card.Progress().At(clock.Now()), 1e-9)

	s.Pause(id)
	assert.True(t, card.Progress().Frozen())
	clock.Advance(10 * time.Second)
	assert.InDelta(t, 0.75, card.Progress().At(clock.Now()), 1e-9)

	s.Resume(id)
	p := card.Progress()
	assert.InDelta(t, 0.75, p.From, 1e-9)
	assert.Equal(t, 3*time.Second, p.Duration)

	clock.Advance(1500 * time.Millisecond)
	assert.InDelta(t, 0.375, card.Progress().At(clock.Now()), 1e-9)
}

func TestPause_DuringEntering(t *testing.T) {
	s, clock, _, _ := newStack(t, stack.DefaultOptions())

	id := s.Show("fast hover", model.SeverityInfo, time.Second)
	s.Pause(id)
	clock.Flush()

	card := s.Card(id)
	assert.Equal(t, model.StatePaused, card.State())

	clock.Advance(time.Hour)
	assert.Equal(t, 1, s.Len())
}

func TestPauseResume_Disabled(t *testing.T) {
	opts := stack.DefaultOptions()
	opts.PauseOnHover = false
	s, clock, _, _ := newStack(t, opts)

	id := s.Show("no pause", model.SeverityInfo, time.Second)
	s.Pause(id)
	assert.NotEqual(t, model.StatePaused, s.Card(id).State())

	clock.Advance(time.Second)
	assert.Equal(t, 0, s.Len())
}

func TestPauseResume_IgnoredInWrongState(t *testing.T) {
	s, clock, view, _ := newStack(t, stack.DefaultOptions())
	view.holdExits = true

	id := s.Show("x", model.SeverityInfo, time.Second)
	clock.Flush()
	card := s.Card(id)

	s.Resume(id)
	assert.Equal(t, model.StateVisible, card.State())

	s.Dismiss(id)
	s.Pause(id)
	assert.Equal(t, model.StateExiting, card.State())
	s.Resume(id)
	assert.Equal(t, model.StateExiting, card.State())

	s.Pause("unknown")
	s.Resume("unknown")
}

func TestDismiss_IsOneShot(t *testing.T) {
	s, clock, view, events := newStack(t, stack.DefaultOptions())
	view.holdExits = true

	id := s.Show("x", model.SeverityInfo, time.Second)
	s.Dismiss(id)
	s.Dismiss(id)
	s.Close(id)

	// The expiry timer was cancelled by the dismissal.
	clock.Advance(time.Minute)

	assert.Equal(t, 1, view.exitCalls[id])
	assert.Equal(t, model.StateExiting, s.Card(id).State())
	assert.Empty(t, *events)

	view.finishExit(id)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []closed{{id, model.CloseReasonDismissed}}, *events)
}

func TestDismiss_ExitCompletionIsOneShot(t *testing.T) {
	s, _, view, events := newStack(t, stack.DefaultOptions())

	var done func()
	view.holdExits = true
	id := s.Show("x", model.SeverityInfo, time.Second)
	s.Dismiss(id)
	done = view.exits[id]
	require.NotNil(t, done)

	done()
	done()
	assert.Len(t, *events, 1)
	assert.Equal(t, []string{id}, view.unmounted)
}

func TestClose_ReportsProgrammaticReason(t *testing.T) {
	s, _, _, events := newStack(t, stack.DefaultOptions())

	id := s.Show("x", model.SeverityInfo, time.Second)
	s.Close(id)
	assert.Equal(t, []closed{{id, model.CloseReasonClosed}}, *events)
}

func TestRemove_Idempotent(t *testing.T) {
	s, _, view, events := newStack(t, stack.DefaultOptions())

	id := s.Show("x", model.SeverityInfo, time.Second)
	s.Remove(id)
	s.Remove(id)
	s.Remove("never-existed")

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{id}, view.unmounted)
	assert.Len(t, *events, 1)
}

func TestRemove_CancelsTimer(t *testing.T) {
	s, clock, _, events := newStack(t, stack.DefaultOptions())

	s.Show("x", model.SeverityInfo, time.Second)
	s.Remove(s.Cards()[0].ID)
	clock.Advance(time.Minute)

	assert.Len(t, *events, 1)
	assert.Equal(t, 0, clock.Pending())
}

func TestCap_SuppressesOlderCards(t *testing.T) {
	s, _, _, _ := newStack(t, stack.DefaultOptions())

	for range 5 {
		s.Show("x", model.SeverityInfo, time.Minute)
	}

	cards := s.Cards()
	require.Len(t, cards, 5)
	for i, c := range cards {
		assert.Equal(t, i, c.Index())
		assert.Equal(t, i >= 3, c.Suppressed(), "card %d", i)
	}
}

func TestCap_RemovalPromotesSuppressed(t *testing.T) {
	s, _, _, _ := newStack(t, stack.DefaultOptions())

	for range 5 {
		s.Show("x", model.SeverityInfo, time.Minute)
	}
	second := s.Cards()[1].ID
	fourth := s.Cards()[3].ID

	s.Remove(second)

	cards := s.Cards()
	require.Len(t, cards, 4)
	for i, c := range cards {
		assert.Equal(t, i, c.Index())
	}
	assert.Equal(t, fourth, cards[2].ID)
	assert.False(t, cards[2].Suppressed())
	assert.True(t, cards[3].Suppressed())
}

func TestCap_RemovingSecondInsertedShowsFourth(t *testing.T) {
	s, _, _, _ := newStack(t, stack.DefaultOptions())

	var inserted []string
	for range 5 {
		inserted = append(inserted, s.Show("x", model.SeverityInfo, time.Minute))
	}
	// Newest first: 5th, 4th, 3rd are visible; 2nd and 1st are hidden.
	require.True(t, s.Card(inserted[1]).Suppressed())
	require.Equal(t, 3, s.Card(inserted[1]).Index())

	s.Remove(inserted[1])

	assert.Equal(t, []string{inserted[4], inserted[3], inserted[2], inserted[0]}, ids(s))
	for i, c := range s.Cards() {
		assert.Equal(t, i, c.Index())
	}
	for _, id := range inserted[2:] {
		assert.False(t, s.Card(id).Suppressed(), "card %s", id)
	}
	assert.Equal(t, 3, s.Card(inserted[0]).Index())
	assert.True(t, s.Card(inserted[0]).Suppressed())
}

func TestHeight_Formula(t *testing.T) {
	s, _, view, _ := newStack(t, stack.DefaultOptions())
	assert.Equal(t, 0, s.Height())

	want := []int{
		cardHeight,
		cardHeight + 1*(cardHeight+12),
		cardHeight + 2*(cardHeight+12),
		cardHeight + 2*(cardHeight+12), // capped
	}
	for _, h := range want {
		s.Show("x", model.SeverityInfo, time.Minute)
		assert.Equal(t, h, s.Height())
	}
	assert.Equal(t, want, view.heights)

	s.Clear()
	assert.Equal(t, 0, s.Height())
}

func TestClear_ClosesEverything(t *testing.T) {
	s, clock, _, events := newStack(t, stack.DefaultOptions())

	for range 4 {
		s.Show("x", model.SeverityInfo, time.Minute)
	}
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Len(t, *events, 4)
	for _, e := range *events {
		assert.Equal(t, model.CloseReasonClosed, e.reason)
	}
	clock.Advance(time.Hour)
	assert.Len(t, *events, 4)
}

func TestSetExpanded(t *testing.T) {
	s, _, _, _ := newStack(t, stack.DefaultOptions())

	assert.False(t, s.Expanded())
	s.SetExpanded(true)
	assert.True(t, s.Expanded())
	s.SetExpanded(false)
	assert.False(t, s.Expanded())
}

func TestReconfigure_ChangesCap(t *testing.T) {
	s, _, _, _ := newStack(t, stack.DefaultOptions())

	for range 4 {
		s.Show("x", model.SeverityInfo, time.Minute)
	}
	opts := stack.DefaultOptions()
	opts.MaxVisible = 1
	s.Reconfigure(opts)

	cards := s.Cards()
	assert.False(t, cards[0].Suppressed())
	assert.True(t, cards[1].Suppressed())
	assert.Equal(t, cardHeight, s.Height())
}

func TestSnapshot(t *testing.T) {
	s, clock, _, _ := newStack(t, stack.DefaultOptions())

	s.Show("older", model.SeverityWarning, 4*time.Second)
	clock.Advance(time.Second)
	id := s.Show("a < b", model.SeverityError, 0)

	infos := s.Snapshot()
	require.Len(t, infos, 2)
	assert.Equal(t, id, infos[0].ID)
	assert.Equal(t, "a < b", infos[0].Message)
	assert.Equal(t, model.SeverityError, infos[0].Severity)
	assert.Equal(t, 0, infos[0].Index)
	assert.Equal(t, 5*time.Second, infos[0].Remaining)
	assert.Equal(t, "visible", infos[1].State)
	assert.Equal(t, 3*time.Second, infos[1].Remaining)
}

func TestNilRenderer(t *testing.T) {
	s := stack.New(eventloop.NewManual(epoch), nil, stack.Options{}, nil)

	id := s.Show("x", model.SeverityInfo, 0)
	assert.Equal(t, stack.DefaultOptions().MaxVisible, s.Options().MaxVisible)
	s.Dismiss(id)
	assert.Equal(t, 0, s.Len())
}

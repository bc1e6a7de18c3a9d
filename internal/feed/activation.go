// Package feed decides which item of the vertically paged video feed plays.
package feed

import "sync"

// DefaultThreshold is the visible fraction an item needs to become active.
const DefaultThreshold = 0.5

// Visibility is one on-screen item and the fraction of it that is visible.
type Visibility struct {
	Index    int
	Fraction float64
}

// ActiveIndex returns the first item, in list order, whose visible fraction
// reaches threshold.
func ActiveIndex(items []Visibility, threshold float64) (int, bool) {
	for _, it := range items {
		if it.Fraction >= threshold {
			return it.Index, true
		}
	}
	return 0, false
}

// Player receives playback commands for feed items.
type Player interface {
	Play(index int)
	Pause(index int)
}

type Option func(*Feed)

func WithThreshold(t float64) Option {
	return func(f *Feed) { f.threshold = t }
}

func WithPlayer(p Player) Option {
	return func(f *Feed) { f.player = p }
}

// Feed tracks the active item and screen focus. At most one item plays, and
// only while the screen has focus.
type Feed struct {
	mu        sync.Mutex
	threshold float64
	player    Player

	count   int
	active  int
	focused bool
	closed  bool
	playing int
}

func New(count int, opts ...Option) *Feed {
	f := &Feed{
		threshold: DefaultThreshold,
		count:     count,
		focused:   true,
		playing:   -1,
	}
	for _, o := range opts {
		o(f)
	}
	f.mu.Lock()
	f.reconcile()
	f.mu.Unlock()
	return f
}

// OnViewableChanged handles a visibility callback. When no item crosses the
// threshold the previous active item is kept.
func (f *Feed) OnViewableChanged(items []Visibility) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if idx, ok := ActiveIndex(items, f.threshold); ok && idx >= 0 && idx < f.count {
		f.active = idx
	}
	f.reconcile()
}

// SetFocused gates playback on the hosting screen having focus. Regaining
// focus resumes whichever item the current scroll position makes active.
func (f *Feed) SetFocused(focused bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.focused = focused
	f.reconcile()
}

// SetCount updates the number of items, for example after a refetch.
func (f *Feed) SetCount(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.count = n
	if f.active >= n {
		f.active = 0
	}
	f.reconcile()
}

func (f *Feed) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Playing returns the item that is playing, if any.
func (f *Feed) Playing() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing, f.playing >= 0
}

func (f *Feed) IsPlaying(index int) bool {
	i, ok := f.Playing()
	return ok && i == index
}

// Close pauses playback for good.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.reconcile()
}

// reconcile must be called with mu held.
func (f *Feed) reconcile() {
	want := -1
	if f.focused && !f.closed && f.active < f.count {
		want = f.active
	}
	if want == f.playing {
		return
	}

	if f.playing >= 0 && f.player != nil {
		f.player.Pause(f.playing)
	}
	f.playing = want
	if want >= 0 && f.player != nil {
		f.player.Play(want)
	}
}

package viewstate

import (
	"sync"
	"time"
)

// Debouncer emits only values that stay unchanged for the quiescence
// window. Raw keystrokes go in through Put; emit fires once typing has
// settled. Values equal to the last emitted one are dropped, so a settled
// term that matches the committed state never triggers a refetch.
type Debouncer struct {
	d    time.Duration
	emit func(string)

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	pending string
	last    string
	emitted bool
}

func NewDebouncer(d time.Duration, emit func(string)) *Debouncer {
	return &Debouncer{d: d, emit: emit}
}

// Put feeds a raw value, restarting the quiescence window. Each call
// bumps the generation; a timer whose Stop lost the race to an already
// in-flight fire is invalidated by the token check inside fire, so a new
// value can never be emitted before its own window has elapsed.
func (b *Debouncer) Put(v string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = v
	b.gen++
	g := b.gen
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, func() { b.fire(g) })
}

func (b *Debouncer) fire(g uint64) {
	b.mu.Lock()
	if g != b.gen {
		b.mu.Unlock()
		return
	}
	v := b.pending
	if b.emitted && v == b.last {
		b.mu.Unlock()
		return
	}
	b.last = v
	b.emitted = true
	b.mu.Unlock()

	b.emit(v)
}

// Flush commits the pending value immediately, cancelling any timer.
func (b *Debouncer) Flush() {
	b.mu.Lock()
	b.gen++
	g := b.gen
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()
	b.fire(g)
}

// Stop cancels any pending emission.
func (b *Debouncer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

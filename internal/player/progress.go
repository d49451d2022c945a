package player

import (
	"sync"

	"slideloop/internal/session"
	"slideloop/internal/slideshow"
)

// progressWriter persists shown sections off the loop thread. Record only
// stores the latest snapshot; a single goroutine writes it to the session, so
// a slow backend delays persistence instead of the slideshow timing.
type progressWriter struct {
	sess *session.Session

	mu      sync.Mutex
	latest  slideshow.Snapshot
	pending bool
	wake    chan struct{}
	done    chan struct{}

	savedCycles int
}

func newProgressWriter(sess *session.Session) *progressWriter {
	w := &progressWriter{
		sess: sess,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

// Record never blocks.
func (w *progressWriter) Record(snap slideshow.Snapshot) {
	w.mu.Lock()
	w.latest = snap
	w.pending = true
	w.mu.Unlock()
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Close flushes the last recorded snapshot and stops the writer.
func (w *progressWriter) Close() {
	close(w.wake)
	<-w.done
}

func (w *progressWriter) run() {
	defer close(w.done)
	for range w.wake {
		w.flush()
	}
	w.flush()
}

func (w *progressWriter) flush() {
	w.mu.Lock()
	snap, ok := w.latest, w.pending
	w.pending = false
	w.mu.Unlock()
	if !ok {
		return
	}
	w.sess.RecordSection(snap.Index, snap.Section)
	if snap.Cycles > w.savedCycles {
		w.sess.AddCycles(snap.Cycles - w.savedCycles)
		w.savedCycles = snap.Cycles
	}
}

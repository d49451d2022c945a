package trace

import (
	"sync"

	"slideloop/internal/compositor"
)

// Record is one committed frame.
type Record struct {
	RunID              string  `json:"run_id" parquet:"run_id"`
	Seq                uint64  `json:"seq" parquet:"seq"`
	AtMillis           int64   `json:"at_ms" parquet:"at_ms"`
	Section            string  `json:"section" parquet:"section"`
	BlurredOpacity     float64 `json:"blurred_opacity" parquet:"blurred_opacity"`
	ClearOpacity       float64 `json:"clear_opacity" parquet:"clear_opacity"`
	TransitionsEnabled bool    `json:"transitions_enabled" parquet:"transitions_enabled"`
	BlurredSource      string  `json:"blurred_source" parquet:"blurred_source"`
	ClearSource        string  `json:"clear_source" parquet:"clear_source"`
}

// Recorder collects frames from a compositor. It is safe for concurrent use.
type Recorder struct {
	runID string

	mu      sync.Mutex
	records []Record
}

// NewRecorder returns a recorder tagging every record with runID.
func NewRecorder(runID string) *Recorder {
	return &Recorder{runID: runID}
}

// RunID returns the run identifier stamped on records.
func (r *Recorder) RunID() string {
	return r.runID
}

// FrameCommitted implements compositor.Observer.
func (r *Recorder) FrameCommitted(frame compositor.Frame) {
	rec := Record{
		RunID:              r.runID,
		Seq:                frame.Seq,
		AtMillis:           frame.At.UnixMilli(),
		Section:            frame.State.Section,
		BlurredOpacity:     frame.State.BlurredOpacity,
		ClearOpacity:       frame.State.ClearOpacity,
		TransitionsEnabled: frame.State.TransitionsEnabled,
		BlurredSource:      frame.State.BlurredSource,
		ClearSource:        frame.State.ClearSource,
	}
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Len reports how many frames were recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

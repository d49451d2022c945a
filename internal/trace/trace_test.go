package trace_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slideloop/internal/compositor"
	"slideloop/internal/trace"
)

func frame(seq uint64, section string, blurred, clearOpacity float64, src string) compositor.Frame {
	return compositor.Frame{
		Seq: seq,
		At:  time.UnixMilli(int64(seq) * 16),
		State: compositor.VisualState{
			Section:            section,
			BlurredOpacity:     blurred,
			ClearOpacity:       clearOpacity,
			TransitionsEnabled: true,
			BlurredSource:      src,
			ClearSource:        src + "-clear",
		},
	}
}

func TestVerifyAcceptsBlurredThenClear(t *testing.T) {
	rec := trace.NewRecorder("run-1")
	rec.FrameCommitted(frame(1, "Email", 0, 0, "a"))
	rec.FrameCommitted(frame(2, "Email", 1, 0, "a"))
	rec.FrameCommitted(frame(3, "Email", 1, 1, "a"))
	rec.FrameCommitted(frame(4, "Music App", 0, 0, "b"))
	rec.FrameCommitted(frame(5, "Music App", 1, 0, "b"))

	assert.Empty(t, trace.Verify(rec.Records()))
	assert.Equal(t, 5, rec.Len())
}

func TestVerifyFlagsFlashes(t *testing.T) {
	records := []trace.Record{
		{RunID: "r", Seq: 1, Section: "Email", ClearOpacity: 1, BlurredSource: "a"},
		{RunID: "r", Seq: 2, Section: "Email", BlurredOpacity: 0.5, BlurredSource: "a"},
		{RunID: "r", Seq: 3, Section: "Email", BlurredOpacity: 1, ClearOpacity: 1, BlurredSource: "a"},
		{RunID: "r", Seq: 4, Section: "Photo", BlurredOpacity: 1, ClearOpacity: 1, BlurredSource: "c"},
		{RunID: "r", Seq: 5, Section: "Photo", ClearOpacity: 1},
	}

	violations := trace.Verify(records)
	require.Len(t, violations, 4)
	assert.Equal(t, []uint64{1, 3, 4, 5}, []uint64{violations[0].Seq, violations[1].Seq, violations[2].Seq, violations[3].Seq})
	assert.Contains(t, violations[1].String(), "blurred opacity 0.50")
}

func TestVerifyDoesNotCarryAcrossRuns(t *testing.T) {
	records := []trace.Record{
		{RunID: "a", Seq: 1, BlurredOpacity: 1, BlurredSource: "x"},
		{RunID: "b", Seq: 1, BlurredOpacity: 1, ClearOpacity: 1, BlurredSource: "x"},
	}
	assert.Len(t, trace.Verify(records), 1)
}

func TestParquetRoundTrip(t *testing.T) {
	rec := trace.NewRecorder("run-42")
	for i := uint64(1); i <= 300; i++ {
		rec.FrameCommitted(frame(i, "Website", 1, float64((i+1)%2), "w"))
	}
	path := filepath.Join(t.TempDir(), "nested", trace.FileName(rec.RunID()))

	require.NoError(t, trace.WriteParquet(path, rec.Records()))
	loaded, err := trace.ReadParquet(path)
	require.NoError(t, err)

	assert.Equal(t, rec.Records(), loaded)
	assert.Empty(t, trace.Verify(loaded))
}

func TestReadParquetMissingFile(t *testing.T) {
	_, err := trace.ReadParquet(filepath.Join(t.TempDir(), "missing.parquet"))
	require.Error(t, err)
}

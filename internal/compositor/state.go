package compositor

import (
	"fmt"
	"time"

	"slideloop/internal/catalog"
)

// Layer identifies one of the two stacked image layers.
type Layer int

const (
	LayerBlurred Layer = iota
	LayerClear
)

func (l Layer) String() string {
	switch l {
	case LayerBlurred:
		return "blurred"
	case LayerClear:
		return "clear"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// VisualState is the composited state of the slot. Sources are image digests.
type VisualState struct {
	Section            string
	BlurredOpacity     float64
	ClearOpacity       float64
	TransitionsEnabled bool
	BlurredSource      string
	ClearSource        string
}

// Opacity returns the opacity of layer.
func (s VisualState) Opacity(layer Layer) float64 {
	if layer == LayerClear {
		return s.ClearOpacity
	}
	return s.BlurredOpacity
}

// Frame is one committed composition.
type Frame struct {
	Seq   uint64
	At    time.Time
	State VisualState
}

// Surface receives decoded sources and committed frames.
type Surface interface {
	// Decode verifies that ref can be displayed.
	Decode(ref catalog.ImageRef) error
	// Present shows a committed frame.
	Present(frame Frame)
}

// Observer is notified of every committed frame after the surface.
type Observer interface {
	FrameCommitted(frame Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (f ObserverFunc) FrameCommitted(frame Frame) { f(frame) }

// AssetDecodeError reports an image that the surface could not decode.
type AssetDecodeError struct {
	Section string
	Layer   Layer
	Source  string
	Err     error
}

func (e *AssetDecodeError) Error() string {
	return fmt.Sprintf("decode %s image for %q (%s): %v", e.Layer, e.Section, e.Source, e.Err)
}

func (e *AssetDecodeError) Unwrap() error {
	return e.Err
}

package compositor

import (
	"log/slog"

	"slideloop/internal/catalog"
	"slideloop/internal/eventloop"
	"slideloop/internal/logging"
)

// Loop is the part of the event loop the manager drives.
type Loop interface {
	RequestFrame(fn func())
	Invalidate()
	OnCommit(fn func(eventloop.FrameInfo))
}

// Manager is the opacity transition manager. Every method must run on the
// loop thread.
type Manager struct {
	loop      Loop
	surface   Surface
	logger    *slog.Logger
	observers []Observer

	state VisualState

	// renderGen invalidates frame callbacks of a superseded render.
	renderGen uint64
	// resetGen invalidates frame callbacks of a superseded reset.
	resetGen uint64
	// blurredCommitted is set once a frame committed the current blurred
	// source at full opacity.
	blurredCommitted bool
	clearFailed      bool
}

// New registers a manager on loop. The initial state is empty with
// transitions enabled.
func New(loop Loop, surface Surface, logger *slog.Logger) *Manager {
	m := &Manager{
		loop:    loop,
		surface: surface,
		logger:  logging.NewComponentLogger(logger, "compositor"),
		state:   VisualState{TransitionsEnabled: true},
	}
	loop.OnCommit(m.commit)
	return m
}

// AddObserver registers o for committed frames.
func (m *Manager) AddObserver(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// State returns the current, possibly uncommitted, visual state.
func (m *Manager) State() VisualState {
	return m.state
}

// BlurredCommitted reports whether the blurred layer of the current section
// has been committed fully opaque.
func (m *Manager) BlurredCommitted() bool {
	return m.blurredCommitted
}

// RenderBlurred hides both layers, attaches the section's sources, and raises
// the blurred layer to full opacity on the next frame. A section whose
// blurred image cannot be decoded leaves the visual state untouched.
func (m *Manager) RenderBlurred(section catalog.Section) {
	if err := m.surface.Decode(section.Blurred); err != nil {
		m.decodeFailed(&AssetDecodeError{Section: section.Name, Layer: LayerBlurred, Source: section.Blurred.Source, Err: err})
		m.clearFailed = true
		return
	}
	clearErr := m.surface.Decode(section.Clear)

	m.state.BlurredOpacity = 0
	m.state.ClearOpacity = 0
	m.blurredCommitted = false
	m.renderGen++
	gen := m.renderGen

	m.state.Section = section.Name
	m.state.BlurredSource = section.Blurred.Digest
	m.clearFailed = clearErr != nil
	if clearErr != nil {
		m.decodeFailed(&AssetDecodeError{Section: section.Name, Layer: LayerClear, Source: section.Clear.Source, Err: clearErr})
		m.state.ClearSource = ""
	} else {
		m.state.ClearSource = section.Clear.Digest
	}
	m.loop.Invalidate()

	m.loop.RequestFrame(func() {
		if gen != m.renderGen {
			return
		}
		m.state.BlurredOpacity = 1
		m.loop.Invalidate()
	})
	m.logger.Debug("blurred render requested",
		logging.String(logging.FieldSection, section.Name),
		logging.String("blurred_digest", section.Blurred.ShortDigest()),
	)
}

// TransitionToClear raises the clear layer to full opacity. It is refused
// until the blurred layer has been committed opaque, and while the clear
// source is unavailable.
func (m *Manager) TransitionToClear() {
	switch {
	case m.clearFailed:
		m.logger.Warn("clear transition skipped",
			logging.String(logging.FieldEventType, "transition_refused"),
			logging.String(logging.FieldSection, m.state.Section),
			logging.String("reason", "clear source unavailable"),
		)
		return
	case !m.blurredCommitted:
		m.logger.Warn("clear transition skipped",
			logging.String(logging.FieldEventType, "transition_refused"),
			logging.String(logging.FieldSection, m.state.Section),
			logging.String("reason", "blurred layer not yet committed"),
		)
		return
	}
	m.state.ClearOpacity = 1
	m.loop.Invalidate()
}

// ResetToBlurredState snaps the slot back to blurred with transitions
// disabled, re-enabling them on the next frame.
func (m *Manager) ResetToBlurredState() {
	m.state.TransitionsEnabled = false
	m.state.BlurredOpacity = 1
	m.state.ClearOpacity = 0
	m.resetGen++
	gen := m.resetGen
	m.loop.Invalidate()
	m.loop.RequestFrame(func() {
		if gen != m.resetGen {
			return
		}
		m.state.TransitionsEnabled = true
		m.loop.Invalidate()
	})
}

func (m *Manager) commit(info eventloop.FrameInfo) {
	frame := Frame{Seq: info.Seq, At: info.At, State: m.state}
	if m.state.BlurredSource != "" && m.state.BlurredOpacity >= 1 {
		m.blurredCommitted = true
	}
	m.surface.Present(frame)
	for _, o := range m.observers {
		o.FrameCommitted(frame)
	}
}

func (m *Manager) decodeFailed(err *AssetDecodeError) {
	m.logger.Error("image decode failed",
		logging.String(logging.FieldEventType, "asset_decode_failed"),
		logging.String(logging.FieldSection, err.Section),
		logging.String("layer", err.Layer.String()),
		logging.Error(err),
	)
}

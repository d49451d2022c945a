package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"slideloop/internal/catalog"
)

// DecodeImage checks that ref holds an image in a registered format.
func DecodeImage(ref catalog.ImageRef) (image.Config, string, error) {
	data := ref.Bytes()
	if len(data) == 0 {
		return image.Config{}, "", errors.New("empty image data")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("decode config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg, format, nil
}

// HeadlessSurface decodes image headers and keeps every presented frame.
type HeadlessSurface struct {
	mu     sync.Mutex
	frames []Frame
}

// NewHeadlessSurface returns an empty surface.
func NewHeadlessSurface() *HeadlessSurface {
	return &HeadlessSurface{}
}

func (s *HeadlessSurface) Decode(ref catalog.ImageRef) error {
	_, _, err := DecodeImage(ref)
	return err
}

func (s *HeadlessSurface) Present(frame Frame) {
	s.mu.Lock()
	s.frames = append(s.frames, frame)
	s.mu.Unlock()
}

// Frames returns a copy of the presented frames.
func (s *HeadlessSurface) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...)
}

// Last returns the most recently presented frame.
func (s *HeadlessSurface) Last() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

package player

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"slideloop/internal/catalog"
	"slideloop/internal/compositor"
)

const (
	ansiReset = "\x1b[0m"
	ansiCyan  = "\x1b[36m"
	ansiGreen = "\x1b[32m"
)

const sectionLabelWidth = 16

// ConsoleSurface prints one line each time the visible layer changes.
type ConsoleSurface struct {
	mu       sync.Mutex
	out      io.Writer
	colorize bool
	last     string
}

// NewConsoleSurface writes to out, colorizing when out is a terminal.
func NewConsoleSurface(out io.Writer) *ConsoleSurface {
	return &ConsoleSurface{out: out, colorize: shouldColorize(out)}
}

func (c *ConsoleSurface) Decode(ref catalog.ImageRef) error {
	_, _, err := compositor.DecodeImage(ref)
	return err
}

func (c *ConsoleSurface) Present(frame compositor.Frame) {
	label, color := visibleLayer(frame.State)
	if label == "" {
		return
	}
	key := frame.State.Section + "/" + label
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == c.last {
		return
	}
	c.last = key
	line := fmt.Sprintf("%s  %-*s %s", frame.At.Format("15:04:05.000"), sectionLabelWidth, frame.State.Section, label)
	if c.colorize {
		line = color + line + ansiReset
	}
	fmt.Fprintln(c.out, line)
}

func visibleLayer(state compositor.VisualState) (string, string) {
	switch {
	case state.ClearOpacity >= 1:
		return "clear", ansiGreen
	case state.BlurredOpacity >= 1:
		return "blurred", ansiCyan
	default:
		return "", ""
	}
}

func shouldColorize(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

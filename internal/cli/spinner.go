package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tgrunnagle/playing-card-gen/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// useSpinner reports whether a render should show the spinner: only on a
// terminal, and only when debug logging is not already narrating each card.
func useSpinner(isTerminal bool, level log.Level) bool {
	return isTerminal && level > log.DebugLevel
}

// stderrIsTerminal reports whether stderr can be redrawn in place.
func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Spinner animates a one-line render status, e.g. "⠹ Rendering starter (3 cards)".
// It counts cards as they finish by receiving render hook events.
type Spinner struct {
	observability.NoopRenderHooks

	w    io.Writer
	deck string

	mu       sync.Mutex
	rendered int
	frame    int
	width    int
	started  bool

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

// newSpinner returns a spinner for deck writing to w. It stops drawing by
// itself when ctx is cancelled.
func newSpinner(ctx context.Context, w io.Writer, deck string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		deck:    deck,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// OnCardComplete advances the card count.
func (s *Spinner) OnCardComplete(_ context.Context, _ string, _ time.Duration, err error) {
	if err != nil {
		return
	}
	s.mu.Lock()
	s.rendered++
	s.mu.Unlock()
}

// status is the current line, without the frame.
func (s *Spinner) status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := "Rendering " + s.deck
	if s.rendered > 0 {
		msg += " (" + plural(s.rendered, "card") + ")"
	}
	return msg
}

// Start begins drawing in the background.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			s.draw()
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *Spinner) draw() {
	msg := s.status()
	s.mu.Lock()
	defer s.mu.Unlock()
	frame := spinnerFrames[s.frame%len(spinnerFrames)]
	s.frame++
	s.width = max(s.width, len(msg)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(msg))
}

// Stop halts the animation and clears the line. It may be called repeatedly.
func (s *Spinner) Stop() {
	s.cancel()
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.stopped
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
		s.width = 0
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/geodome/pkg/observability"
)

// Spinner provides a simple progress indicator with context cancellation support.
type Spinner struct {
	message string
	width   int // widest message shown, for clearing
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	started bool
	frames  []string
	mu      sync.Mutex
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		width:   len(message),
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
				i++
			}
		}
	}()
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.width = max(s.width, len(message))
}

// Stop stops the spinner and clears the line. It is safe to call more than
// once, and before Start.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.stopped
	}
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", s.width+4))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled returns true if the spinner was stopped due to context cancellation.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// trialHooks counts finished partition trials into a spinner message.
type trialHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
	total   atomic.Int64
	done    atomic.Int64
}

func (h *trialHooks) OnPartitionStart(_ context.Context, fields, trials int) {
	h.total.Store(int64(trials))
	h.done.Store(0)
	h.spinner.Update(fmt.Sprintf("Partitioning %d fields...", fields))
}

func (h *trialHooks) OnTrial(context.Context, int, int, int, bool) {
	n := h.done.Add(1)
	h.spinner.Update(fmt.Sprintf("Partitioning... trial %d/%d", n, h.total.Load()))
}

func (h *trialHooks) OnStackStart(_ context.Context, regions int) {
	h.spinner.Update(fmt.Sprintf("Stacking %d regions...", regions))
}

// withSpinner runs fn while a spinner reports pipeline progress.
func withSpinner(ctx context.Context, message string, fn func() error) error {
	s := newSpinnerWithContext(ctx, message)
	observability.SetPipelineHooks(&trialHooks{spinner: s})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})

	s.Start()
	err := fn()
	s.Stop()
	return err
}

package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/geodome/pkg/observability"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner("Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Stop cancels the spinner's own context.
	if !s.Cancelled() {
		t.Error("Cancelled() should report true after Stop")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := newSpinner("Never started")

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop before Start blocked")
	}
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Testing success...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}

func TestSpinnerUpdate(t *testing.T) {
	s := newSpinner("short")
	s.Update("a much longer message")
	s.Update("tiny")

	if s.message != "tiny" {
		t.Errorf("message = %q, want tiny", s.message)
	}
	if s.width != len("a much longer message") {
		t.Errorf("width = %d, want the widest message", s.width)
	}
}

func TestTrialHooks(t *testing.T) {
	ctx := context.Background()
	s := newSpinner("Working...")
	h := &trialHooks{spinner: s}

	h.OnPartitionStart(ctx, 42, 8)
	h.OnTrial(ctx, 3, 5, 2, false)
	h.OnTrial(ctx, 0, 6, 1, false)
	if s.message != "Partitioning... trial 2/8" {
		t.Errorf("message = %q", s.message)
	}

	h.OnStackStart(ctx, 5)
	if s.message != "Stacking 5 regions..." {
		t.Errorf("message = %q", s.message)
	}
}

func TestWithSpinnerRestoresHooks(t *testing.T) {
	defer observability.Reset()

	want := errors.New("boom")
	err := withSpinner(context.Background(), "Working...", func() error {
		if _, ok := observability.Pipeline().(*trialHooks); !ok {
			t.Error("trial hooks should be registered while fn runs")
		}
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("withSpinner error = %v, want %v", err, want)
	}
	if _, ok := observability.Pipeline().(observability.NoopPipelineHooks); !ok {
		t.Error("pipeline hooks should be reset after withSpinner")
	}
}

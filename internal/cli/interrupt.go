package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a run on SIGINT/SIGTERM and tells the user what happened.
type InterruptHandler struct {
	writer       io.Writer
	done         chan struct{}
	task         string
	hint         string
	interrupted  bool
	showProgress bool
	mu           sync.Mutex
	stopOnce     sync.Once
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer: writer,
		task:   "Recommendation run",
		done:   make(chan struct{}),
	}
}

// WithTask names the interrupted task and an optional hint for resuming it.
func (h *InterruptHandler) WithTask(task, hint string) *InterruptHandler {
	h.task = task
	h.hint = hint
	return h
}

// HandleInterrupts returns a context canceled on interrupt. Cancellation of the
// parent context is reported the same way. Call Stop when the work completes.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, showProgress bool) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.showProgress = showProgress

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
		case <-ctx.Done():
		case <-h.done:
			cancel()
			return
		}
		h.mu.Lock()
		if !h.interrupted {
			h.interrupted = true
			h.showInterruptMessage()
		}
		h.mu.Unlock()
		cancel()
	}()

	return ctx
}

// Stop releases the signal handler without reporting an interruption.
func (h *InterruptHandler) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning(h.task+" interrupted!")

	if h.showProgress {
		msg += "\n" + FormatInfo("Completed results have been kept.")
		if h.hint != "" {
			msg += "\n" + FormatInfo(h.hint)
		}
	}

	msg += "\n" + FormatInfo("See you later! "+AdviceIcon) + "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

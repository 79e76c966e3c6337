package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{
			name:   "with custom writer",
			writer: &bytes.Buffer{},
		},
		{
			name:   "with nil writer",
			writer: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.interrupted)
		})
	}
}

func TestHandleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output).WithTask("Recommendation run", "Re-run with: advise all")

	// Create a context that we can cancel
	ctx, cancel := context.WithCancel(context.Background())
	ctx = handler.HandleInterrupts(ctx, true) //nolint:ineffassign // We need the returned context

	// Context should not be canceled initially
	select {
	case <-ctx.Done():
		t.Fatal("Context should not be canceled initially")
	default:
	}

	// Cancel the context to simulate interruption
	cancel()

	// Give the handler time to detect cancellation and write the message
	time.Sleep(50 * time.Millisecond)

	assert.True(t, handler.WasInterrupted())
	outputStr := output.String()
	assert.Contains(t, outputStr, "Recommendation run interrupted!")
	assert.Contains(t, outputStr, "Completed results have been kept")
	assert.Contains(t, outputStr, "Re-run with: advise all")
}

func TestHandleInterrupts_NoProgress(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	// Create a context that we can cancel
	ctx, cancel := context.WithCancel(context.Background())
	_ = handler.HandleInterrupts(ctx, false)

	// Cancel the context to simulate interruption
	cancel()

	// Give the handler time to detect cancellation and write the message
	time.Sleep(50 * time.Millisecond)

	assert.True(t, handler.WasInterrupted())
	outputStr := output.String()
	assert.Contains(t, outputStr, "Recommendation run interrupted!")
	assert.NotContains(t, outputStr, "Completed results have been kept")
}

func TestMultipleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	// Create a context that we can cancel
	ctx, cancel := context.WithCancel(context.Background())
	_ = handler.HandleInterrupts(ctx, true)

	// Cancel the context
	cancel()

	// Give time for the handler to process
	time.Sleep(50 * time.Millisecond)

	// Message should only be shown once
	outputStr := output.String()
	count := strings.Count(outputStr, "Recommendation run interrupted!")
	assert.Equal(t, 1, count, "Interrupt message should only be shown once")
}

func TestShowInterruptMessage(t *testing.T) {
	tests := []struct {
		name         string
		expected     []string
		notExpected  []string
		showProgress bool
	}{
		{
			name:         "with progress",
			showProgress: true,
			expected: []string{
				"Recommendation run interrupted!",
				"Completed results have been kept",
				"Re-run with: advise all",
				"See you later!",
			},
			notExpected: []string{},
		},
		{
			name:         "without progress",
			showProgress: false,
			expected: []string{
				"Recommendation run interrupted!",
				"See you later!",
			},
			notExpected: []string{
				"Completed results have been kept",
				"Re-run with",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			handler := NewInterruptHandler(&output).WithTask("Recommendation run", "Re-run with: advise all")
			handler.showProgress = tt.showProgress

			handler.showInterruptMessage()

			outputStr := output.String()
			for _, expected := range tt.expected {
				assert.Contains(t, outputStr, expected)
			}
			for _, notExpected := range tt.notExpected {
				assert.NotContains(t, outputStr, notExpected)
			}
		})
	}
}

func TestStopDoesNotReportInterrupt(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx := handler.HandleInterrupts(context.Background(), true)
	handler.Stop()
	handler.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should be released after Stop")
	}

	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}

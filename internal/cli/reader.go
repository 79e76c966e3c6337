package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrPromptCanceled is returned when a prompt is abandoned before an answer arrives.
var ErrPromptCanceled = errors.New("prompt canceled")

type answer struct {
	err  error
	text string
}

// AnswerReader reads trimmed answer lines from an interactive input.
// A single scanner goroutine feeds every prompt, so an answer typed after a
// canceled prompt is delivered to the next one rather than lost.
type AnswerReader struct {
	src     io.Reader
	answers chan answer
	once    sync.Once
}

// NewAnswerReader wraps src. A nil src reads as immediate end of input.
func NewAnswerReader(src io.Reader) *AnswerReader {
	if src == nil {
		src = strings.NewReader("")
	}
	return &AnswerReader{src: src, answers: make(chan answer)}
}

func (r *AnswerReader) scan() {
	defer close(r.answers)

	scanner := bufio.NewScanner(r.src)
	for scanner.Scan() {
		r.answers <- answer{text: strings.TrimSpace(scanner.Text())}
	}
	if err := scanner.Err(); err != nil {
		r.answers <- answer{err: err}
	}
}

// ReadAnswer waits for the next line. It returns io.EOF once input is exhausted.
func (r *AnswerReader) ReadAnswer(ctx context.Context) (string, error) {
	r.once.Do(func() { go r.scan() })

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrPromptCanceled, ctx.Err())
	case a, ok := <-r.answers:
		if !ok {
			return "", io.EOF
		}
		return a.text, a.err
	}
}

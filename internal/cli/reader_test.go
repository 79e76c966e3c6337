package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestAnswerReader_ReadAnswer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single answer", input: "yes\n", want: []string{"yes"}},
		{name: "trims whitespace", input: "  y  \n", want: []string{"y"}},
		{name: "answer without newline", input: "n", want: []string{"n"}},
		{name: "sequence of answers", input: "maybe\n\ny\n", want: []string{"maybe", "", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewAnswerReader(strings.NewReader(tt.input))

			for _, want := range tt.want {
				got, err := reader.ReadAnswer(context.Background())
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			_, err := reader.ReadAnswer(context.Background())
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestAnswerReader_NilSourceIsEOF(t *testing.T) {
	_, err := NewAnswerReader(nil).ReadAnswer(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestAnswerReader_SourceError(t *testing.T) {
	boom := errors.New("tty gone")
	_, err := NewAnswerReader(failingReader{err: boom}).ReadAnswer(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAnswerReader_CanceledPromptKeepsLaterAnswer(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	reader := NewAnswerReader(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := reader.ReadAnswer(ctx)
	require.ErrorIs(t, err, ErrPromptCanceled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = io.WriteString(pw, "y\n") }()

	got, err := reader.ReadAnswer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "y", got)
}

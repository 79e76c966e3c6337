package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full word", input: "YES\n", want: true},
		{name: "no", input: "n\n", defaultYes: true, want: false},
		{name: "empty takes default no", input: "\n", want: false},
		{name: "empty takes default yes", input: "\n", defaultYes: true, want: true},
		{name: "retries on garbage", input: "maybe\ny\n", want: true},
		{name: "eof takes default", input: "", defaultYes: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			reader := NewAnswerReader(strings.NewReader(tt.input))

			got, err := Confirm(context.Background(), reader, &out, "Delete records?", tt.defaultYes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete records?")
		})
	}
}

func TestConfirmCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	_, err := Confirm(ctx, NewAnswerReader(pr), &bytes.Buffer{}, "Continue?", false)
	assert.ErrorIs(t, err, ErrPromptCanceled)
}

func TestConfirmAcrossPrompts(t *testing.T) {
	reader := NewAnswerReader(strings.NewReader("n\nwhat\nyes\n"))
	var out bytes.Buffer

	first, err := Confirm(context.Background(), reader, &out, "Delete savings?", true)
	require.NoError(t, err)
	assert.False(t, first)

	second, err := Confirm(context.Background(), reader, &out, "Delete debt?", false)
	require.NoError(t, err)
	assert.True(t, second)
	assert.Contains(t, out.String(), "Please answer y or n")
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirm asks a yes/no question and reports whether the answer was yes.
// Empty input takes the default.
func Confirm(ctx context.Context, reader *AnswerReader, writer io.Writer, question string, defaultYes bool) (bool, error) {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}

	for {
		if _, err := fmt.Fprint(writer, FormatPrompt(question+" "+suffix)); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		answer, err := reader.ReadAnswer(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return defaultYes, nil
			}
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		if _, err := fmt.Fprintln(writer, FormatWarning("Please answer y or n")); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}
	}
}

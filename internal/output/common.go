package output

import (
	"io"
	"os"
	"time"

	"github.com/masmgr/commitwalk/internal/git"
)

const (
	reportDateLayout     = "2006-01-02"
	reportDateTimeLayout = "2006-01-02T15:04:05"
	shortHashLen         = 8
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

// periodLabelAndValue describes the time window of a walk, or "" when unbounded.
func periodLabelAndValue(since, until *time.Time) (string, string) {
	switch {
	case since != nil && until != nil:
		return "Period", since.Format(reportDateLayout) + " to " + until.Format(reportDateLayout)
	case since != nil:
		return "Since", since.Format(reportDateLayout)
	case until != nil:
		return "Until", until.Format(reportDateLayout)
	default:
		return "", ""
	}
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(reportDateLayout)
	return &formatted
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(reportDateTimeLayout)
}

func shortHash(h git.Hash) string {
	return h.String()[:shortHashLen]
}

func truncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// withOutput opens the report destination, runs write and closes it.
func withOutput(outputPath string, write func(io.Writer) error) error {
	out, file, err := openOutputWriter(outputPath)
	if err != nil {
		return err
	}
	if file == nil {
		return write(out)
	}
	if err := write(out); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

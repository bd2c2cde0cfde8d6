package output

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

func TestLimitTop(t *testing.T) {
	items := []int{1, 2, 3}

	tests := []struct {
		name string
		top  int
		want []int
	}{
		{name: "NoLimitWhenZero", top: 0, want: []int{1, 2, 3}},
		{name: "NoLimitWhenNegative", top: -1, want: []int{1, 2, 3}},
		{name: "Limited", top: 2, want: []int{1, 2}},
		{name: "NoLimitWhenTopExceedsLength", top: 5, want: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := limitTop(items, tt.top)
			if len(got) != len(tt.want) {
				t.Fatalf("len(limitTop(..., %d)) = %d, want %d", tt.top, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("limitTop(..., %d)[%d] = %d, want %d", tt.top, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPeriodLabelAndValue(t *testing.T) {
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		since     *time.Time
		until     *time.Time
		wantLabel string
		wantValue string
	}{
		{name: "Both", since: &since, until: &until, wantLabel: "Period", wantValue: "2026-02-01 to 2026-02-10"},
		{name: "SinceOnly", since: &since, wantLabel: "Since", wantValue: "2026-02-01"},
		{name: "UntilOnly", until: &until, wantLabel: "Until", wantValue: "2026-02-10"},
		{name: "Unbounded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, value := periodLabelAndValue(tt.since, tt.until)
			if label != tt.wantLabel || value != tt.wantValue {
				t.Errorf("periodLabelAndValue() = (%q, %q), want (%q, %q)", label, value, tt.wantLabel, tt.wantValue)
			}
		})
	}
}

func TestFormatOptionalDate(t *testing.T) {
	if got := formatOptionalDate(nil); got != nil {
		t.Fatalf("formatOptionalDate(nil) = %q, want nil", *got)
	}

	since := time.Date(2026, 2, 1, 13, 4, 5, 0, time.UTC)
	got := formatOptionalDate(&since)
	if got == nil || *got != "2026-02-01" {
		t.Fatalf("formatOptionalDate() = %v, want 2026-02-01", got)
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(time.Time{}); got != "" {
		t.Errorf("formatTime(zero) = %q, want empty", got)
	}
	when := time.Date(2026, 2, 1, 13, 4, 5, 0, time.UTC)
	if got := formatTime(when); got != "2026-02-01T13:04:05" {
		t.Errorf("formatTime() = %q, want %q", got, "2026-02-01T13:04:05")
	}
}

func TestShortHash(t *testing.T) {
	h := plumbing.NewHash("0123456789abcdef0123456789abcdef01234567")
	if got := shortHash(h); got != "01234567" {
		t.Errorf("shortHash() = %q, want %q", got, "01234567")
	}
}

func TestTruncateMessage(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		maxLen   int
		expected string
	}{
		{name: "Short message", msg: "hello", maxLen: 40, expected: "hello"},
		{name: "Exact length", msg: "1234567890", maxLen: 10, expected: "1234567890"},
		{name: "Over max length", msg: "a very long message here", maxLen: 10, expected: "a very ..."},
		{name: "Empty message", msg: "", maxLen: 40, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateMessage(tt.msg, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateMessage(%q, %d) = %q, expected %q", tt.msg, tt.maxLen, result, tt.expected)
			}
		})
	}
}

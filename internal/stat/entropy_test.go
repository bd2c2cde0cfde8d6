package stat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masmgr/commitwalk/internal/git"
)

func TestChangeEntropy(t *testing.T) {
	entry := func(churn int) git.DiffEntry {
		return git.DiffEntry{Path: "f", LinesAdded: churn}
	}

	tests := []struct {
		name    string
		changes []git.DiffEntry
		want    float64
	}{
		{name: "Empty", want: 0},
		{name: "Single", changes: []git.DiffEntry{entry(10)}, want: 0},
		{name: "Uniform two", changes: []git.DiffEntry{entry(20), entry(20)}, want: 1},
		{name: "Uniform three", changes: []git.DiffEntry{entry(10), entry(10), entry(10)}, want: 1},
		{name: "No churn", changes: []git.DiffEntry{entry(0), entry(0)}, want: 1},
		{name: "Skewed", changes: []git.DiffEntry{entry(90), entry(10)}, want: -(0.9*math.Log2(0.9) + 0.1*math.Log2(0.1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ChangeEntropy(tt.changes), 1e-9)
		})
	}

	e := ChangeLogEntry{Changes: []git.DiffEntry{entry(5), entry(5)}}
	assert.InDelta(t, 1.0, e.Entropy(), 1e-9)
}

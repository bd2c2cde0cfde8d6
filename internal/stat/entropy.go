package stat

import (
	"math"

	"github.com/masmgr/commitwalk/internal/git"
)

// ChangeEntropy returns the normalized Shannon entropy of churn across the
// changed paths of one commit (Hassan 2009). 0 means the change is focused
// on a single path; 1 means churn is spread evenly.
func ChangeEntropy(changes []git.DiffEntry) float64 {
	if len(changes) < 2 {
		return 0.0
	}

	totalChurn := 0
	for _, change := range changes {
		totalChurn += change.Churn()
	}
	if totalChurn == 0 {
		// Pure renames and mode changes: nothing favors one path.
		return 1.0
	}

	entropy := 0.0
	for _, change := range changes {
		if churn := change.Churn(); churn > 0 {
			p := float64(churn) / float64(totalChurn)
			entropy -= p * math.Log2(p)
		}
	}

	normalized := entropy / math.Log2(float64(len(changes)))
	return math.Max(0, math.Min(1, normalized))
}

// Entropy returns the change entropy of the entry's diff.
func (e ChangeLogEntry) Entropy() float64 {
	return ChangeEntropy(e.Changes)
}

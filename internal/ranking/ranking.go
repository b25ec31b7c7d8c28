package ranking

import (
	"sort"

	"github.com/talentsift/backend/internal/models"
)

// Rank orders candidates by match score, highest first. The sort is stable so
// equal scores keep their upload order and identical batches rank identically
// across reruns. The input slice is not modified.
func Rank(candidates []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

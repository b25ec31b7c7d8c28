package cache

import "fmt"

// AnalysisKey scopes cached analysis rows by owner so a cache hit can never
// cross the per-user visibility boundary.
func AnalysisKey(analysisID, userID uint) string {
	return fmt.Sprintf("analysis:%d:%d", analysisID, userID)
}

package model

// SearchResult pairs a command snapshot with its rank score for one query.
// Results are ephemeral and never persisted.
type SearchResult struct {
	Command Command
	Score   float64
}

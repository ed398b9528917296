package domain

type KnowledgeEntry struct {
	ID       int64
	Question string
	Answer   string
}

// KnowledgeMatch is the best entry for a query together with the engine's relevance score.
type KnowledgeMatch struct {
	Entry KnowledgeEntry
	Score float64
}

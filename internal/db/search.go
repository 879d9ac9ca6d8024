package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit from a search. Distance is the raw vector
// distance reported by the index (cosine distance for chunk indexes, smaller
// is more similar).
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}

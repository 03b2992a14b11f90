// Package vector provides interfaces and implementations for managed
// vector store backends.
package vector

import "context"

// Record represents one stored text with its embedding and metadata.
type Record struct {
	// ID is the unique identifier for the record.
	ID string

	// Values is the embedding vector for the record's text.
	Values []float32

	// Metadata holds scalar key/value pairs stored alongside the vector.
	// The inserted text itself lives under the reserved "text" key.
	Metadata map[string]any
}

// Match represents a single nearest-neighbor result from a query.
type Match struct {
	// ID is the identifier of the matched record.
	ID string

	// Score is the similarity score reported by the store
	// (higher = more similar).
	Score float32

	// Metadata is the stored metadata for the matched record, present
	// when the query requested it.
	Metadata map[string]any
}

// Stats describes the state of the backing index.
type Stats struct {
	// TotalVectorCount is the number of vectors stored across all namespaces.
	TotalVectorCount int

	// Namespaces maps namespace name to its vector count, when the
	// backend reports per-namespace counts.
	Namespaces map[string]int
}

// Store handles storage and retrieval of embedded texts in a managed
// vector database. Implementations are stateless between calls; all
// persistence is owned by the remote service.
type Store interface {
	// Upsert stores records in the given namespace, overwriting any
	// record with the same ID.
	Upsert(ctx context.Context, namespace string, records []Record) error

	// Query returns the topK most similar records to the given vector,
	// ordered by descending similarity as reported by the store.
	Query(ctx context.Context, namespace string, vector []float32, topK int, includeMetadata bool) ([]Match, error)

	// Fetch retrieves records by their IDs.
	Fetch(ctx context.Context, namespace string, ids []string) ([]Record, error)

	// Stats reports index-wide statistics.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases any resources held by the store client.
	Close() error
}

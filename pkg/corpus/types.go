package corpus

const (
	// TextMetadataKey is the reserved metadata key the inserted text is
	// stored under. Insert overwrites any caller-supplied value for this
	// key with the actual inserted text (last write wins).
	TextMetadataKey = "text"

	// NoTextPlaceholder is returned as a result's text when the stored
	// metadata lacks the reserved text key.
	NoTextPlaceholder = "No text available"

	// DefaultTopK is the result count the CLI and HTTP boundaries apply
	// when the caller omits the parameter entirely.
	DefaultTopK = 5
)

// Params carries the store credential and index identity that every
// operation validates before touching the network. Namespace selects the
// index partition; empty means the store's default partition.
type Params struct {
	APIKey    string
	IndexName string
	Namespace string
}

// Result is a single search hit, normalized from the store's raw match.
// It is built per call and discarded after being returned.
type Result struct {
	// ID is the stored record's identifier.
	ID string `json:"id"`

	// Text is the originally inserted text, re-extracted from metadata,
	// or NoTextPlaceholder when absent.
	Text string `json:"text"`

	// Score is the similarity score reported by the store
	// (cosine convention, higher = more similar).
	Score float32 `json:"similarity_score"`

	// Metadata is the full stored metadata for the record.
	Metadata map[string]any `json:"metadata"`
}

// SearchOutput is the result envelope for a search operation.
type SearchOutput struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

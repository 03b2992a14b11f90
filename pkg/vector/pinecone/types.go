package pinecone

// describeIndexResponse is the control-plane response describing an index.
type describeIndexResponse struct {
	Name string `json:"name"`
	Host string `json:"host"`
}

// upsertVector is a single vector in an upsert request.
type upsertVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// upsertRequest is the request body for /vectors/upsert.
type upsertRequest struct {
	Vectors   []upsertVector `json:"vectors"`
	Namespace string         `json:"namespace,omitempty"`
}

// upsertResponse is the response from /vectors/upsert.
type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

// queryRequest is the request body for /query.
type queryRequest struct {
	Namespace       string    `json:"namespace,omitempty"`
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

// queryMatch is a single match in a query response.
type queryMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// queryResponse is the response from /query.
type queryResponse struct {
	Matches   []queryMatch `json:"matches"`
	Namespace string       `json:"namespace"`
}

// fetchVector is a single vector in a fetch response.
type fetchVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// fetchResponse is the response from /vectors/fetch.
type fetchResponse struct {
	Vectors   map[string]fetchVector `json:"vectors"`
	Namespace string                 `json:"namespace"`
}

// namespaceStats holds per-namespace counts in a stats response.
type namespaceStats struct {
	VectorCount int `json:"vectorCount"`
}

// describeIndexStatsResponse is the response from /describe_index_stats.
type describeIndexStatsResponse struct {
	Namespaces       map[string]namespaceStats `json:"namespaces"`
	Dimension        int                       `json:"dimension"`
	TotalVectorCount int                       `json:"totalVectorCount"`
}

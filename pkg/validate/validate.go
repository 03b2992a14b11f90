// Package validate checks operation inputs before any network call is
// made. It never contacts external services; its only job is to fail fast
// on inputs that would waste a round trip.
package validate

import (
	"strconv"
	"strings"
)

// SearchParams validates inputs for a search operation.
func SearchParams(query string, topK int, apiKey, indexName string) error {
	if strings.TrimSpace(query) == "" {
		return valueError("query", "query text cannot be empty")
	}

	if topK <= 0 {
		return valueError("top_k", "top_k must be a positive integer")
	}

	return credentials(apiKey, indexName)
}

// InsertParams validates inputs for an insert operation.
func InsertParams(text string, metadata map[string]any, apiKey, indexName string) error {
	if strings.TrimSpace(text) == "" {
		return valueError("text", "text cannot be empty")
	}

	if err := Metadata(metadata); err != nil {
		return err
	}

	return credentials(apiKey, indexName)
}

// Metadata checks that all metadata values belong to the supported scalar
// set. The vector store only accepts flat scalar metadata; rejecting
// anything else here keeps the error local instead of a remote 400.
func Metadata(metadata map[string]any) error {
	for key, value := range metadata {
		switch value.(type) {
		case string, bool, int, int64, float32, float64:
		default:
			return typeError("metadata", "unsupported value type for key "+strconv.Quote(key)+": must be string, number, or boolean")
		}
	}
	return nil
}

// ParseTopK parses a result count from its string form at the HTTP or CLI
// boundary. A non-integer is a type error; the positive check is left to
// SearchParams so both paths report it the same way.
func ParseTopK(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, typeError("top_k", "top_k must be an integer")
	}
	return n, nil
}

func credentials(apiKey, indexName string) error {
	if apiKey == "" {
		return valueError("api_key", "API key is required")
	}

	if indexName == "" {
		return valueError("index_name", "index name is required")
	}

	return nil
}

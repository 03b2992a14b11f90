// Package chroma provides a Chroma vector database driver implementation.
// Namespaces map to Chroma collections, so records in different namespaces
// are isolated from each other's queries.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/vector"
)

const apiBase = "/api/v2/tenants/default_tenant/databases/default_database"

// Driver implements vector.Store using Chroma's REST API.
type Driver struct {
	baseURL    string
	indexName  string
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	collections map[string]string // namespace -> collection ID
}

// Config holds configuration for the Chroma driver.
type Config struct {
	// URL is the Chroma server URL (e.g., "http://localhost:8000"). Required.
	URL string

	// IndexName is the base collection name. The default namespace maps to
	// this collection; named namespaces map to "<index>.<namespace>".
	IndexName string
}

// NewDriver creates a new Chroma vector driver.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("chroma URL is required")
	}
	if c.IndexName == "" {
		return nil, fmt.Errorf("chroma index name is required")
	}

	return &Driver{
		baseURL:   c.URL,
		indexName: c.IndexName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger:      logger,
		collections: make(map[string]string),
	}, nil
}

// collectionName maps a namespace to its backing collection name.
func (d *Driver) collectionName(namespace string) string {
	if namespace == "" {
		return d.indexName
	}
	return d.indexName + "." + namespace
}

// collectionID returns the collection ID for a namespace, creating the
// collection on first use.
func (d *Driver) collectionID(ctx context.Context, namespace string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.collections[namespace]; ok {
		return id, nil
	}

	name := d.collectionName(namespace)

	// Try to get the existing collection first.
	getURL := fmt.Sprintf("%s%s/collections/%s", d.baseURL, apiBase, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating get request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sending get request: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var collection chromaCollection
		if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
			return "", fmt.Errorf("decoding collection response: %w", err)
		}
		d.collections[namespace] = collection.ID
		return collection.ID, nil
	}

	// Collection doesn't exist, create it.
	createURL := fmt.Sprintf("%s%s/collections", d.baseURL, apiBase)
	jsonBody, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return "", fmt.Errorf("marshaling create request: %w", err)
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, createURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	createResp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sending create request: %v", vector.ErrConnection, err)
	}
	defer createResp.Body.Close()

	if createResp.StatusCode != http.StatusOK && createResp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(createResp.Body)
		return "", fmt.Errorf("%w: failed to create collection: status %d: %s", vector.ErrConnection, createResp.StatusCode, string(body))
	}

	var collection chromaCollection
	if err := json.NewDecoder(createResp.Body).Decode(&collection); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}

	d.collections[namespace] = collection.ID
	return collection.ID, nil
}

// Upsert stores records in the namespace's collection, overwriting records
// with the same ID.
func (d *Driver) Upsert(ctx context.Context, namespace string, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	collectionID, err := d.collectionID(ctx, namespace)
	if err != nil {
		return err
	}

	ids := make([]string, len(records))
	embeddings := make([][]float32, len(records))
	metadatas := make([]map[string]any, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		embeddings[i] = rec.Values
		metadatas[i] = rec.Metadata
	}

	reqBody := chromaUpsertRequest{
		IDs:        ids,
		Embeddings: embeddings,
		Metadatas:  metadatas,
	}

	if err := d.post(ctx, fmt.Sprintf("/collections/%s/upsert", collectionID), reqBody, nil); err != nil {
		return fmt.Errorf("upserting records: %w", err)
	}

	d.logger.Debug("upserted records to chroma",
		zap.Int("count", len(records)),
		zap.String("namespace", namespace),
	)

	return nil
}

// Query finds the topK most similar records to the given embedding.
func (d *Driver) Query(ctx context.Context, namespace string, embedding []float32, topK int, includeMetadata bool) ([]vector.Match, error) {
	collectionID, err := d.collectionID(ctx, namespace)
	if err != nil {
		return nil, err
	}

	include := []string{"distances"}
	if includeMetadata {
		include = append(include, "metadatas")
	}

	reqBody := chromaQueryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        topK,
		Include:         include,
	}

	var queryResp chromaQueryResponse
	if err := d.post(ctx, fmt.Sprintf("/collections/%s/query", collectionID), reqBody, &queryResp); err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	// Only the first group matters, queries carry a single embedding.
	if len(queryResp.IDs) == 0 || len(queryResp.IDs[0]) == 0 {
		return nil, nil
	}

	ids := queryResp.IDs[0]
	distances := queryResp.Distances[0]

	var metadatas []map[string]any
	if len(queryResp.Metadatas) > 0 {
		metadatas = queryResp.Metadatas[0]
	}

	matches := make([]vector.Match, len(ids))
	for i, id := range ids {
		matches[i] = vector.Match{ID: id}

		if i < len(metadatas) {
			matches[i].Metadata = metadatas[i]
		}

		// Chroma reports distances; convert to a similarity score where
		// lower distance = higher similarity.
		if i < len(distances) {
			matches[i].Score = 1.0 / (1.0 + distances[i])
		}
	}

	d.logger.Debug("queried chroma",
		zap.Int("matches", len(matches)),
		zap.String("namespace", namespace),
	)

	return matches, nil
}

// Fetch retrieves records by their IDs.
func (d *Driver) Fetch(ctx context.Context, namespace string, ids []string) ([]vector.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	collectionID, err := d.collectionID(ctx, namespace)
	if err != nil {
		return nil, err
	}

	reqBody := chromaGetRequest{
		IDs:     ids,
		Include: []string{"metadatas", "embeddings"},
	}

	var getResp chromaGetResponse
	if err := d.post(ctx, fmt.Sprintf("/collections/%s/get", collectionID), reqBody, &getResp); err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}

	records := make([]vector.Record, len(getResp.IDs))
	for i, id := range getResp.IDs {
		records[i] = vector.Record{ID: id}
		if i < len(getResp.Metadatas) {
			records[i].Metadata = getResp.Metadatas[i]
		}
		if i < len(getResp.Embeddings) {
			records[i].Values = getResp.Embeddings[i]
		}
	}

	return records, nil
}

// Stats reports the total record count across all known namespaces.
func (d *Driver) Stats(ctx context.Context) (*vector.Stats, error) {
	d.mu.Lock()
	namespaces := make([]string, 0, len(d.collections))
	for ns := range d.collections {
		namespaces = append(namespaces, ns)
	}
	d.mu.Unlock()

	// The default namespace always exists from the store's perspective.
	if len(namespaces) == 0 {
		namespaces = []string{""}
	}

	stats := &vector.Stats{Namespaces: make(map[string]int, len(namespaces))}
	for _, ns := range namespaces {
		collectionID, err := d.collectionID(ctx, ns)
		if err != nil {
			return nil, err
		}

		countURL := fmt.Sprintf("%s%s/collections/%s/count", d.baseURL, apiBase, collectionID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, countURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating count request: %w", err)
		}

		resp, err := d.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: sending count request: %v", vector.ErrConnection, err)
		}

		var count int
		err = json.NewDecoder(resp.Body).Decode(&count)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding count response: %w", err)
		}

		stats.Namespaces[ns] = count
		stats.TotalVectorCount += count
	}

	return stats, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// post issues a JSON POST against the Chroma API and decodes the response
// into out when out is non-nil.
func (d *Driver) post(ctx context.Context, path string, in, out any) error {
	jsonBody, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+apiBase+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending request: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: chroma returned status %d: %s", vector.ErrConnection, resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// Ensure Driver implements vector.Store
var _ vector.Store = (*Driver)(nil)

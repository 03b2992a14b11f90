// Package pinecone provides a Pinecone vector database driver over its
// data-plane REST API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/vector"
)

const (
	// DefaultControlPlaneURL is the Pinecone control-plane endpoint used to
	// resolve an index host when none is configured.
	DefaultControlPlaneURL = "https://api.pinecone.io"
)

// Driver implements vector.Store using Pinecone's REST API.
type Driver struct {
	apiKey     string
	indexName  string
	host       string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds configuration for the Pinecone driver.
type Config struct {
	// APIKey is the Pinecone API key. Required.
	APIKey string

	// IndexName is the name of the index to operate on. Required.
	IndexName string

	// Host is the index data-plane host (e.g.
	// "https://my-index-abc123.svc.us-east-1.pinecone.io"). When empty,
	// the driver resolves it from the control plane at construction.
	Host string

	// ControlPlaneURL overrides the control-plane endpoint. Defaults to
	// DefaultControlPlaneURL if empty. Used by tests.
	ControlPlaneURL string
}

// NewDriver creates a new Pinecone vector driver. When no host is
// configured it makes one control-plane call to describe the index.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("pinecone API key is required")
	}
	if c.IndexName == "" {
		return nil, fmt.Errorf("pinecone index name is required")
	}

	d := &Driver{
		apiKey:    c.APIKey,
		indexName: c.IndexName,
		host:      c.Host,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}

	if d.host == "" {
		controlPlane := c.ControlPlaneURL
		if controlPlane == "" {
			controlPlane = DefaultControlPlaneURL
		}

		host, err := d.resolveHost(context.Background(), controlPlane)
		if err != nil {
			return nil, fmt.Errorf("resolving host for index %q: %w", c.IndexName, err)
		}
		d.host = host
	}

	if !strings.HasPrefix(d.host, "http://") && !strings.HasPrefix(d.host, "https://") {
		d.host = "https://" + d.host
	}

	logger.Info("connected to Pinecone",
		zap.String("index", c.IndexName),
		zap.String("host", d.host),
	)

	return d, nil
}

// resolveHost asks the control plane for the index's data-plane host.
func (d *Driver) resolveHost(ctx context.Context, controlPlane string) (string, error) {
	describeURL := fmt.Sprintf("%s/indexes/%s", controlPlane, d.indexName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, describeURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating describe request: %w", err)
	}
	req.Header.Set("Api-Key", d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sending describe request: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: describe index returned status %d: %s", vector.ErrConnection, resp.StatusCode, string(body))
	}

	var idx describeIndexResponse
	if err := json.NewDecoder(resp.Body).Decode(&idx); err != nil {
		return "", fmt.Errorf("decoding describe response: %w", err)
	}

	if idx.Host == "" {
		return "", fmt.Errorf("control plane returned no host for index %q", d.indexName)
	}

	return idx.Host, nil
}

// Upsert stores records in the given namespace, overwriting records with
// the same ID.
func (d *Driver) Upsert(ctx context.Context, namespace string, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	vectors := make([]upsertVector, len(records))
	for i, rec := range records {
		vectors[i] = upsertVector{
			ID:       rec.ID,
			Values:   rec.Values,
			Metadata: rec.Metadata,
		}
	}

	reqBody := upsertRequest{
		Vectors:   vectors,
		Namespace: namespace,
	}

	var upsertResp upsertResponse
	if err := d.post(ctx, "/vectors/upsert", reqBody, &upsertResp); err != nil {
		return fmt.Errorf("upserting vectors: %w", err)
	}

	d.logger.Debug("upserted vectors to pinecone",
		zap.Int("count", upsertResp.UpsertedCount),
		zap.String("namespace", namespace),
	)

	return nil
}

// Query returns the topK most similar records, ordered by descending
// similarity as returned by Pinecone.
func (d *Driver) Query(ctx context.Context, namespace string, embedding []float32, topK int, includeMetadata bool) ([]vector.Match, error) {
	reqBody := queryRequest{
		Namespace:       namespace,
		Vector:          embedding,
		TopK:            topK,
		IncludeMetadata: includeMetadata,
	}

	var queryResp queryResponse
	if err := d.post(ctx, "/query", reqBody, &queryResp); err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	matches := make([]vector.Match, len(queryResp.Matches))
	for i, m := range queryResp.Matches {
		matches[i] = vector.Match{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: m.Metadata,
		}
	}

	d.logger.Debug("queried pinecone",
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

	q := url.Values{}
	for _, id := range ids {
		q.Add("ids", id)
	}
	if namespace != "" {
		q.Set("namespace", namespace)
	}

	fetchURL := fmt.Sprintf("%s/vectors/fetch?%s", d.host, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating fetch request: %w", err)
	}
	req.Header.Set("Api-Key", d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending fetch request: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: fetch returned status %d: %s", vector.ErrConnection, resp.StatusCode, string(body))
	}

	var fetchResp fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&fetchResp); err != nil {
		return nil, fmt.Errorf("decoding fetch response: %w", err)
	}

	records := make([]vector.Record, 0, len(ids))
	for _, id := range ids {
		v, ok := fetchResp.Vectors[id]
		if !ok {
			continue
		}
		records = append(records, vector.Record{
			ID:       v.ID,
			Values:   v.Values,
			Metadata: v.Metadata,
		})
	}

	return records, nil
}

// Stats reports index-wide statistics via describe_index_stats.
func (d *Driver) Stats(ctx context.Context) (*vector.Stats, error) {
	var statsResp describeIndexStatsResponse
	if err := d.post(ctx, "/describe_index_stats", struct{}{}, &statsResp); err != nil {
		return nil, fmt.Errorf("describing index stats: %w", err)
	}

	stats := &vector.Stats{
		TotalVectorCount: statsResp.TotalVectorCount,
		Namespaces:       make(map[string]int, len(statsResp.Namespaces)),
	}
	for name, ns := range statsResp.Namespaces {
		stats.Namespaces[name] = ns.VectorCount
	}

	return stats, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// post issues a JSON POST against the data-plane host and decodes the
// response into out.
func (d *Driver) post(ctx context.Context, path string, in, out any) error {
	jsonBody, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.host+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Api-Key", d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending request: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: pinecone returned status %d: %s", vector.ErrConnection, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// Ensure Driver implements vector.Store
var _ vector.Store = (*Driver)(nil)

// Package corpus provides the insert and search pipelines over an
// external embedding service and vector store. It is used by both the
// REST API endpoints and the CLI commands.
//
// Each operation is stateless and self-contained: validate, embed, then
// one store call. Nothing is retained locally after the store call
// returns, and no error is retried or swallowed on the way out.
package corpus

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/embeddings"
	"github.com/papercomputeco/shelf/pkg/validate"
	"github.com/papercomputeco/shelf/pkg/vector"
)

// Searcher performs semantic search over stored texts.
type Searcher struct {
	embedder embeddings.Embedder
	store    vector.Store
	params   Params
	logger   *zap.Logger
}

// NewSearcher creates a Searcher over the given embedder and store.
func NewSearcher(embedder embeddings.Embedder, store vector.Store, params Params, logger *zap.Logger) *Searcher {
	return &Searcher{
		embedder: embedder,
		store:    store,
		params:   params,
		logger:   logger,
	}
}

// Search embeds the query text and returns the topK most similar stored
// texts, in the order the store returned them (already sorted by
// descending similarity; no re-sorting happens here). A non-positive topK
// is a validation error; callers that want a default apply DefaultTopK
// before calling.
//
// When the index reports zero stored vectors the search short-circuits to
// an empty result without embedding the query or issuing the similarity
// query. A stats failure is logged and the search proceeds.
func (s *Searcher) Search(ctx context.Context, query string, topK int) (*SearchOutput, error) {
	if err := validate.SearchParams(query, topK, s.params.APIKey, s.params.IndexName); err != nil {
		return nil, err
	}

	s.logger.Debug("search request",
		zap.String("query", query),
		zap.Int("topK", topK),
		zap.String("namespace", s.params.Namespace),
	)

	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch index stats", zap.Error(err))
	} else if stats.TotalVectorCount == 0 {
		return &SearchOutput{Query: query, Results: []Result{}}, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.store.Query(ctx, s.params.Namespace, embedding, topK, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	results := make([]Result, len(matches))
	for i, match := range matches {
		results[i] = NormalizeMatch(match)
	}

	return &SearchOutput{
		Query:   query,
		Results: results,
		Count:   len(results),
	}, nil
}

// NormalizeMatch converts a raw store match into a Result, re-extracting
// the inserted text from metadata.
func NormalizeMatch(match vector.Match) Result {
	text := NoTextPlaceholder
	if v, ok := match.Metadata[TextMetadataKey].(string); ok {
		text = v
	}

	return Result{
		ID:       match.ID,
		Text:     text,
		Score:    match.Score,
		Metadata: match.Metadata,
	}
}

// Inserter embeds and stores new texts.
type Inserter struct {
	embedder embeddings.Embedder
	store    vector.Store
	params   Params
	logger   *zap.Logger
}

// NewInserter creates an Inserter over the given embedder and store.
func NewInserter(embedder embeddings.Embedder, store vector.Store, params Params, logger *zap.Logger) *Inserter {
	return &Inserter{
		embedder: embedder,
		store:    store,
		params:   params,
		logger:   logger,
	}
}

// Insert embeds text and upserts it into the store under a freshly
// generated identifier, which is returned to the caller.
//
// The inserted text is merged into the metadata under TextMetadataKey,
// overwriting any caller-supplied value for that key. A failed embed
// never reaches the store; a failed upsert leaves no partial record.
func (i *Inserter) Insert(ctx context.Context, text string, metadata map[string]any) (string, error) {
	if err := validate.InsertParams(text, metadata, i.params.APIKey, i.params.IndexName); err != nil {
		return "", err
	}

	id := uuid.NewString()

	embedding, err := i.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("failed to embed text: %w", err)
	}

	merged := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		merged[k] = v
	}
	merged[TextMetadataKey] = text

	record := vector.Record{
		ID:       id,
		Values:   embedding,
		Metadata: merged,
	}

	if err := i.store.Upsert(ctx, i.params.Namespace, []vector.Record{record}); err != nil {
		return "", fmt.Errorf("failed to upsert record: %w", err)
	}

	i.logger.Debug("inserted text",
		zap.String("id", id),
		zap.String("namespace", i.params.Namespace),
		zap.Int("dimensions", len(embedding)),
	)

	return id, nil
}

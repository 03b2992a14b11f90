// Package corpusutils assembles insert and search pipelines from a
// resolved configuration.
package corpusutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/config"
	"github.com/papercomputeco/shelf/pkg/corpus"
	"github.com/papercomputeco/shelf/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/shelf/pkg/embeddings/utils"
	"github.com/papercomputeco/shelf/pkg/vector"
	vectorutils "github.com/papercomputeco/shelf/pkg/vector/utils"
)

// Pipelines bundles the two operations plus the adapters they share, so
// callers can Close them when done.
type Pipelines struct {
	Searcher *corpus.Searcher
	Inserter *corpus.Inserter

	embedder embeddings.Embedder
	store    vector.Store
}

// New builds the embedder, vector store, and both pipelines from cfg.
// Missing credentials or index name surface as *config.MissingError
// before any adapter is constructed.
func New(cfg *config.Config, logger *zap.Logger) (*Pipelines, error) {
	if err := cfg.RequireStore(); err != nil {
		return nil, err
	}
	if err := cfg.RequireEmbedding(); err != nil {
		return nil, err
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		APIKey:       cfg.Embedding.APIKey,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	store, err := vectorutils.NewStore(&vectorutils.NewStoreOpts{
		ProviderType: cfg.VectorStore.Provider,
		APIKey:       cfg.VectorStore.APIKey,
		IndexName:    cfg.VectorStore.Index,
		Host:         cfg.VectorStore.Host,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	params := corpus.Params{
		APIKey:    cfg.StoreCredential(),
		IndexName: cfg.VectorStore.Index,
		Namespace: cfg.VectorStore.Namespace,
	}

	return &Pipelines{
		Searcher: corpus.NewSearcher(embedder, store, params, logger),
		Inserter: corpus.NewInserter(embedder, store, params, logger),
		embedder: embedder,
		store:    store,
	}, nil
}

// Close releases the underlying adapters.
func (p *Pipelines) Close() error {
	if err := p.embedder.Close(); err != nil {
		return err
	}
	return p.store.Close()
}

package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/vector"
	"github.com/papercomputeco/shelf/pkg/vector/chroma"
	"github.com/papercomputeco/shelf/pkg/vector/pinecone"
)

type NewStoreOpts struct {
	ProviderType string
	APIKey       string
	IndexName    string
	Host         string
	Logger       *zap.Logger
}

func NewStore(o *NewStoreOpts) (vector.Store, error) {
	switch o.ProviderType {
	case "pinecone":
		return pinecone.NewDriver(pinecone.Config{
			APIKey:    o.APIKey,
			IndexName: o.IndexName,
			Host:      o.Host,
		}, o.Logger)
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:       o.Host,
			IndexName: o.IndexName,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}

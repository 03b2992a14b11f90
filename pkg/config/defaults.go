package config

const (
	defaultAPIListen = ":8081"

	defaultVectorProvider    = "pinecone"
	defaultEmbeddingProvider = "openai"
	defaultEmbeddingModel    = "text-embedding-3-small"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values. Credentials and
// the index name have no default; they must come from flags, environment,
// or the config file.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Embedding: EmbeddingConfig{
			Provider: defaultEmbeddingProvider,
			Model:    defaultEmbeddingModel,
		},
	}
}

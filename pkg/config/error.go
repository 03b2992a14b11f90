package config

import (
	"fmt"
	"strings"
)

// MissingError reports a required configuration value absent from flags,
// environment, and the config file alike. It is raised locally, before
// any network activity, and is distinct from a validation error so
// callers can tell bad input from missing setup.
type MissingError struct {
	// Key is the dotted config key (e.g. "vector_store.api_key").
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("required configuration %q is not set: pass the flag, set %s, or run: shelf config set %s <value>",
		e.Key, EnvVar(e.Key), e.Key)
}

// EnvVar returns the environment variable name for a dotted config key
// (e.g. "vector_store.api_key" -> "SHELF_VECTOR_STORE_API_KEY").
func EnvVar(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// RequireStore checks that the store credential and index name are
// present, returning a MissingError naming the first absent key.
func (c *Config) RequireStore() error {
	if c.VectorStore.APIKey == "" && c.VectorStore.Provider == defaultVectorProvider {
		return &MissingError{Key: "vector_store.api_key"}
	}
	if c.VectorStore.Index == "" {
		return &MissingError{Key: "vector_store.index"}
	}
	return nil
}

// StoreCredential returns the value operations treat as the store
// credential: the API key for keyed providers, the host URL for
// credential-less ones.
func (c *Config) StoreCredential() string {
	if c.VectorStore.APIKey != "" {
		return c.VectorStore.APIKey
	}
	if c.VectorStore.Provider != defaultVectorProvider {
		return c.VectorStore.Host
	}
	return ""
}

// RequireEmbedding checks that the embedding credential is present for
// providers that need one.
func (c *Config) RequireEmbedding() error {
	if c.Embedding.APIKey == "" && c.Embedding.Provider == defaultEmbeddingProvider {
		return &MissingError{Key: "embedding.api_key"}
	}
	return nil
}

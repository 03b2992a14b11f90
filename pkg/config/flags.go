package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --index
// on "shelf search", "shelf insert", and "shelf serve").
type Flag struct {
	// Name is the long flag name (e.g. "index").
	Name string

	// Shorthand is the one-letter short flag (e.g. "i"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "vector_store.index").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag registry keys to Flag structs.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag and BindRegisteredFlags
// to avoid typos or drift from one command to another.
const (
	FlagAPIListen      = "api-listen"
	FlagStoreProvider  = "store-provider"
	FlagStoreAPIKey    = "store-api-key"
	FlagIndex          = "index"
	FlagNamespace      = "namespace"
	FlagStoreHost      = "store-host"
	FlagEmbeddingProv  = "embedding-provider"
	FlagEmbeddingKey   = "embedding-api-key"
	FlagEmbeddingTgt   = "embedding-target"
	FlagEmbeddingModel = "embedding-model"
)

// Flags is the shared flag registry for all shelf commands.
var Flags = FlagSet{
	FlagAPIListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	FlagStoreProvider: {
		Name:        "store-provider",
		ViperKey:    "vector_store.provider",
		Description: "Vector store provider (pinecone, chroma)",
	},
	FlagStoreAPIKey: {
		Name:        "store-api-key",
		ViperKey:    "vector_store.api_key",
		Description: "Vector store API key",
	},
	FlagIndex: {
		Name:        "index",
		Shorthand:   "i",
		ViperKey:    "vector_store.index",
		Description: "Vector store index name",
	},
	FlagNamespace: {
		Name:        "namespace",
		Shorthand:   "n",
		ViperKey:    "vector_store.namespace",
		Description: "Namespace within the index (default: the store's default partition)",
	},
	FlagStoreHost: {
		Name:        "store-host",
		ViperKey:    "vector_store.host",
		Description: "Vector store host URL (resolved from the control plane when unset)",
	},
	FlagEmbeddingProv: {
		Name:        "embedding-provider",
		ViperKey:    "embedding.provider",
		Description: "Embedding provider (openai, ollama)",
	},
	FlagEmbeddingKey: {
		Name:        "embedding-api-key",
		ViperKey:    "embedding.api_key",
		Description: "Embedding provider API key",
	},
	FlagEmbeddingTgt: {
		Name:        "embedding-target",
		ViperKey:    "embedding.target",
		Description: "Embedding provider URL (defaults to the provider's public endpoint)",
	},
	FlagEmbeddingModel: {
		Name:        "embedding-model",
		ViperKey:    "embedding.model",
		Description: "Embedding model identifier",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

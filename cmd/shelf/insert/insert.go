// Package insertcmder provides the insert command for embedding and
// storing new texts.
package insertcmder

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/cliui"
	"github.com/papercomputeco/shelf/pkg/config"
	corpusutils "github.com/papercomputeco/shelf/pkg/corpus/utils"
	"github.com/papercomputeco/shelf/pkg/logger"
	"github.com/papercomputeco/shelf/pkg/validate"
)

type insertCommander struct {
	text string
	meta []string

	storeAPIKey  string
	index        string
	namespace    string
	storeHost    string
	embeddingKey string

	cfg    *config.Config
	debug  bool
	logger *zap.Logger
}

const insertLongDesc string = `Embed a text and store it in the vector store.

The text is embedded via the configured embedding provider and upserted
into the vector store under a freshly generated ID, which is printed on
success. Metadata key=value pairs are stored alongside the vector.

The inserted text is always stored in the metadata under the reserved
"text" key; a caller-supplied "text" metadata value is overwritten.

Example:
  shelf insert "The quick brown fox jumps over the lazy dog"
  shelf insert "Q3 pricing changes" --meta category=pricing --meta quarter=q3
  shelf insert "internal note" --namespace drafts`

const insertShortDesc string = "Embed and store a text"

func NewInsertCmd() *cobra.Command {
	cmder := &insertCommander{}

	cmd := &cobra.Command{
		Use:   "insert <text>",
		Short: insertShortDesc,
		Long:  insertLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagStoreAPIKey,
				config.FlagIndex,
				config.FlagNamespace,
				config.FlagStoreHost,
				config.FlagEmbeddingKey,
			})

			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.text = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&cmder.meta, "meta", "m", nil, "Metadata key=value pair (can be used multiple times)")
	config.AddStringFlag(cmd, config.Flags, config.FlagStoreAPIKey, &cmder.storeAPIKey)
	config.AddStringFlag(cmd, config.Flags, config.FlagIndex, &cmder.index)
	config.AddStringFlag(cmd, config.Flags, config.FlagNamespace, &cmder.namespace)
	config.AddStringFlag(cmd, config.Flags, config.FlagStoreHost, &cmder.storeHost)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingKey, &cmder.embeddingKey)

	return cmd
}

func (c *insertCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	metadata, err := ParseMeta(c.meta)
	if err != nil {
		return err
	}

	// Fail fast on bad input before constructing any network client.
	if err := validate.InsertParams(c.text, metadata, c.cfg.StoreCredential(), c.cfg.VectorStore.Index); err != nil {
		return err
	}

	pipelines, err := corpusutils.New(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = pipelines.Close() }()

	var id string
	if err := cliui.Step(os.Stdout, "Embedding and storing text", func() error {
		var insertErr error
		id, insertErr = pipelines.Inserter.Insert(cmd.Context(), c.text, metadata)
		return insertErr
	}); err != nil {
		return err
	}

	namespace := c.cfg.VectorStore.Namespace
	if namespace == "" {
		namespace = "default"
	}

	fmt.Printf("\n  %s Stored %s %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(id),
		cliui.DimStyle.Render(fmt.Sprintf("(index %s, namespace %s)", c.cfg.VectorStore.Index, namespace)),
	)
	return nil
}

// ParseMeta parses repeated key=value flags into a metadata map.
func ParseMeta(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	metadata := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --meta %q: expected key=value", pair)
		}
		metadata[key] = value
	}

	return metadata, nil
}

// Package searchcmder provides the search command for semantic search over
// stored texts.
package searchcmder

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/config"
	"github.com/papercomputeco/shelf/pkg/corpus"
	corpusutils "github.com/papercomputeco/shelf/pkg/corpus/utils"
	"github.com/papercomputeco/shelf/pkg/logger"
	"github.com/papercomputeco/shelf/pkg/utils"
	"github.com/papercomputeco/shelf/pkg/validate"
)

var (
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query string
	topK  int
	quiet bool

	storeAPIKey  string
	index        string
	namespace    string
	storeHost    string
	embeddingKey string

	cfg    *config.Config
	debug  bool
	logger *zap.Logger
}

const searchLongDesc string = `Search stored texts by semantic similarity.

Embeds the query text and returns the most similar stored texts from the
vector store, ordered by descending similarity score.

Use --quiet to output only record IDs, one per line, for piping into
other commands.

Example:
  shelf search "how to configure logging"
  shelf search "error handling patterns" --top 10
  shelf search "pricing questions" --namespace support
  shelf search "charm CLI" --quiet`

const searchShortDesc string = "Search stored texts"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
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
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd)
		},
	}

	cmd.Flags().IntVarP(&cmder.topK, "top", "k", corpus.DefaultTopK, "Number of results to return")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only record IDs, one per line (for piping)")
	config.AddStringFlag(cmd, config.Flags, config.FlagStoreAPIKey, &cmder.storeAPIKey)
	config.AddStringFlag(cmd, config.Flags, config.FlagIndex, &cmder.index)
	config.AddStringFlag(cmd, config.Flags, config.FlagNamespace, &cmder.namespace)
	config.AddStringFlag(cmd, config.Flags, config.FlagStoreHost, &cmder.storeHost)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingKey, &cmder.embeddingKey)

	return cmd
}

func (c *searchCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	// Fail fast on bad input before constructing any network client.
	if err := validate.SearchParams(c.query, c.topK, c.cfg.StoreCredential(), c.cfg.VectorStore.Index); err != nil {
		return err
	}

	pipelines, err := corpusutils.New(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = pipelines.Close() }()

	output, err := pipelines.Searcher.Search(cmd.Context(), c.query, c.topK)
	if err != nil {
		return err
	}

	if output.Count == 0 {
		if !c.quiet {
			fmt.Println("No results found.")
		}
		return nil
	}

	if c.quiet {
		for _, result := range output.Results {
			fmt.Println(result.ID)
		}
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Search Results for:"),
		idStyle.Render(fmt.Sprintf("%q", output.Query)),
	)

	for i, result := range output.Results {
		printResult(i+1, result)
	}

	return nil
}

func printResult(rank int, result corpus.Result) {
	fmt.Printf("  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", result.Score)),
		idStyle.Render(result.ID),
	)

	text := strings.ReplaceAll(utils.Truncate(result.Text, 100), "\n", " ")
	fmt.Printf("  %s\n", textStyle.Render(text))

	if len(result.Metadata) > 0 {
		for key, value := range result.Metadata {
			if key == corpus.TextMetadataKey {
				continue
			}
			fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("%s: %v", key, value)))
		}
	}

	fmt.Println()
}

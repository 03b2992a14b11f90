// Package servecmder provides the serve command for running the HTTP API
// server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/api"
	"github.com/papercomputeco/shelf/pkg/config"
	corpusutils "github.com/papercomputeco/shelf/pkg/corpus/utils"
	"github.com/papercomputeco/shelf/pkg/logger"
)

type serveCommander struct {
	listen string

	storeAPIKey   string
	storeProvider string
	index         string
	namespace     string
	storeHost     string
	embeddingProv string
	embeddingKey  string
	embeddingTgt  string
	embeddingMdl  string

	cfg    *config.Config
	debug  bool
	logger *zap.Logger
}

const serveLongDesc string = `Run the shelf HTTP API server.

Exposes the insert and search pipelines over HTTP:
  GET  /v1/search?query=...&top_k=N
  POST /v1/insert  {"text": "...", "metadata": {...}}
  GET  /ping

Example:
  shelf serve
  shelf serve --listen :9090
  SHELF_VECTOR_STORE_API_KEY=... SHELF_EMBEDDING_API_KEY=... shelf serve`

const serveShortDesc string = "Run the shelf API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagAPIListen,
				config.FlagStoreProvider,
				config.FlagStoreAPIKey,
				config.FlagIndex,
				config.FlagNamespace,
				config.FlagStoreHost,
				config.FlagEmbeddingProv,
				config.FlagEmbeddingKey,
				config.FlagEmbeddingTgt,
				config.FlagEmbeddingModel,
			})

			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagStoreProvider, &cmder.storeProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagStoreAPIKey, &cmder.storeAPIKey)
	config.AddStringFlag(cmd, config.Flags, config.FlagIndex, &cmder.index)
	config.AddStringFlag(cmd, config.Flags, config.FlagNamespace, &cmder.namespace)
	config.AddStringFlag(cmd, config.Flags, config.FlagStoreHost, &cmder.storeHost)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embeddingProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingKey, &cmder.embeddingKey)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embeddingTgt)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embeddingMdl)

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	pipelines, err := corpusutils.New(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = pipelines.Close() }()

	apiConfig := api.Config{
		ListenAddr: c.cfg.API.Listen,
	}
	server := api.NewServer(apiConfig, pipelines.Searcher, pipelines.Inserter, c.logger)

	c.logger.Info("starting api server",
		zap.String("listen", c.cfg.API.Listen),
		zap.String("store_provider", c.cfg.VectorStore.Provider),
		zap.String("index", c.cfg.VectorStore.Index),
		zap.String("embedding_provider", c.cfg.Embedding.Provider),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

// Package shelfcmder
package shelfcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/shelf/cmd/shelf/config"
	insertcmder "github.com/papercomputeco/shelf/cmd/shelf/insert"
	searchcmder "github.com/papercomputeco/shelf/cmd/shelf/search"
	servecmder "github.com/papercomputeco/shelf/cmd/shelf/serve"
	versioncmder "github.com/papercomputeco/shelf/cmd/version"
)

const shelfLongDesc string = `Shelf stores texts in a managed vector database and finds
the ones most similar to a query.

Store and search using:
  shelf insert "some text"           Embed and store a text
  shelf search "a query"             Find similar stored texts
  shelf serve                        Run the HTTP API server

Credentials and the index name come from flags, SHELF_* environment
variables, or .shelf/config.toml (shelf config set <key> <value>).`

const shelfShortDesc string = "Shelf - semantic text store & search"

func NewShelfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: shelfShortDesc,
		Long:  shelfLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .shelf/ config directory")

	// Add subcommands
	cmd.AddCommand(insertcmder.NewInsertCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}

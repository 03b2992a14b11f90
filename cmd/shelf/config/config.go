// Package configcmder provides the config command for managing persistent
// shelf configuration stored in the .shelf/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent shelf configuration.

Configuration is stored as config.toml in the .shelf/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen,
  vector_store.provider, vector_store.api_key, vector_store.index,
  vector_store.namespace, vector_store.host,
  embedding.provider, embedding.api_key, embedding.target, embedding.model

Use subcommands to get, set, or list configuration values:
  shelf config set <key> <value>    Set a configuration value
  shelf config get <key>            Get a configuration value
  shelf config list                 List all configuration values

Examples:
  shelf config set vector_store.index my-corpus
  shelf config set embedding.model text-embedding-3-small
  shelf config get vector_store.provider
  shelf config list`

const configShortDesc string = "Manage persistent shelf configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

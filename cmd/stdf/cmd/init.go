/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/stdfkit/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with a generated API key",
	Long: `Write a default configuration file and generate an API key for the server.

Examples:
  stdf init
  stdf init --index-dir ./index --config ./stdf.yaml
  stdf init --force --print-key`,
	Args: cobra.NoArgs,
	// init writes the config the container is built from
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		indexDir, _ := cmd.Flags().GetString("index-dir")
		force, _ := cmd.Flags().GetBool("force")
		printKey, _ := cmd.Flags().GetBool("print-key")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		cfg, err := initConfig(configPath, indexDir, force)
		if err != nil {
			return err
		}
		if cfg == nil {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		cmd.Printf("✅ Configuration created at %s\n", configPath)
		cmd.Printf("Index directory: %s\n", cfg.Index.Dir)
		if printKey {
			cmd.Printf("API key: %s\n", cfg.Server.APIKey)
		}
		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  stdf serve --config %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("index-dir", "", "Directory of the record index (default: ./index)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")
}

// initConfig bootstraps the configuration at path. It returns nil without
// error when the file exists and force is not set.
func initConfig(path, indexDir string, force bool) (*config.Config, error) {
	if config.ConfigExists(path) && !force {
		return nil, nil
	}
	cfg, err := config.BootstrapConfig(path, indexDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to bootstrap config")
	}
	return cfg, nil
}

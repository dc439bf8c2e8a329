/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/stdfkit/pkg/config"
	"github.com/ssargent/stdfkit/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container. Commands build one from the
// configuration when none was set.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stdf",
	Short: "STDF V4 record toolkit",
	Long: `stdf decodes, encodes, indexes and serves STDF V4 test data files.

Settings are read from the configuration file (see 'stdf init'); a missing
file means the defaults.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container != nil {
			return nil
		}
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")
		c, err := buildContainer(configPath, verbose)
		if err != nil {
			return err
		}
		container = c
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return nil
		}
		_ = container.Logger().Sync()
		return container.Close()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadConfig reads the configuration at path, falling back to the defaults
// when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	if !config.ConfigExists(path) {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

func buildContainer(configPath string, verbose bool) (*di.Container, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	logger, err := cfg.Logging.NewLogger(verbose)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return di.NewContainer(cfg, logger), nil
}

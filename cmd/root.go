// Package cmd provides the command-line interface for lume-cli.
//
// Configuration precedence, highest first: command-line flags, LUME_*
// environment variables, the project's .lume.yml, built-in defaults. The
// project config file is discovered from the project root (found by walking
// upward to the package.json marker), not the working directory.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lumeui/lume-cli/internal/logging"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lume",
	Short: "Development tooling for the Lume front-end framework",
	Long: `Lume CLI scaffolds, builds, and serves projects built on the Lume
front-end widget framework. Pages live in src/pages; the CLI derives the
application router from their filenames and keeps the generated src/router.js
in sync as pages are added and removed.

Quick Start:
  lume init my-app                Scaffold a new project
  lume dev                        Start the development session
  lume build                      One-shot production synthesis`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// newLogger builds the process logger from the persistent flags.
func newLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: viper.GetString("log-format"),
		Output: os.Stderr,
	})
}

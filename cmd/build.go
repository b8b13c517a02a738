package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumeui/lume-cli/internal/plugin"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Synthesize the router for a production build",
	Long: `Run one synthesis pass without a watcher or dev server: resolve the
project root, load configuration, scan the pages directory, and write the
generated router when its content changed.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addOverrideFlags(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	adapter := plugin.NewAdapter(workDir, overridesFromFlags(cmd.Flags()), logger)

	compiler := plugin.NewCompiler(&plugin.Options{Mode: plugin.ModeProduction})
	adapter.Apply(compiler)

	if err := compiler.RunAfterConfigure(cmd.Context()); err != nil {
		logger.Error(cmd.Context(), err, "build failed")
		os.Exit(1)
	}

	fmt.Printf("Router synthesized at %s\n", adapter.RouterPath())
	return nil
}

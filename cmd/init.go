package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lumeui/lume-cli/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:     "init [name]",
	Aliases: []string{"i"},
	Short:   "Scaffold a new Lume project",
	Long: `Create a new Lume project: package.json, .lume.yml, a placeholder
index page, and a public/index.html shell.

Examples:
  lume init my-app                # New project in ./my-app
  lume init                       # Scaffold into the current directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	name := filepath.Base(abs)

	if err := scaffold.Generate(dir, name); err != nil {
		newLogger().Error(cmd.Context(), err, "init failed")
		os.Exit(1)
	}

	fmt.Printf("Created Lume project %q in %s\n", name, dir)
	fmt.Println("Next: cd into the project and run `lume dev`")
	return nil
}

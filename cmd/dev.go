package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lumeui/lume-cli/internal/config"
	"github.com/lumeui/lume-cli/internal/plugin"
	"github.com/lumeui/lume-cli/internal/server"
)

var devCmd = &cobra.Command{
	Use:     "dev",
	Aliases: []string{"d", "serve"},
	Short:   "Start the development session",
	Long: `Start the development session: synthesize the router once, watch the
pages directory for additions and removals, and serve the project with
history-fallback routing and websocket live reload.

Examples:
  lume dev                         # Serve on localhost:3000
  lume dev --port 8080             # Custom port
  lume dev --pages src/screens     # Non-default pages directory`,
	RunE: runDev,
}

func init() {
	rootCmd.AddCommand(devCmd)

	devCmd.Flags().IntP("port", "p", 3000, "Port to serve on")
	devCmd.Flags().String("host", "localhost", "Host to bind to")
	addOverrideFlags(devCmd)
}

// addOverrideFlags registers the flags that override stored configuration.
func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().String("home", "", "Home page candidate (page identifier)")
	cmd.Flags().String("pages", "", "Pages directory, relative to the project root")
	cmd.Flags().String("title", "", "HTML document title")
	cmd.Flags().Bool("ssr", false, "Request server-side rendering (unsupported)")
}

// overridesFromFlags collects only the flags the caller actually set, so
// unset flags never shadow stored configuration.
func overridesFromFlags(flags *pflag.FlagSet) config.Overrides {
	var o config.Overrides

	if flags.Changed("home") {
		o.Home, _ = flags.GetString("home")
	}
	if flags.Changed("pages") {
		o.Pages, _ = flags.GetString("pages")
	}
	if flags.Changed("title") {
		o.Title, _ = flags.GetString("title")
	}
	if flags.Changed("ssr") {
		ssr, _ := flags.GetBool("ssr")
		o.SSR = &ssr
	}

	return o
}

func runDev(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	adapter := plugin.NewAdapter(workDir, overridesFromFlags(cmd.Flags()), logger)
	defer func() { _ = adapter.Stop() }()

	compiler := plugin.NewCompiler(&plugin.Options{Mode: plugin.ModeDevelopment})
	adapter.Apply(compiler)

	if err := compiler.RunAfterConfigure(ctx); err != nil {
		logger.Error(ctx, err, "startup failed")
		os.Exit(1)
	}

	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")

	srv := server.New(host, port, adapter.Root(), compiler.Options.Title,
		compiler.Options.DevServer, logger)

	adapter.OnResynthesis(func(wrote bool) {
		if wrote {
			srv.BroadcastReload()
		}
	})

	fmt.Printf("Lume dev server at http://%s\n", srv.Addr())

	return srv.Start(ctx)
}

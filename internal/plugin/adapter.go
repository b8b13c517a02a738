package plugin

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/lumeui/lume-cli/internal/config"
	lumeerrors "github.com/lumeui/lume-cli/internal/errors"
	"github.com/lumeui/lume-cli/internal/logging"
	"github.com/lumeui/lume-cli/internal/pages"
	"github.com/lumeui/lume-cli/internal/router"
	"github.com/lumeui/lume-cli/internal/watcher"
)

// DefaultDebounce is the watcher debounce window for page add/remove bursts.
const DefaultDebounce = 100 * time.Millisecond

// Adapter is the Lume build plugin. It is registered with the build tool via
// Apply and does its work on the after-configuration lifecycle event:
// project root resolution, configuration load/merge, initial synthesis,
// option patching, and (outside production) starting the change watcher.
type Adapter struct {
	workDir   string
	overrides config.Overrides
	debounce  time.Duration
	logger    logging.Logger

	// resolved during after-configuration
	root   string
	config *config.Config

	watcher *watcher.PageWatcher

	mutex         sync.Mutex
	onResynthesis []func(wrote bool)
}

// NewAdapter creates the plugin adapter. workDir is where root finding
// starts; overrides win over the stored project configuration.
func NewAdapter(workDir string, overrides config.Overrides, logger logging.Logger) *Adapter {
	return &Adapter{
		workDir:   workDir,
		overrides: overrides,
		debounce:  DefaultDebounce,
		logger:    logger.WithComponent("plugin"),
	}
}

// Apply registers the adapter's hooks with the compiler. This is the entry
// point the build orchestration consumes.
func (a *Adapter) Apply(c *Compiler) {
	c.TapAfterConfigure(a.afterConfigure)
	c.TapCompilationDone(a.compilationDone)
}

// Root returns the resolved project root. Valid after after-configuration.
func (a *Adapter) Root() string {
	return a.root
}

// Config returns the effective configuration. Valid after after-configuration.
func (a *Adapter) Config() *config.Config {
	return a.config
}

// RouterPath returns the generated router artifact path for this project.
func (a *Adapter) RouterPath() string {
	return filepath.Join(a.root, "src", router.FileName)
}

// OnResynthesis registers a callback invoked after every watcher-triggered
// synthesis pass. The dev server uses it to broadcast reloads.
func (a *Adapter) OnResynthesis(fn func(wrote bool)) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.onResynthesis = append(a.onResynthesis, fn)
}

// afterConfigure is the after-configuration hook: the one place the system
// resolves its environment and performs the initial synthesis. All failures
// here are fatal to startup.
func (a *Adapter) afterConfigure(ctx context.Context, c *Compiler) error {
	root, ok := FindProjectRoot(a.workDir)
	if !ok {
		a.logger.Info(ctx, "no project marker found, using working directory", "dir", a.workDir)
		root = a.workDir
	}
	a.root = root

	cfg, existed, err := config.Load(root, a.overrides)
	if err != nil {
		return err
	}
	a.config = cfg

	if !existed {
		if err := cfg.Persist(root); err != nil {
			return err
		}
		a.logger.Info(ctx, "created project configuration", "path", filepath.Join(root, config.FileName))
	}

	if cfg.SSR {
		return lumeerrors.NewUnsupportedError("ssr_unsupported",
			"server-side rendering is not implemented; remove ssr from "+config.FileName)
	}

	if _, err := a.Resynthesize(false); err != nil {
		return err
	}

	c.Options.Title = cfg.Title

	if c.Options.Mode != ModeProduction {
		c.Options.DevServer.HistoryFallback = true

		if err := a.startWatcher(ctx); err != nil {
			return lumeerrors.NewIOError("watch_start", "starting page watcher", err, false).WithPath(cfg.PagesDir(root))
		}
	}

	return nil
}

// compilationDone is a pure notification hook.
func (a *Adapter) compilationDone(ctx context.Context, result CompilationResult) {
	if result.Succeeded {
		a.logger.Info(ctx, "compilation complete", "duration", result.Duration)
		return
	}
	a.logger.Info(ctx, "compilation finished with errors", "duration", result.Duration)
}

// Resynthesize runs one full scan -> home detection -> synthesis -> gated
// write pass. recoverable marks failures as survivable (watcher passes) or
// fatal (startup).
func (a *Adapter) Resynthesize(recoverable bool) (wrote bool, err error) {
	pagesDir := a.config.PagesDir(a.root)

	set, err := pages.Scan(pagesDir)
	if err != nil {
		return false, markRecoverable(err, recoverable)
	}

	home, created, err := pages.AutoDetectHome(set, a.config.Home, pagesDir)
	if err != nil {
		return false, markRecoverable(err, recoverable)
	}
	if created {
		set = append(set, home)
	}

	outDir := filepath.Dir(a.RouterPath())
	text, err := router.Synthesize(set, home, outDir)
	if err != nil {
		return false, err
	}

	return router.WriteIfChanged(a.RouterPath(), text, recoverable)
}

// startWatcher wires the change watcher to re-synthesis for the rest of the
// development session. Pass failures are logged, never fatal.
func (a *Adapter) startWatcher(ctx context.Context) error {
	pw, err := watcher.New(a.config.PagesDir(a.root), a.debounce, a.logger)
	if err != nil {
		return err
	}
	a.watcher = pw

	pw.AddHandler(func(events []watcher.ChangeEvent) error {
		wrote, err := a.Resynthesize(true)
		if err != nil {
			return err
		}

		a.logger.Info(ctx, "pages changed, router re-synthesized",
			"events", len(events), "wrote", wrote)

		a.mutex.Lock()
		callbacks := a.onResynthesis
		a.mutex.Unlock()
		for _, fn := range callbacks {
			fn(wrote)
		}
		return nil
	})

	return pw.Start(ctx)
}

// Stop releases the watcher, if one was started.
func (a *Adapter) Stop() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Stop()
}

// markRecoverable downgrades an I/O error to recoverable for watcher passes.
// Configuration errors stay fatal regardless.
func markRecoverable(err error, recoverable bool) error {
	if !recoverable {
		return err
	}
	var le *lumeerrors.LumeError
	if errors.As(err, &le) && le.Type == lumeerrors.ErrorTypeIO {
		le.Recoverable = true
	}
	return err
}

// Package plugin contains the build-tool plugin adapter that drives router
// synthesis from compiler lifecycle events.
//
// The compiler handle exposes a small closed set of named lifecycle events
// (after-configuration, compilation-done) with typed payloads plus its
// in-memory option tree. Plugins subscribe explicitly via the Tap methods;
// the build orchestration invokes Run/Notify at the corresponding points of
// its lifecycle. This keeps the adapter's contract testable independent of
// any specific bundler.
package plugin

import (
	"context"
)

// Mode distinguishes production builds from development sessions.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Options is the compiler's in-memory option tree. The adapter patches it
// during after-configuration, before compilation starts.
type Options struct {
	Mode      Mode
	Title     string
	DevServer DevServerOptions
}

// DevServerOptions holds the dev-server flags a plugin may patch.
type DevServerOptions struct {
	// HistoryFallback rewrites unknown GET paths to the index document so
	// client-side routes survive a full page load.
	HistoryFallback bool
}

// CompilationResult is the payload of the compilation-done event.
type CompilationResult struct {
	Succeeded bool
	Duration  string
}

// AfterConfigureHook runs once the build tool has configured all plugins.
type AfterConfigureHook func(ctx context.Context, c *Compiler) error

// CompilationDoneHook runs after a compilation finishes. Notification only.
type CompilationDoneHook func(ctx context.Context, result CompilationResult)

// Compiler is the handle a build tool hands to registered plugins.
type Compiler struct {
	Options *Options

	afterConfigure  []AfterConfigureHook
	compilationDone []CompilationDoneHook
}

// NewCompiler creates a compiler handle with the given option tree.
func NewCompiler(opts *Options) *Compiler {
	if opts == nil {
		opts = &Options{Mode: ModeDevelopment}
	}
	return &Compiler{Options: opts}
}

// TapAfterConfigure subscribes to the after-configuration event.
func (c *Compiler) TapAfterConfigure(hook AfterConfigureHook) {
	c.afterConfigure = append(c.afterConfigure, hook)
}

// TapCompilationDone subscribes to the compilation-done event.
func (c *Compiler) TapCompilationDone(hook CompilationDoneHook) {
	c.compilationDone = append(c.compilationDone, hook)
}

// RunAfterConfigure fires the after-configuration event. The first hook
// error aborts the run and is returned to the build orchestration.
func (c *Compiler) RunAfterConfigure(ctx context.Context) error {
	for _, hook := range c.afterConfigure {
		if err := hook(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// NotifyCompilationDone fires the compilation-done event.
func (c *Compiler) NotifyCompilationDone(ctx context.Context, result CompilationResult) {
	for _, hook := range c.compilationDone {
		hook(ctx, result)
	}
}

// Package config provides configuration management for Lume projects using
// Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// A project carries a single .lume.yml at its root with the keys home, pages,
// ssr, and title. The file is created with defaults on first run if absent.
// On later runs stored values are merged with caller-supplied overrides, with
// overrides winning. Configuration is read once per process; changing it
// requires a restart.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	lumeerrors "github.com/lumeui/lume-cli/internal/errors"
)

// FileName is the project-local configuration artifact.
const FileName = ".lume.yml"

// Config is the effective project configuration.
type Config struct {
	// Home is the preferred home page candidate (a page identifier).
	Home string `yaml:"home" mapstructure:"home"`
	// Pages is the pages directory, relative to the project root.
	Pages string `yaml:"pages" mapstructure:"pages"`
	// SSR requests server-side rendering. No synthesis path exists for it;
	// the plugin adapter fails fast when it is set.
	SSR bool `yaml:"ssr" mapstructure:"ssr"`
	// Title is the HTML document title patched into the dev server output.
	Title string `yaml:"title" mapstructure:"title"`
}

// Overrides are caller-supplied values that win over stored configuration.
// Zero values mean "not supplied"; SSR is a pointer for that reason.
type Overrides struct {
	Home  string
	Pages string
	SSR   *bool
	Title string
}

// Load reads .lume.yml from the project root if present, merges stored
// values with overrides (overrides win), and applies defaults. The second
// return value reports whether a config file already existed on disk.
func Load(root string, overrides Overrides) (*Config, bool, error) {
	v := viper.New()
	path := filepath.Join(root, FileName)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LUME")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv only resolves keys viper already knows about, and on a
	// first run none exist yet. Bind the schema keys explicitly so LUME_HOME
	// and friends take effect with or without a config file.
	for _, key := range []string{"home", "pages", "ssr", "title"} {
		if err := v.BindEnv(key); err != nil {
			return nil, false, lumeerrors.NewInternalError("config_env", "binding environment variables", err)
		}
	}

	existed := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			existed = false
		} else {
			return nil, false, lumeerrors.NewConfigError("config_read",
				fmt.Sprintf("reading %s: %v", FileName, err)).WithPath(path)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, existed, lumeerrors.NewConfigError("config_parse",
			fmt.Sprintf("parsing %s: %v", FileName, err)).WithPath(path)
	}

	config.merge(overrides)
	config.applyDefaults(root)

	if err := config.validate(); err != nil {
		return nil, existed, err
	}

	return &config, existed, nil
}

// merge applies caller overrides on top of stored values. Overrides win.
func (c *Config) merge(o Overrides) {
	if o.Home != "" {
		c.Home = o.Home
	}
	if o.Pages != "" {
		c.Pages = o.Pages
	}
	if o.SSR != nil {
		c.SSR = *o.SSR
	}
	if o.Title != "" {
		c.Title = o.Title
	}
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults(root string) {
	if c.Home == "" {
		c.Home = "index"
	}
	if c.Pages == "" {
		c.Pages = filepath.Join("src", "pages")
	}
	if c.Title == "" {
		c.Title = filepath.Base(root)
	}
}

// validate checks configuration values for correctness and path safety.
func (c *Config) validate() error {
	if c.Pages == "" {
		return lumeerrors.NewConfigError("config_pages", "pages directory must not be empty")
	}

	cleanPath := filepath.Clean(c.Pages)
	if strings.Contains(cleanPath, "..") {
		return lumeerrors.NewConfigError("config_pages",
			fmt.Sprintf("pages directory contains path traversal: %s", c.Pages))
	}
	if filepath.IsAbs(cleanPath) {
		return lumeerrors.NewConfigError("config_pages",
			fmt.Sprintf("pages directory should be relative to the project root: %s", c.Pages))
	}

	return nil
}

// Persist writes the effective configuration to the project root as YAML.
// Used on first run when no config file existed.
func (c *Config) Persist(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return lumeerrors.NewInternalError("config_encode", "encoding configuration", err)
	}

	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return lumeerrors.NewIOError("config_write", "writing configuration", err, false).WithPath(path)
	}

	return nil
}

// PagesDir resolves the configured pages directory against the project root.
func (c *Config) PagesDir(root string) string {
	return filepath.Join(root, c.Pages)
}

// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rs/zerolog"
	"github.com/xonecas/mermedit/internal/constants"
	"github.com/xonecas/mermedit/internal/document"
	"github.com/xonecas/mermedit/internal/highlight"
	"github.com/xonecas/mermedit/internal/host"
	"github.com/xonecas/mermedit/internal/render"
)

// Config is the root configuration structure.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Render  RenderConfig  `toml:"render"`
	Preview PreviewConfig `toml:"preview"`
	Files   FilesConfig   `toml:"files"`
	Log     LogConfig     `toml:"log"`
}

// EditorConfig holds editor settings.
type EditorConfig struct {
	// Keywords are highlighted as whole words. Empty means the built-in set.
	Keywords        []string `toml:"keywords"`
	ShowLineNumbers bool     `toml:"show_line_numbers"`
	// SyntaxTheme is the Chroma theme the UI palette is derived from.
	SyntaxTheme string `toml:"syntax_theme"`
	// TabWidth is accepted for completeness but indentation is fixed.
	TabWidth int `toml:"tab_width"`
}

// KeywordsOrDefault returns the configured keywords or the built-in set.
func (e EditorConfig) KeywordsOrDefault() []string {
	if len(e.Keywords) == 0 {
		return highlight.Keywords
	}
	return e.Keywords
}

// RenderConfig holds renderer settings.
type RenderConfig struct {
	Command        string `toml:"command"`
	Theme          string `toml:"theme"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Cache          bool   `toml:"cache"`
	CacheTTLHours  int    `toml:"cache_ttl_hours"`
}

// Timeout returns the per-render time limit.
func (r RenderConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long cached renders stay fresh.
func (r RenderConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLHours) * time.Hour
}

// PreviewConfig holds live preview server settings.
type PreviewConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// FilesConfig holds load and save settings.
type FilesConfig struct {
	TitleFrontMatter bool   `toml:"title_front_matter"`
	SaveName         string `toml:"save_name"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// ZerologLevel returns the parsed level, or info if it does not parse.
func (l LogConfig) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			ShowLineNumbers: true,
			SyntaxTheme:     constants.SyntaxTheme,
			TabWidth:        document.IndentWidth,
		},
		Render: RenderConfig{
			Command:        render.DefaultCommand,
			Theme:          "dark",
			TimeoutSeconds: 30,
			Cache:          true,
			CacheTTLHours:  24 * 7,
		},
		Preview: PreviewConfig{
			Enabled: true,
			Addr:    "127.0.0.1:7777",
		},
		Files: FilesConfig{
			TitleFrontMatter: true,
			SaveName:         host.DefaultSaveName,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from a TOML file over the defaults and applies
// environment variable overrides. The file must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return load(path)
}

// LoadOptional is Load, except a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}
	return load("")
}

func load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Editor.TabWidth != 0 && c.Editor.TabWidth != document.IndentWidth {
		errs = append(errs, fmt.Errorf("editor.tab_width=%d is fixed at %d", c.Editor.TabWidth, document.IndentWidth))
	}
	if c.Editor.SyntaxTheme != "" {
		if _, ok := styles.Registry[c.Editor.SyntaxTheme]; !ok {
			errs = append(errs, fmt.Errorf("editor.syntax_theme=%q is not a known theme", c.Editor.SyntaxTheme))
		}
	}
	for _, kw := range c.Editor.Keywords {
		if strings.TrimSpace(kw) == "" || strings.ContainsAny(kw, " \t") {
			errs = append(errs, fmt.Errorf("editor.keywords: %q is not a single word", kw))
		}
	}

	if strings.TrimSpace(c.Render.Command) == "" {
		errs = append(errs, errors.New("render.command is required"))
	}
	if c.Render.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("render.timeout_seconds=%d must be positive", c.Render.TimeoutSeconds))
	}
	if c.Render.Cache && c.Render.CacheTTLHours <= 0 {
		errs = append(errs, fmt.Errorf("render.cache_ttl_hours=%d must be positive", c.Render.CacheTTLHours))
	}

	if c.Preview.Enabled {
		if _, _, err := net.SplitHostPort(c.Preview.Addr); err != nil {
			errs = append(errs, fmt.Errorf("preview.addr=%q is invalid: %v", c.Preview.Addr, err))
		}
	}

	switch name := c.Files.SaveName; {
	case name == "":
		errs = append(errs, errors.New("files.save_name is required"))
	case filepath.Base(name) != name:
		errs = append(errs, fmt.Errorf("files.save_name=%q must be a file name, not a path", name))
	case !highlight.IsDiagram(name):
		errs = append(errs, fmt.Errorf("files.save_name=%q must end in %s", name, strings.Join(highlight.DiagramExtensions, " or ")))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level=%q is invalid: %v", c.Log.Level, err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	var errs []error
	setBool := func(name string, dst *bool) func(string) {
		return func(v string) {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s=%q: %w", name, v, err))
				return
			}
			*dst = b
		}
	}
	setInt := func(name string, dst *int) func(string) {
		return func(v string) {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s=%q: %w", name, v, err))
				return
			}
			*dst = n
		}
	}
	setString := func(dst *string) func(string) {
		return func(v string) { *dst = v }
	}

	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"MERMEDIT_SYNTAX_THEME", setString(&cfg.Editor.SyntaxTheme)},
		{"MERMEDIT_RENDER_COMMAND", setString(&cfg.Render.Command)},
		{"MERMEDIT_RENDER_THEME", setString(&cfg.Render.Theme)},
		{"MERMEDIT_RENDER_TIMEOUT", setInt("MERMEDIT_RENDER_TIMEOUT", &cfg.Render.TimeoutSeconds)},
		{"MERMEDIT_RENDER_CACHE", setBool("MERMEDIT_RENDER_CACHE", &cfg.Render.Cache)},
		{"MERMEDIT_PREVIEW_ENABLED", setBool("MERMEDIT_PREVIEW_ENABLED", &cfg.Preview.Enabled)},
		{"MERMEDIT_PREVIEW_ADDR", setString(&cfg.Preview.Addr)},
		{"MERMEDIT_LOG_LEVEL", setString(&cfg.Log.Level)},
	} {
		if v := os.Getenv(setter.env); v != "" {
			setter.apply(v)
		}
	}
	return errors.Join(errs...)
}

// DataDir returns the path to the mermedit data directory (~/.config/mermedit).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", constants.AppName), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

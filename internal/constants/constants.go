// Package constants holds names shared by the CLI and the config layer.
package constants

// AppName names the binary and its data directory.
const AppName = "mermedit"

// Version is set via ldflags at build time.
var Version = "dev"

// Files inside the data directory.
const (
	ConfigFileName = "config.toml"
	LogFileName    = "mermedit.log"
	CacheFileName  = "renders.db"
)

// SyntaxTheme is the default Chroma theme the UI palette is derived from.
//
// Dark themes work best: vulcan, monokai, dracula, nord, gruvbox, onedark,
// github-dark, catppuccin-mocha, tokyonight-night, rose-pine.
// Light themes: github, solarized-light, catppuccin-latte, xcode, vs.
const SyntaxTheme = "vulcan"

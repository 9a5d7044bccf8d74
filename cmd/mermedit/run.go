package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/mermedit/internal/config"
	"github.com/xonecas/mermedit/internal/constants"
	"github.com/xonecas/mermedit/internal/filesearch"
	"github.com/xonecas/mermedit/internal/highlight"
	"github.com/xonecas/mermedit/internal/host"
	"github.com/xonecas/mermedit/internal/preview"
	"github.com/xonecas/mermedit/internal/render"
	"github.com/xonecas/mermedit/internal/shell"
	"github.com/xonecas/mermedit/internal/store"
	"github.com/xonecas/mermedit/internal/tui"
)

const shutdownTimeout = 3 * time.Second

func run(ctx context.Context, f flags, args []string) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(f.logFile, cfg.Log.ZerologLevel())
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	engine := buildEngine(cfg, wd)
	if closer, ok := engine.(interface{ close() }); ok {
		defer closer.close()
	}

	var viewport host.Viewport
	var previewURL string
	var srv *preview.Server
	if cfg.Preview.Enabled {
		srv = preview.New(preview.Options{})
		if err := srv.Start(cfg.Preview.Addr); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Preview.Addr).Msg("preview disabled")
			srv = nil
		} else {
			viewport = srv
			previewURL = srv.URL() + "/"
			defer func() {
				sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer scancel()
				if err := srv.Shutdown(sctx); err != nil {
					log.Warn().Err(err).Msg("preview shutdown")
				}
			}()
		}
	}

	sh := host.New(host.Options{
		Engine:           engine,
		Viewport:         viewport,
		TitleFrontMatter: cfg.Files.TitleFrontMatter,
		SaveName:         cfg.Files.SaveName,
	})
	defer sh.Close()
	if srv != nil {
		srv.SetSource(sh)
	}

	if len(args) == 1 {
		if _, err := sh.LoadFile(ctx, args[0]); err != nil && !host.IsIgnorable(err) {
			return err
		}
	}

	searcher, err := filesearch.NewSearcher(wd)
	if err != nil {
		log.Warn().Err(err).Msg("file picker disabled")
		searcher = nil
	}

	model := tui.New(tui.Options{
		Shell:           sh,
		Searcher:        searcher,
		Palette:         highlight.ThemePalette(cfg.Editor.SyntaxTheme),
		Keywords:        cfg.Editor.KeywordsOrDefault(),
		ShowLineNumbers: cfg.Editor.ShowLineNumbers,
		PreviewURL:      previewURL,
		SaveDir:         wd,
	})

	log.Info().Str("version", constants.Version).Str("preview", previewURL).Msg("mermedit starting")
	p := tea.NewProgram(model, tea.WithFilter(tui.MouseEventFilter))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// loadConfig reads the config file and applies command-line overrides. An
// explicit --config must exist; the default location is optional.
func loadConfig(f flags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		path, perr := config.DefaultPath()
		if perr != nil {
			path = ""
		}
		cfg, err = config.LoadOptional(path)
	}
	if err != nil {
		return nil, err
	}

	if f.addr != "" {
		cfg.Preview.Addr = f.addr
	}
	if f.noPreview {
		cfg.Preview.Enabled = false
	}
	if f.verbose {
		cfg.Log.Level = zerolog.LevelDebugValue
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging points the global logger at a file; the terminal belongs to
// the UI.
func setupLogging(path string, level zerolog.Level) (func(), error) {
	if path == "" {
		dir, err := config.EnsureDataDir()
		if err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		path = filepath.Join(dir, constants.LogFileName)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }, nil
}

// cachedEngine owns the cache database behind a CachedEngine.
type cachedEngine struct {
	*render.CachedEngine
}

func (e cachedEngine) close() {
	if err := e.Cache.Close(); err != nil {
		log.Warn().Err(err).Msg("close render cache")
	}
}

// buildEngine returns the command renderer, wrapped in the SQLite cache
// when enabled. Cache failures fall back to uncached rendering.
func buildEngine(cfg *config.Config, wd string) render.Engine {
	runner := shell.New(wd, shell.DefaultBlockFuncs())
	base := render.NewCommandEngine(runner, cfg.Render.Command, cfg.Render.Theme, cfg.Render.Timeout())
	if !cfg.Render.Cache {
		return base
	}

	dir, err := config.EnsureDataDir()
	if err != nil {
		log.Warn().Err(err).Msg("render cache disabled")
		return base
	}
	cache, err := store.Open(filepath.Join(dir, constants.CacheFileName), cfg.Render.CacheTTL())
	if err != nil {
		log.Warn().Err(err).Msg("render cache disabled")
		return base
	}
	return cachedEngine{&render.CachedEngine{Engine: base, Cache: cache, Theme: cfg.Render.Theme}}
}

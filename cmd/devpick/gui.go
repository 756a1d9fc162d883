package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-devpick/internal/clipboard"
	"github.com/opd-ai/go-devpick/internal/config"
	"github.com/opd-ai/go-devpick/internal/errstack"
	"github.com/opd-ai/go-devpick/internal/logger"
	"github.com/opd-ai/go-devpick/internal/metrics"
	"github.com/opd-ai/go-devpick/internal/palette"
	"github.com/opd-ai/go-devpick/internal/picker"
	"github.com/opd-ai/go-devpick/internal/profiling"
	"github.com/opd-ai/go-devpick/internal/render"
	"github.com/opd-ai/go-devpick/internal/secrets"
)

type guiOptions struct {
	width      int
	height     int
	cpuProfile string
	memProfile string
}

func addGUIFlags(cmd *cobra.Command, opts *guiOptions) {
	defaults := render.DefaultConfig()
	f := cmd.Flags()
	f.IntVar(&opts.width, "width", defaults.Width, "initial window width")
	f.IntVar(&opts.height, "height", defaults.Height, "initial window height")
	f.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	f.StringVar(&opts.memProfile, "memprofile", "", "write a heap profile to this file on exit")
}

func newGUICmd(root *rootOptions) *cobra.Command {
	opts := &guiOptions{}
	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Open the devpick window (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, root, opts)
		},
	}
	addGUIFlags(cmd, opts)
	return cmd
}

func runGUI(cmd *cobra.Command, root *rootOptions, opts *guiOptions) error {
	log, err := root.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	settings, path, err := root.loadSettings()
	if err != nil {
		return err
	}

	profConfig := profiling.Config{CPUProfilePath: opts.cpuProfile, MemProfilePath: opts.memProfile}
	if profConfig.Enabled() {
		prof := profiling.New(profConfig)
		if err := prof.Start(); err != nil {
			return fmt.Errorf("start profiling: %w", err)
		}
		defer func() {
			if perr := prof.Stop(); perr != nil {
				log.Warn("failed to stop profiling", "error", perr)
			}
		}()
	}

	m := metrics.New()
	m.RegisterExpvar()
	if root.debugAddr != "" {
		srv := serveDebug(root.debugAddr, log)
		defer srv.Close()
	}

	cfg := render.DefaultConfig()
	cfg.Width, cfg.Height = opts.width, opts.height

	reader, rerr := picker.NewScreenReader()
	if rerr != nil {
		log.Warn("screen picking unavailable", "error", rerr)
	}
	errs := errstack.NewStack()

	app, err := render.NewApp(cfg, render.Deps{
		Settings:     settings,
		SettingsPath: path,
		Textures:     render.NewTextureManager(),
		Clipboard:    clipboard.NewSystem(),
		Picker:       picker.New(reader, cfg.ZoomRadius, settings.ZoomFactor),
		Palettes:     palette.NewStore(settings.PalettePath(path)),
		Secrets:      secrets.NewStore(true),
		Metrics:      m,
		Errors:       errs,
		Logger:       log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			log.Warn("shutdown", "error", cerr)
		}
	}()

	watcher, werr := config.WatchSettings(path, app.ApplySettings, func(err error) {
		errs.Push(errstack.CategoryConfig, err)
	})
	if werr != nil {
		log.Debug("settings hot reload disabled", "path", path, "error", werr)
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	log.Info("starting devpick", "version", Version, "settings", path)
	app.SetContext(cmd.Context())
	return app.Run()
}

// serveDebug publishes the expvar metrics on addr until the server is closed.
func serveDebug(addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("debug server stopped", "addr", addr, "error", err)
		}
	}()
	log.Info("serving metrics", "addr", addr)
	return srv
}

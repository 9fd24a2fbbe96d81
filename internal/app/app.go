package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/davecgh/go-spew/spew"
	"github.com/vk/mustachio/internal/ctxlog"
	"github.com/vk/mustachio/internal/engine"
	"github.com/vk/mustachio/internal/fsutil"
	"github.com/vk/mustachio/internal/viewdata"
	"github.com/zclconf/go-cty/cty"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW through the App's own isolated logger.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
}

// Run executes the main application logic based on the App's configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "template", a.config.TemplatePath)

	src, err := os.ReadFile(a.config.TemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	opts := []engine.Option{engine.WithWhitespace(a.config.Mode())}
	if a.config.PartialsPath != "" {
		partials, err := fsutil.LoadPartials(a.config.PartialsPath, a.config.PartialExt)
		if err != nil {
			return err
		}
		a.logger.Info("Loaded partials.", "count", len(partials), "path", a.config.PartialsPath)
		opts = append(opts, engine.WithPartials(partials))
	}

	eng, err := engine.New(opts...)
	if err != nil {
		return err
	}
	defer eng.Close()

	tmpl, err := eng.Compile(ctx, string(src))
	if err != nil {
		return fmt.Errorf("template '%s': %w", a.config.TemplatePath, err)
	}

	switch {
	case a.config.DumpTree:
		return a.dumpTree(tmpl)
	case a.config.Compact:
		return a.compact(ctx, tmpl)
	}
	return a.render(ctx, tmpl)
}

func (a *App) render(ctx context.Context, tmpl *engine.Template) error {
	view := cty.EmptyObjectVal
	if a.config.DataPath != "" {
		v, err := viewdata.Load(ctx, a.config.DataPath)
		if err != nil {
			return err
		}
		view = v
	}

	out, err := tmpl.Render(ctx, view)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	_, err = io.WriteString(a.outW, out)
	a.logger.Debug("App.Run method finished.", "bytes", len(out))
	return err
}

func (a *App) compact(ctx context.Context, tmpl *engine.Template) error {
	out, runtimes := tmpl.Compact(ctx)
	names := make([]string, 0, len(runtimes))
	for name := range runtimes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		a.logger.Warn("Recursive partial could not be inlined and must be shipped with the template.", "partial", name)
	}

	_, err := fmt.Fprintln(a.outW, out)
	return err
}

var treeDumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (a *App) dumpTree(tmpl *engine.Template) error {
	treeDumper.Fdump(a.outW, tmpl.Tree())
	return nil
}

// Package app implements the application layer for craft.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/craft/internal/adapters/detector"
	"go.trai.ch/craft/internal/adapters/linear"
	"go.trai.ch/craft/internal/adapters/telemetry"
	"go.trai.ch/craft/internal/adapters/watcher"
	"go.trai.ch/craft/internal/core/domain"
	"go.trai.ch/craft/internal/core/ports"
	"go.trai.ch/craft/internal/engine/resolver"
	"go.trai.ch/craft/internal/engine/runner"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	resolver     *resolver.Resolver
	executor     ports.Executor
	installer    ports.Installer
	watcher      ports.Watcher
	logger       ports.Logger

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	res *resolver.Resolver,
	executor ports.Executor,
	installer ports.Installer,
	fsWatcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		resolver:     res,
		executor:     executor,
		installer:    installer,
		watcher:      fsWatcher,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithStreams overrides the output streams. This is primarily used for
// testing.
func (a *App) WithStreams(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	OutputMode string
}

// Run resolves and executes the target task with its dependencies.
func (a *App) Run(ctx context.Context, target string, opts RunOptions) error {
	if target == "" {
		return domain.ErrNoTargetSpecified
	}

	reg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	return a.runWithRegistry(ctx, reg, target, opts)
}

// runWithRegistry executes the target against an already loaded registry.
func (a *App) runWithRegistry(ctx context.Context, reg *domain.Registry, target string, opts RunOptions) error {
	renderer := a.newRenderer(opts.OutputMode)

	tracer := telemetry.NewOTelTracer("craft").WithRenderer(renderer)

	// All spans started through the global provider reach the renderer
	// through the tracer's event queue.
	setupOTel(telemetry.NewBridge(tracer))

	run := runner.New(a.resolver, a.executor, a.installer, tracer, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(a.stderr, "runner panic: %v\n", r)
			}
			// Queued output must reach the renderer before the final flush.
			_ = tracer.Shutdown(ctx)
			_ = renderer.Stop()
		}()

		if err := run.Run(ctx, reg, target); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrRunFailed.Error()), "target", target)
		}
		return nil
	})

	return g.Wait()
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	OutputMode string
	Debounce   time.Duration
}

// Watch runs the target once, then reruns it whenever files under the
// configuration root change. The configuration file is fingerprinted so the
// registry is only re-parsed when it actually changed. Failed runs keep the
// watch loop alive.
func (a *App) Watch(ctx context.Context, target string, opts WatchOptions) error {
	if target == "" {
		return domain.ErrNoTargetSpecified
	}

	root, err := a.configLoader.DiscoverRoot(".")
	if err != nil {
		return err
	}
	configPath := filepath.Join(root, domain.ConfigFileName)

	reg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	fingerprint, err := watcher.Fingerprint(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}

	if opts.Debounce <= 0 {
		opts.Debounce = watcher.DefaultDebounceWindow
	}

	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	trigger := make(chan struct{}, 1)
	debounce := watcher.NewDebouncer(opts.Debounce, func(_ []string) {
		select {
		case trigger <- struct{}{}:
		default:
			// A rerun is already pending.
		}
	})

	go func() {
		for event := range a.watcher.Events() {
			debounce.Add(event.Path)
		}
	}()

	a.logger.Info("watching " + root)
	a.runBestEffort(ctx, reg, target, RunOptions{OutputMode: opts.OutputMode})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger:
			if current, err := watcher.Fingerprint(configPath); err == nil && current != fingerprint {
				fingerprint = current
				fresh, err := a.configLoader.Load(".")
				if err != nil {
					a.logger.Error(zerr.Wrap(err, "failed to reload configuration"))
					continue
				}
				a.logger.Info("configuration changed, reloaded")
				reg = fresh
			}

			a.runBestEffort(ctx, reg, target, RunOptions{OutputMode: opts.OutputMode})
		}
	}
}

// runBestEffort runs the target and reports failures without propagating
// them, so the watch loop survives broken builds.
func (a *App) runBestEffort(ctx context.Context, reg *domain.Registry, target string, opts RunOptions) {
	if err := a.runWithRegistry(ctx, reg, target, opts); err != nil {
		if !errors.Is(err, context.Canceled) {
			a.logger.Error(err)
		}
	}
}

// Tasks loads the configuration and returns the task registry, used by the
// list command.
func (a *App) Tasks() (*domain.Registry, error) {
	reg, err := a.configLoader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return reg, nil
}

// newRenderer builds the line renderer for the resolved output mode.
func (a *App) newRenderer(outputMode string) ports.Renderer {
	mode := detector.ResolveMode(detector.DetectEnvironment(), outputMode)

	var profileFn func() termenv.Profile
	if mode == detector.ModeColor {
		profileFn = linearColorProfile
	} else {
		profileFn = linearPlainProfile
	}

	return linear.NewRendererWithProfile(a.stdout, a.stderr, profileFn)
}

func linearColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

func linearPlainProfile() termenv.Profile {
	return termenv.Ascii
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}

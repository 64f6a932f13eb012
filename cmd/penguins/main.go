package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/penguin-paradise/config"
	"github.com/Carmen-Shannon/penguin-paradise/engine"
	"github.com/Carmen-Shannon/penguin-paradise/engine/camera"
	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
	"github.com/Carmen-Shannon/penguin-paradise/engine/loader"
	"github.com/Carmen-Shannon/penguin-paradise/engine/renderer"
	"github.com/Carmen-Shannon/penguin-paradise/engine/scene"
	"github.com/Carmen-Shannon/penguin-paradise/engine/window"
	"github.com/Carmen-Shannon/penguin-paradise/logging"
)

func main() {
	configPath := flag.String("config", "penguins.toml", "path to the TOML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// ── Diagnostics ─────────────────────────────────────────────────────
	sink := diagnostics.NewSink(diagnostics.WithLogger(logger))

	// ── Window ──────────────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	defer func() { _ = win.Close() }()

	// ── Renderer ────────────────────────────────────────────────────────
	sink.Record("Setting up renderer")
	presentMode := renderer.PresentModeVSync
	if !cfg.Engine.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	msaa := renderer.MSAA4x
	if !cfg.Engine.MSAA {
		msaa = renderer.MSAAOff
	}
	r, err := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.Engine.SoftwareRender),
		renderer.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Release()

	// ── Camera ──────────────────────────────────────────────────────────
	cam := camera.NewCamera(
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithController(camera.NewCameraController()),
	)

	// ── Scene ───────────────────────────────────────────────────────────
	sc := scene.NewScene("Penguin Paradise",
		scene.WithLogger(logger),
		scene.WithSink(sink),
		scene.WithCamera(cam),
		scene.WithLights(scene.DefaultLights()...),
		scene.WithEnvironment(scene.DefaultEnvironment()...),
		scene.WithEntityCount(cfg.Scene.EntityCount),
	)

	// ── Loader ──────────────────────────────────────────────────────────
	sink.Record("Setting up loading manager")
	l := loader.NewLoader(
		loader.WithLogger(logger),
		loader.WithSink(sink),
		loader.WithAssetRoot(cfg.Scene.AssetRoot),
		loader.WithFallbackSource(cfg.Scene.FallbackModel),
		loader.WithWorkers(cfg.Scene.Workers),
	)

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithLogger(logger),
		engine.WithSink(sink),
		engine.WithWindow(win),
		engine.WithTitlePanel(window.NewTitlePanel(cfg.Window.Title)),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithLoader(l),
		engine.WithModel(cfg.Scene.Model, cfg.Scene.ScenePlacements()),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		eng.Quit()
	}()

	logger.Info("starting",
		zap.String("model", cfg.Scene.Model),
		zap.Int("entities", cfg.Scene.EntityCount),
	)
	eng.Run()
	logger.Info("stopped", zap.Uint64("frames", eng.Frames()))
	return nil
}

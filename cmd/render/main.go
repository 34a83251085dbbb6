package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"orrery-renderer/internal/batch"
	"orrery-renderer/internal/body"
	"orrery-renderer/internal/catalog"
	"orrery-renderer/internal/config"
	"orrery-renderer/internal/frameloop"
	"orrery-renderer/internal/logging"
	"orrery-renderer/internal/observability"
	"orrery-renderer/internal/raster"
	"orrery-renderer/internal/scene"
	"orrery-renderer/internal/script"
	"orrery-renderer/internal/system"
	"orrery-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	scriptFile := flag.String("script", "", "Command script to replay")
	catalogFile := flag.String("catalog", "", "Body catalog (default: embedded solar system)")
	outputDir := flag.String("output", "", "Output directory (default: ./renders)")
	frames := flag.Int("frames", 0, "Frames to simulate (default: 600)")
	width := flag.Int("width", 0, "Output width (default: 640)")
	height := flag.Int("height", 0, "Output height (default: 360)")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	realtime := flag.Bool("realtime", false, "Pace the simulation against the wall clock")
	markers := flag.Bool("markers", false, "Draw surface location markers")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Without an explicit level, logging follows LOG_LEVEL / LOG_FORMAT.
	envLogging := cfg.LogLevel == "" && *logLevel == ""

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Script:    *scriptFile,
		Catalog:   *catalogFile,
		Width:     *width,
		Height:    *height,
		Frames:    *frames,
		Quality:   *quality,
		Workers:   *workers,
		LogLevel:  *logLevel,
	})

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envLogging {
		log = logging.NewFromEnv()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log, *realtime, *markers); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log logging.Logger, realtime, markers bool) error {
	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}

	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	sys, err := system.New(cat, system.Options{
		FOV:          cfg.FOV,
		Aspect:       cfg.Aspect(),
		Margin:       cfg.Margin,
		MinElevation: cfg.MinElevation,
		MaxElevation: cfg.MaxElevation,
		Logger:       log,
		Observer:     metrics,
	})
	if err != nil {
		return err
	}

	var sc *script.Script
	if cfg.ScriptFile != "" {
		if sc, err = script.Load(cfg.ScriptFile); err != nil {
			return err
		}
		fmt.Printf("Script: %d commands, last at frame %d\n", len(sc.Commands), sc.Last())
	}
	player := script.NewPlayer(sc, sys, log)

	// Simulate and capture
	mode := frameloop.Fixed
	if realtime {
		mode = frameloop.RealTime
	}
	loop := frameloop.ForFPS(cfg.FPS, mode)
	var captured []scene.Frame
	loop.AddListener(func(t frameloop.Tick) error {
		if _, err := player.Advance(t.Frame); err != nil {
			return err
		}
		sys.TickFrames(t.Seconds * body.ReferenceFPS)
		if t.Frame%cfg.CaptureEvery == 0 {
			captured = append(captured, sys.Capture())
		}
		return nil
	})

	fmt.Printf("Orrery renderer → WebP\n")
	fmt.Printf("Bodies: %d, Locations: %d, Frames: %d (capture every %d)\n",
		len(sys.Bodies()), len(sys.Locations()), cfg.Frames, cfg.CaptureEvery)
	fmt.Printf("Output: %s (%dx%d, %d workers)\n", cfg.OutputDir, cfg.Width, cfg.Height, cfg.Workers)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	if err := loop.Run(ctx, cfg.Frames); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simulate: %w", err)
	}
	fmt.Printf("Simulated %d frames in %.1fs, %d captured\n", loop.Frame(), time.Since(start).Seconds(), len(captured))

	// Build texture index
	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex, log)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	renderer := raster.NewRenderer(raster.Options{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Textures:    texCache,
		ShowMarkers: markers,
	})

	start = time.Now()
	results := batch.Run(batch.Config{
		OutputDir: cfg.OutputDir,
		Renderer:  renderer,
		Workers:   cfg.Workers,
		Observer:  metrics,
	}, captured)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	// Count results
	success, failed := 0, 0
	var failures []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			failures = append(failures, r)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", success, len(results))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(failures) < limit {
			limit = len(failures)
		}
		for _, e := range failures[:limit] {
			fmt.Printf("  frame %d: %s\n", e.Frame, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	name := ""
	if sc != nil {
		name = sc.Name
	}
	os.MkdirAll(cfg.OutputDir, 0o755)
	if err := batch.WriteManifest(manifestPath, batch.NewManifest(name, cfg.Width, cfg.Height, cfg.FPS, results)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else if cfg.MetricsFile != "" {
		fmt.Printf("Metrics: %s\n", cfg.MetricsFile)
	}

	if failed > 0 {
		return fmt.Errorf("%d frames failed", failed)
	}
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

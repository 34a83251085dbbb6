package batch

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"orrery-renderer/internal/scene"

	"github.com/HugoSmits86/nativewebp"
)

// Renderer turns a captured frame into an image.
type Renderer interface {
	Render(f *scene.Frame) *image.NRGBA
}

// Observer receives per-frame timings. The metrics collector implements it.
type Observer interface {
	ObserveRender(d time.Duration)
	ObserveEncode(d time.Duration, err error)
}

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Renderer  Renderer
	Workers   int
	Observer  Observer
	Progress  io.Writer // nil prints to stdout
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame   int64
	Mode    string
	Image   string // relative to OutputDir
	Success bool
	Error   string
}

// FramePath is the output path of frame index, relative to the output dir.
func FramePath(index int64) string {
	return filepath.Join("frames", fmt.Sprintf("%06d.webp", index))
}

// Run renders all frames using a worker pool. Results keep input order.
func Run(cfg Config, frames []scene.Frame) []Result {
	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64
	out := cfg.Progress
	if out == nil {
		out = os.Stdout
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Fprintf(out, "  [%d/%d] %.1f frames/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = processFrame(cfg, &frames[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func processFrame(cfg Config, f *scene.Frame) Result {
	res := Result{Frame: f.Index, Mode: f.Mode, Image: FramePath(f.Index)}

	t0 := time.Now()
	img := cfg.Renderer.Render(f)
	if cfg.Observer != nil {
		cfg.Observer.ObserveRender(time.Since(t0))
	}

	t1 := time.Now()
	err := writeWebP(filepath.Join(cfg.OutputDir, res.Image), img)
	if cfg.Observer != nil {
		cfg.Observer.ObserveEncode(time.Since(t1), err)
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

func writeWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}

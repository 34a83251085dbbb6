// Package observability holds the Prometheus metrics of a render run.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles simulation and render metrics. A nil *Collector is a
// valid no-op.
type Collector struct {
	gatherer prometheus.Gatherer

	Ticks          prometheus.Counter
	SimFrames      prometheus.Counter
	ModeSwitches   *prometheus.CounterVec
	FramesRendered prometheus.Counter
	RenderDuration prometheus.Histogram
	EncodeDuration prometheus.Histogram
	RenderErrors   prometheus.Counter
}

// NewCollector registers metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_ticks_total",
		Help: "Simulation ticks executed.",
	}), "orrery_ticks_total")
	if err != nil {
		return nil, err
	}
	simFrames, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_sim_frames_total",
		Help: "Simulated time advanced, in 60 Hz reference frames.",
	}), "orrery_sim_frames_total")
	if err != nil {
		return nil, err
	}
	switches, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_view_mode_switches_total",
		Help: "View mode switches, labeled by the mode switched to.",
	}, []string{"mode"}), "orrery_view_mode_switches_total")
	if err != nil {
		return nil, err
	}
	rendered, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_frames_rendered_total",
		Help: "Frames rasterized and written.",
	}), "orrery_frames_rendered_total")
	if err != nil {
		return nil, err
	}
	renderDur, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orrery_render_duration_seconds",
		Help:    "Time to rasterize one frame.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}), "orrery_render_duration_seconds")
	if err != nil {
		return nil, err
	}
	encodeDur, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orrery_encode_duration_seconds",
		Help:    "Time to encode and write one frame.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}), "orrery_encode_duration_seconds")
	if err != nil {
		return nil, err
	}
	renderErrs, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_render_errors_total",
		Help: "Frames that failed to render or write.",
	}), "orrery_render_errors_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		Ticks:          ticks,
		SimFrames:      simFrames,
		ModeSwitches:   switches,
		FramesRendered: rendered,
		RenderDuration: renderDur,
		EncodeDuration: encodeDur,
		RenderErrors:   renderErrs,
	}, nil
}

// Gatherer returns the gatherer the collector was registered with.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveTick records one simulation tick.
func (c *Collector) ObserveTick(frames float64) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	if frames > 0 {
		c.SimFrames.Add(frames)
	}
}

// ObserveModeChange records a view mode switch.
func (c *Collector) ObserveModeChange(_, to string) {
	if c == nil {
		return
	}
	c.ModeSwitches.WithLabelValues(to).Inc()
}

// ObserveRender records one rasterized frame.
func (c *Collector) ObserveRender(d time.Duration) {
	if c == nil {
		return
	}
	c.RenderDuration.Observe(d.Seconds())
}

// ObserveEncode records one written frame.
func (c *Collector) ObserveEncode(d time.Duration, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.RenderErrors.Inc()
		return
	}
	c.EncodeDuration.Observe(d.Seconds())
	c.FramesRendered.Inc()
}

// WriteTextfile writes all gathered metrics in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("observability: write %s: %w", path, err)
	}
	return nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}

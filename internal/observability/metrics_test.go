package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	return c
}

func TestTickAndModeMetrics(t *testing.T) {
	c := newTestCollector(t)
	c.ObserveTick(1)
	c.ObserveTick(2.5)
	c.ObserveTick(-1)
	c.ObserveModeChange("none", "global:top")
	c.ObserveModeChange("global:top", "location")
	c.ObserveModeChange("location", "global:top")

	if got := testutil.ToFloat64(c.Ticks); got != 3 {
		t.Fatalf("ticks = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.SimFrames); got != 3.5 {
		t.Fatalf("sim frames = %v, want 3.5", got)
	}
	if got := testutil.ToFloat64(c.ModeSwitches.WithLabelValues("global:top")); got != 2 {
		t.Fatalf("global:top switches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.ModeSwitches.WithLabelValues("location")); got != 1 {
		t.Fatalf("location switches = %v, want 1", got)
	}
}

func TestRenderMetrics(t *testing.T) {
	c := newTestCollector(t)
	c.ObserveRender(20 * time.Millisecond)
	c.ObserveEncode(5*time.Millisecond, nil)
	c.ObserveEncode(0, errors.New("disk full"))

	if got := testutil.ToFloat64(c.FramesRendered); got != 1 {
		t.Fatalf("frames rendered = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.RenderErrors); got != 1 {
		t.Fatalf("render errors = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.RenderDuration); n != 1 {
		t.Fatalf("render histogram series = %d", n)
	}
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}
	a.ObserveTick(1)
	if got := testutil.ToFloat64(b.Ticks); got != 1 {
		t.Fatalf("shared ticks = %v, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	c := newTestCollector(t)
	c.ObserveTick(1)
	path := filepath.Join(t.TempDir(), "orrery.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "orrery_ticks_total 1") {
		t.Fatalf("textfile missing tick counter:\n%s", data)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveTick(1)
	c.ObserveModeChange("a", "b")
	c.ObserveRender(time.Second)
	c.ObserveEncode(time.Second, nil)
	if err := c.WriteTextfile("/nonexistent/x.prom"); err != nil {
		t.Fatalf("nil collector write: %v", err)
	}
}

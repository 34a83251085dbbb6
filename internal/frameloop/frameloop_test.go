package frameloop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFixedRunsExactFrames(t *testing.T) {
	l := ForFPS(60, Fixed)
	var seen []int
	var last Tick
	l.AddListener(func(tk Tick) error {
		seen = append(seen, tk.Frame)
		last = tk
		return nil
	})
	if err := l.Run(context.Background(), 5); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(seen) != 5 || seen[0] != 0 || seen[4] != 4 {
		t.Fatalf("frames = %v", seen)
	}
	if l.Frame() != 5 || l.Elapsed() != 5*l.Step {
		t.Fatalf("frame %d elapsed %v", l.Frame(), l.Elapsed())
	}
	if last.Elapsed != 4*l.Step {
		t.Fatalf("last tick elapsed = %v", last.Elapsed)
	}
}

func TestListenersRunInOrder(t *testing.T) {
	l := New(time.Millisecond, Fixed)
	var order []string
	l.AddListener(func(Tick) error { order = append(order, "sim"); return nil })
	l.AddListener(func(Tick) error { order = append(order, "render"); return nil })
	l.Run(context.Background(), 2)
	want := []string{"sim", "render", "sim", "render"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestListenerErrorStops(t *testing.T) {
	boom := errors.New("boom")
	l := New(time.Millisecond, Fixed)
	l.AddListener(func(tk Tick) error {
		if tk.Frame == 2 {
			return boom
		}
		return nil
	})
	if err := l.Run(context.Background(), 10); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if l.Frame() != 2 {
		t.Fatalf("frame = %d", l.Frame())
	}
}

func TestErrStopEndsCleanly(t *testing.T) {
	l := New(time.Millisecond, Fixed)
	l.AddListener(func(tk Tick) error {
		if tk.Frame == 3 {
			return ErrStop
		}
		return nil
	})
	if err := l.Run(context.Background(), 0); err != nil {
		t.Fatalf("err = %v", err)
	}
	if l.Frame() != 4 {
		t.Fatalf("frame = %d", l.Frame())
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := New(time.Millisecond, Fixed)
	if err := l.Run(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestRealTimePaces(t *testing.T) {
	l := New(2*time.Millisecond, RealTime)
	start := time.Now()
	if err := l.Run(context.Background(), 3); err != nil {
		t.Fatalf("run: %v", err)
	}
	if d := time.Since(start); d < 6*time.Millisecond {
		t.Fatalf("3 real-time frames took %v", d)
	}
}

func TestRealTimeCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	l := New(time.Millisecond, RealTime)
	if err := l.Run(ctx, 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestForFPSCarriesExactStep(t *testing.T) {
	l := ForFPS(60, Fixed)
	if l.Step != 16666666*time.Nanosecond {
		t.Fatalf("step = %v", l.Step)
	}
	var frames float64
	l.AddListener(func(tk Tick) error {
		frames += tk.Seconds * 60
		return nil
	})
	if err := l.Run(context.Background(), 600); err != nil {
		t.Fatalf("run: %v", err)
	}
	// Summing truncated durations would come up short by 2.4e-5 frames.
	if diff := frames - 600; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("frames = %.12f", frames)
	}
}

func TestNewDerivesSeconds(t *testing.T) {
	if s := New(250*time.Millisecond, Fixed).Seconds; s != 0.25 {
		t.Fatalf("seconds = %v", s)
	}
	if l := New(0, Fixed); l.Seconds != 1.0/60 {
		t.Fatalf("default seconds = %v", l.Seconds)
	}
}

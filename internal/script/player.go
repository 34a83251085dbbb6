package script

import (
	"context"
	"fmt"

	"orrery-renderer/internal/body"
	"orrery-renderer/internal/camera"
	"orrery-renderer/internal/logging"
	"orrery-renderer/internal/mathutil"
)

// Target is the setter surface commands are applied to.
type Target interface {
	Body(id string) (*body.Body, bool)
	View() *camera.ViewController
}

// Player feeds a script into a target frame by frame.
type Player struct {
	script *Script
	target Target
	log    logging.Logger
	next   int
}

// NewPlayer binds a script to a target. A nil script plays nothing.
func NewPlayer(s *Script, t Target, log logging.Logger) *Player {
	if s == nil {
		s = &Script{}
	}
	return &Player{
		script: s,
		target: t,
		log:    logging.OrNoop(log).With(logging.String("component", "script")),
	}
}

// Advance applies every pending command stamped at or before frame and
// returns how many ran.
func (p *Player) Advance(frame int) (int, error) {
	n := 0
	for p.next < len(p.script.Commands) && p.script.Commands[p.next].At <= frame {
		c := p.script.Commands[p.next]
		p.next++
		if err := Apply(p.target, c, p.log); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Done reports whether every command has been applied.
func (p *Player) Done() bool { return p.next >= len(p.script.Commands) }

// Apply runs one command. Unknown body or location ids are logged and
// ignored, matching the setters themselves.
func Apply(t Target, c Command, log logging.Logger) error {
	log = logging.OrNoop(log)
	ctx := context.Background()
	view := t.View()

	withBody := func(fn func(*body.Body)) {
		b, ok := t.Body(c.Body)
		if !ok {
			log.Debug(ctx, "command ignored: unknown body", logging.String("cmd", c.Do), logging.String("body", c.Body))
			return
		}
		fn(b)
	}

	switch c.Do {
	case Spin:
		withBody(func(b *body.Body) { b.SetSpinEnabled(c.Enabled()) })
	case SpinRate:
		withBody(func(b *body.Body) { b.SetSpinRateFraction(c.Value) })
	case Orbit:
		withBody(func(b *body.Body) { b.SetOrbitEnabled(c.Enabled()) })
	case OrbitRate:
		withBody(func(b *body.Body) { b.SetOrbitRateFraction(c.Value) })
	case OrbitLine:
		withBody(func(b *body.Body) { b.SetOrbitLineVisibility(c.Value) })
	case Activate:
		if !view.Activate(c.Location) {
			log.Debug(ctx, "command ignored: unknown location", logging.String("location", c.Location))
		}
	case Deactivate:
		view.Deactivate()
	case Horizontal:
		view.SetHorizontalAngle(mathutil.Deg2Rad(c.Value))
	case Vertical:
		view.SetVerticalAngle(mathutil.Deg2Rad(c.Value))
	case VerticalDrag:
		view.AdjustVerticalAngle(mathutil.Deg2Rad(c.Value))
	case Elevation:
		view.SetElevationFraction(c.Value)
	case FrameTop:
		view.FrameTop()
	case FrameSide:
		view.FrameSide()
	case FrameBody:
		view.FrameBody(c.Body)
	case OrbitDrag:
		view.Orbit(mathutil.Deg2Rad(c.DX), mathutil.Deg2Rad(c.DY))
	case Zoom:
		view.Zoom(c.Value)
	default:
		return fmt.Errorf("script: %q: %w", c.Do, ErrUnknownCommand)
	}
	log.Debug(ctx, "command", logging.String("cmd", c.String()))
	return nil
}

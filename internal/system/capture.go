package system

import (
	"orrery-renderer/internal/mathutil"
	"orrery-renderer/internal/scene"
)

// Capture snapshots the current state for rendering.
func (s *System) Capture() scene.Frame {
	f := scene.Frame{
		Index:  s.ticks,
		Mode:   s.view.Mode().Name(),
		Camera: s.view.Camera(),
		Bodies: make([]scene.BodyView, 0, len(s.order)),
	}
	for _, n := range s.order {
		world := s.graph.World(n.spin)
		v := scene.BodyView{
			ID:       n.row.ID,
			Center:   world.Translation(),
			Rotation: world.Rotation(),
			Radius:   n.body.Radius(),
			Color:    n.row.RGB(),
			Texture:  n.row.Texture,
			Emissive: n.row.Emissive,
		}
		if n.body.Orbits() {
			v.Orbit = &scene.Ring{
				Center:  s.graph.World(n.orbit).Translation(),
				Basis:   parentBasis(s, n),
				Radius:  n.body.OrbitRadius(),
				Opacity: n.body.OrbitLineVisibility(),
			}
		}
		if n.row.Emissive {
			f.Lights = append(f.Lights, v.Center)
		}
		f.Bodies = append(f.Bodies, v)
	}
	for _, st := range s.sites {
		f.Markers = append(f.Markers, scene.Marker{
			ID:       st.loc.ID,
			BodyID:   st.loc.BodyID,
			Position: s.graph.World(st.node).Translation(),
		})
	}
	return f
}

// parentBasis is the plane the body circles in.
func parentBasis(s *System, n *node) mathutil.Mat3 {
	nd, _ := s.graph.Node(n.orbit)
	if nd.Parent == scene.Root {
		return mathutil.Mat3Identity()
	}
	return s.graph.World(nd.Parent).Rotation()
}

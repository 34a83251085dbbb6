package raster

import (
	"image"
	"image/color"
	"math"

	"orrery-renderer/internal/camera"
	"orrery-renderer/internal/mathutil"
	"orrery-renderer/internal/mesh"
	"orrery-renderer/internal/postprocess"
	"orrery-renderer/internal/scene"
	"orrery-renderer/internal/texture"
)

// Options configure a Renderer. Zero values pick defaults.
type Options struct {
	Width        int
	Height       int
	Supersample  int
	Segments     int // sphere longitude segments; rings are half
	RingSegments int
	Textures     texture.Resolver // nil draws flat body colours
	Background   color.NRGBA
	Light        *LightConfig
	ShowMarkers  bool
}

// Renderer draws scene frames. It holds only read-only state after
// construction and is safe for concurrent use when its texture resolver is.
type Renderer struct {
	opts   Options
	lc     LightConfig
	sphere *mesh.Mesh
	ring   []mathutil.Vec3
}

// NewRenderer prepares geometry for opts.
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 360
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Segments <= 0 {
		opts.Segments = mesh.DefaultSegments
	}
	if opts.RingSegments <= 0 {
		opts.RingSegments = 256
	}
	if opts.Background == (color.NRGBA{}) {
		opts.Background = color.NRGBA{A: 255}
	}
	lc := DefaultLightConfig()
	if opts.Light != nil {
		lc = *opts.Light
	}
	return &Renderer{
		opts:   opts,
		lc:     lc,
		sphere: mesh.Sphere(opts.Segments, opts.Segments/2),
		ring:   mesh.Ring(opts.RingSegments),
	}
}

// Size is the output image size.
func (r *Renderer) Size() (w, h int) { return r.opts.Width, r.opts.Height }

// Render draws f at the output size, supersampling when configured.
func (r *Renderer) Render(f *scene.Frame) *image.NRGBA {
	ss := r.opts.Supersample
	fb := r.RenderBuffer(f, r.opts.Width*ss, r.opts.Height*ss)
	img := fb.Image()
	if ss > 1 {
		img = postprocess.Downsample(img, r.opts.Width, r.opts.Height)
	}
	return img
}

// RenderBuffer draws f into a new w×h buffer without downsampling.
func (r *Renderer) RenderBuffer(f *scene.Frame, w, h int) *FrameBuffer {
	fb := NewFrameBuffer(w, h, r.opts.Background)
	cam := f.Camera
	cam.Aspect = float64(w) / float64(h)
	view := cam.View()

	for i := range f.Bodies {
		r.drawBody(fb, view, &f.Bodies[i], f.Lights)
	}
	// Rings after bodies so the depth test can hide them behind planets.
	for i := range f.Bodies {
		b := &f.Bodies[i]
		if b.Orbit != nil && b.Orbit.Opacity > 0 {
			r.drawRing(fb, view, b)
		}
	}
	if r.opts.ShowMarkers {
		size := 1 + 2*r.opts.Supersample
		for _, m := range f.Markers {
			x, y, depth, ok := view.Project(m.Position, w, h)
			if !ok {
				continue
			}
			DrawDot(fb, Vertex{X: x, Y: y, InvZ: 1 / depth}, size, color.NRGBA{255, 64, 48, 255})
		}
	}
	return fb
}

type clipVert struct {
	c     mathutil.Vec3 // camera space
	u, v  float64
	shade float64
}

func (r *Renderer) drawBody(fb *FrameBuffer, view camera.View, b *scene.BodyView, lights []mathutil.Vec3) {
	near := math.Max(view.Near(), 1e-9)
	depth := view.Depth(b.Center)
	if depth+b.Radius < near {
		return
	}
	if far := view.Far(); far > 0 && depth-b.Radius > far {
		return
	}

	var tex *image.NRGBA
	if r.opts.Textures != nil && b.Texture != "" {
		tex = r.opts.Textures.Resolve(b.Texture)
	}
	base := b.Color
	if base.A == 0 {
		base = color.NRGBA{160, 160, 170, 255}
	}

	light, lit := nearestLight(b, lights)
	eye := view.Eye()
	m := r.sphere
	world := make([]mathutil.Vec3, len(m.Verts))
	verts := make([]clipVert, len(m.Verts))
	for i, v := range m.Verts {
		p := b.Center.Add(b.Rotation.MulVec3(v.Scale(b.Radius)))
		world[i] = p
		shade := r.lc.Emissive
		if !b.Emissive {
			n := b.Rotation.MulVec3(m.Normals[i])
			to := eye.Sub(p).Normalize()
			if lit {
				to = light.Sub(p).Normalize()
			}
			shade = r.lc.Shade(n, to)
		}
		verts[i] = clipVert{
			c:     view.ToView(p),
			u:     float64(m.UVs[i][0]),
			v:     float64(m.UVs[i][1]),
			shade: shade,
		}
	}

	var in [3]clipVert
	var out [4]clipVert
	for _, t := range m.Tris {
		p0 := world[t[0]]
		n := world[t[1]].Sub(p0).Cross(world[t[2]].Sub(p0))
		if n.Dot(eye.Sub(p0)) <= 0 {
			continue
		}
		in[0], in[1], in[2] = verts[t[0]], verts[t[1]], verts[t[2]]
		k := clipNear(in, near, &out)
		if k < 3 {
			continue
		}
		var pv [4]Vertex
		for j := 0; j < k; j++ {
			pv[j] = r.project(view, out[j], fb.Width, fb.Height)
		}
		for j := 1; j+1 < k; j++ {
			RasterizeTriangle(fb, [3]Vertex{pv[0], pv[j], pv[j+1]}, tex, base, &r.lc)
		}
	}
}

func (r *Renderer) drawRing(fb *FrameBuffer, view camera.View, b *scene.BodyView) {
	ring := b.Orbit
	near := math.Max(view.Near(), 1e-9)
	c := lighten(b.Color)
	prev := view.ToView(ring.Center.Add(ring.Basis.MulVec3(r.ring[0].Scale(ring.Radius))))
	for _, u := range r.ring[1:] {
		cur := view.ToView(ring.Center.Add(ring.Basis.MulVec3(u.Scale(ring.Radius))))
		a, bb, ok := clipSegment(prev, cur, near)
		prev = cur
		if !ok {
			continue
		}
		DrawLine(fb,
			r.project(view, clipVert{c: a}, fb.Width, fb.Height),
			r.project(view, clipVert{c: bb}, fb.Width, fb.Height),
			c, ring.Opacity)
	}
}

func (r *Renderer) project(view camera.View, v clipVert, w, h int) Vertex {
	x, y := view.ProjectView(v.c, w, h)
	return Vertex{X: x, Y: y, InvZ: 1 / v.c[2], U: v.u, V: v.v, Shade: v.shade}
}

// clipNear clips a triangle to depth >= near and returns the vertex count
// of the resulting convex polygon (0, 3 or 4).
func clipNear(in [3]clipVert, near float64, out *[4]clipVert) int {
	k := 0
	for i := 0; i < 3; i++ {
		a, b := in[i], in[(i+1)%3]
		aIn, bIn := a.c[2] >= near, b.c[2] >= near
		if aIn {
			out[k] = a
			k++
		}
		if aIn != bIn {
			t := (near - a.c[2]) / (b.c[2] - a.c[2])
			out[k] = clipVert{
				c:     a.c.Add(b.c.Sub(a.c).Scale(t)),
				u:     a.u + (b.u-a.u)*t,
				v:     a.v + (b.v-a.v)*t,
				shade: a.shade + (b.shade-a.shade)*t,
			}
			out[k].c[2] = near
			k++
		}
	}
	return k
}

func clipSegment(a, b mathutil.Vec3, near float64) (mathutil.Vec3, mathutil.Vec3, bool) {
	aIn, bIn := a[2] >= near, b[2] >= near
	switch {
	case aIn && bIn:
		return a, b, true
	case !aIn && !bIn:
		return a, b, false
	}
	t := (near - a[2]) / (b[2] - a[2])
	p := a.Add(b.Sub(a).Scale(t))
	p[2] = near
	if aIn {
		return a, p, true
	}
	return p, b, true
}

// nearestLight picks the closest emitter that is not the body itself.
func nearestLight(b *scene.BodyView, lights []mathutil.Vec3) (mathutil.Vec3, bool) {
	best, found := mathutil.Vec3{}, false
	bestD := math.Inf(1)
	for _, l := range lights {
		d := l.Sub(b.Center).Len()
		if d <= b.Radius {
			continue
		}
		if d < bestD {
			best, bestD, found = l, d, true
		}
	}
	return best, found
}

func lighten(c color.NRGBA) color.NRGBA {
	mix := func(v uint8) uint8 { return uint8((int(v) + 2*255) / 3) }
	return color.NRGBA{mix(c.R), mix(c.G), mix(c.B), 255}
}

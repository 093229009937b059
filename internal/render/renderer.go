package render

import (
	"image/color"
	"math"

	"github.com/aegiscad/viewer/internal/camera"
	"github.com/aegiscad/viewer/internal/scene"
	"github.com/aegiscad/viewer/pkg/geometry"
)

// HUD is text drawn over the frame.
type HUD struct {
	// Lines are listed in the top-left corner.
	Lines []string
	// Banner is centered, used for the empty-state prompt.
	Banner string
	// Loading dims the frame and shows LoadingText.
	Loading bool
}

// LoadingText is shown while an external generation request is running.
const LoadingText = "Generating your design..."

type drawItem struct {
	object *scene.Object
	offset geometry.Vector3
}

// Renderer draws scenes into a surface.
type Renderer struct {
	surface *Surface
	text    *TextDrawer
	frames  uint64
}

// NewRenderer binds a renderer to surface.
func NewRenderer(surface *Surface) *Renderer {
	return &Renderer{surface: surface, text: NewTextDrawer()}
}

// Surface returns the render target.
func (r *Renderer) Surface() *Surface { return r.surface }

// Frames returns how many frames have been drawn.
func (r *Renderer) Frames() uint64 { return r.frames }

// Render draws scn from cam and then the HUD. Meshes are drawn before
// lines so that lines are depth tested against surfaces.
func (r *Renderer) Render(scn *scene.Scene, cam *camera.Perspective, hud HUD) {
	s := r.surface
	if s.Disposed() {
		return
	}
	s.Clear(scn.Background)

	var meshes, lines []drawItem
	var collect func(o *scene.Object, parentOffset geometry.Vector3)
	collect = func(o *scene.Object, parentOffset geometry.Vector3) {
		if !o.Visible {
			return
		}
		offset := parentOffset.Add(o.Position)
		switch o.Kind {
		case scene.KindMesh:
			meshes = append(meshes, drawItem{o, offset})
		case scene.KindLines:
			lines = append(lines, drawItem{o, offset})
		}
		for _, c := range o.Children() {
			collect(c, offset)
		}
	}
	for _, o := range scn.Objects() {
		collect(o, geometry.Vector3{})
	}

	for _, it := range meshes {
		r.drawMesh(scn, cam, it)
	}
	for _, it := range lines {
		r.drawLines(cam, it)
	}

	r.text.DrawHUD(s.Image(), hud)
	r.frames++
}

func (r *Renderer) drawMesh(scn *scene.Scene, cam *camera.Perspective, it drawItem) {
	geo, mat := it.object.Geometry, it.object.Material
	if geo.Empty() || mat == nil {
		return
	}
	img, zbuf := r.surface.Image(), r.surface.depth
	w, h := r.surface.Size()
	fw, fh := float64(w), float64(h)

	for _, tri := range geo.Triangles {
		tri = tri.Translate(it.offset)

		var pv [3]vertex
		visible := true
		for i, p := range tri.Vertices() {
			x, y, z, ok := cam.Project(p, fw, fh)
			if !ok {
				visible = false
				break
			}
			pv[i] = vertex{x, y, z}
		}
		if !visible {
			continue
		}

		if mat.Wireframe {
			opacity := materialOpacity(mat)
			drawLine(img, zbuf, pv[0], pv[1], mat.Color, opacity)
			drawLine(img, zbuf, pv[1], pv[2], mat.Color, opacity)
			drawLine(img, zbuf, pv[2], pv[0], mat.Color, opacity)
			continue
		}

		col := mat.Color
		if mat.Lit {
			col = shade(scn, cam, tri, mat.Color)
		}
		fillTriangle(img, zbuf, pv[0], pv[1], pv[2], col)
	}
}

// shade applies ambient plus lambert lighting. Faces are lit from the side
// facing the camera.
func shade(scn *scene.Scene, cam *camera.Perspective, tri geometry.Triangle, base color.RGBA) color.RGBA {
	n := tri.FaceNormal()
	if n.Dot(cam.Position.Sub(tri.Center())) < 0 {
		n = n.Neg()
	}
	intensity := scn.Ambient.Intensity +
		scn.Directional.Intensity*math.Max(0, n.Dot(scn.Directional.Direction()))
	intensity = math.Min(1, intensity)

	scale := func(c uint8) uint8 { return uint8(math.Round(float64(c) * intensity)) }
	return color.RGBA{R: scale(base.R), G: scale(base.G), B: scale(base.B), A: 255}
}

func (r *Renderer) drawLines(cam *camera.Perspective, it drawItem) {
	geo, mat := it.object.Geometry, it.object.Material
	if geo.Empty() || mat == nil {
		return
	}
	img, zbuf := r.surface.Image(), r.surface.depth
	w, h := r.surface.Size()
	opacity := materialOpacity(mat)

	for _, seg := range geo.Segments {
		a, b, ok := clipToNear(cam, seg.Start.Add(it.offset), seg.End.Add(it.offset))
		if !ok {
			continue
		}
		ax, ay, az, okA := cam.Project(a, float64(w), float64(h))
		bx, by, bz, okB := cam.Project(b, float64(w), float64(h))
		if !okA || !okB {
			continue
		}

		col := mat.Color
		if mat.VertexColors {
			col = seg.Color
		}
		drawLine(img, zbuf, vertex{ax, ay, az}, vertex{bx, by, bz}, col, opacity)
	}
}

// clipToNear trims a segment to the part in front of the near plane.
func clipToNear(cam *camera.Perspective, a, b geometry.Vector3) (geometry.Vector3, geometry.Vector3, bool) {
	forward, _, _ := cam.Basis()
	near := cam.Near * (1 + 1e-9)
	da := a.Sub(cam.Position).Dot(forward)
	db := b.Sub(cam.Position).Dot(forward)

	switch {
	case da < near && db < near:
		return a, b, false
	case da < near:
		a = a.Lerp(b, (near-da)/(db-da))
	case db < near:
		b = b.Lerp(a, (near-db)/(da-db))
	}
	return a, b, true
}

func materialOpacity(m *scene.Material) float64 {
	if !m.Transparent {
		return 1
	}
	return math.Max(0, math.Min(1, m.Opacity))
}

package render

import (
	"image"
	"image/color"
	"math"
)

// vertex is a projected point: pixel coordinates plus view depth.
type vertex struct {
	x, y, z float64
}

// fillTriangle scan-converts a triangle with depth testing.
func fillTriangle(img *image.RGBA, zbuffer []float64, a, b, c vertex, col color.RGBA) {
	v := [3]vertex{a, b, c}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].y > v[2].y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	yStart := int(math.Max(0, math.Ceil(v[0].y)))
	yEnd := int(math.Min(float64(bounds.Max.Y-1), math.Floor(v[2].y)))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		// long edge 0-2 against the short edge covering this row
		xa, za := edgeAt(v[0], v[2], fy)
		var xb, zb float64
		if fy < v[1].y {
			xb, zb = edgeAt(v[0], v[1], fy)
		} else {
			xb, zb = edgeAt(v[1], v[2], fy)
		}
		if xa > xb {
			xa, xb = xb, xa
			za, zb = zb, za
		}

		xStart := int(math.Max(0, math.Ceil(xa)))
		xEnd := int(math.Min(float64(bounds.Max.X-1), math.Floor(xb)))
		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if xb != xa {
				t = (float64(x) - xa) / (xb - xa)
			}
			z := za + t*(zb-za)

			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func edgeAt(p, q vertex, y float64) (x, z float64) {
	if q.y == p.y {
		return p.x, p.z
	}
	t := (y - p.y) / (q.y - p.y)
	return p.x + t*(q.x-p.x), p.z + t*(q.z-p.z)
}

// lineDepthBias lets lines lying on a surface win the depth test.
const lineDepthBias = 1e-3

// drawLine draws a depth-tested line with Bresenham's algorithm, blending
// by opacity. Lines do not write depth.
func drawLine(img *image.RGBA, zbuffer []float64, a, b vertex, col color.RGBA, opacity float64) {
	bounds := img.Bounds()
	width := bounds.Dx()

	x1, y1 := int(math.Round(a.x)), int(math.Round(a.y))
	x2, y2 := int(math.Round(b.x)), int(math.Round(b.y))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	steps := max(dx, dy)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for i := 0; ; i++ {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			t := 0.0
			if steps > 0 {
				t = float64(i) / float64(steps)
			}
			z := a.z + t*(b.z-a.z)
			idx := y1*width + x1
			if z*(1-lineDepthBias) <= zbuffer[idx] {
				blend(img, x1, y1, col, opacity)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func blend(img *image.RGBA, x, y int, col color.RGBA, opacity float64) {
	if opacity >= 1 {
		img.SetRGBA(x, y, col)
		return
	}
	dst := img.RGBAAt(x, y)
	mix := func(s, d uint8) uint8 {
		return uint8(math.Round(float64(s)*opacity + float64(d)*(1-opacity)))
	}
	img.SetRGBA(x, y, color.RGBA{R: mix(col.R, dst.R), G: mix(col.G, dst.G), B: mix(col.B, dst.B), A: 255})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/aegiscad/viewer/internal/logx"
)

const (
	textSize    = 14
	textPadding = 6
	hudMargin   = 10
)

var (
	textColor   = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	panelColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xd0}
	loadingVeil = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb3}
	bannerColor = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

// TextDrawer renders HUD text with Go Regular, or the 7x13 bitmap face if
// the TrueType font cannot be loaded.
type TextDrawer struct {
	face font.Face
}

// NewTextDrawer loads the HUD font.
func NewTextDrawer() *TextDrawer {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		logx.Logger().Warn("render: falling back to bitmap font", "error", err)
		return &TextDrawer{face: basicfont.Face7x13}
	}
	return &TextDrawer{face: truetype.NewFace(f, &truetype.Options{
		Size:    textSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})}
}

// Face returns the font face in use.
func (t *TextDrawer) Face() font.Face { return t.face }

// Measure returns the pixel width and line height of s.
func (t *TextDrawer) Measure(s string) (width, height int) {
	m := t.face.Metrics()
	return font.MeasureString(t.face, s).Ceil(), (m.Ascent + m.Descent).Ceil()
}

// DrawHUD draws the loading veil, the centered banner and the info lines.
func (t *TextDrawer) DrawHUD(img *image.RGBA, hud HUD) {
	if hud.Loading {
		draw.Draw(img, img.Bounds(), image.NewUniform(loadingVeil), image.Point{}, draw.Over)
		t.drawCentered(img, LoadingText, textColor)
	} else if hud.Banner != "" {
		t.drawCentered(img, hud.Banner, bannerColor)
	}

	if len(hud.Lines) == 0 {
		return
	}
	_, lineHeight := t.Measure("M")
	width := 0
	for _, line := range hud.Lines {
		w, _ := t.Measure(line)
		width = max(width, w)
	}
	panel := image.Rect(hudMargin, hudMargin,
		hudMargin+width+2*textPadding, hudMargin+len(hud.Lines)*lineHeight+2*textPadding)
	draw.Draw(img, panel.Intersect(img.Bounds()), image.NewUniform(panelColor), image.Point{}, draw.Over)

	for i, line := range hud.Lines {
		t.drawAt(img, line, panel.Min.X+textPadding, panel.Min.Y+textPadding+i*lineHeight, textColor)
	}
}

func (t *TextDrawer) drawCentered(img *image.RGBA, s string, col color.RGBA) {
	w, h := t.Measure(s)
	b := img.Bounds()
	t.drawAt(img, s, b.Min.X+(b.Dx()-w)/2, b.Min.Y+(b.Dy()-h)/2, col)
}

// drawAt draws s with its top-left corner at (x, y).
func (t *TextDrawer) drawAt(img *image.RGBA, s string, x, y int, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: t.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + t.face.Metrics().Ascent},
	}
	d.DrawString(s)
}

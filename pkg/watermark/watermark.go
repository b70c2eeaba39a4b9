// Package watermark stamps attribution text onto raster images.
//
// Two styles share one renderer: Corner puts a small mark in the bottom-right
// corner, Diagonal tiles a rotated mark over the whole canvas. Both return a
// flattened JPEG and never modify the source bytes.
package watermark

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	// ErrDecode means the source bytes are not a readable image.
	ErrDecode = errors.New("watermark: cannot decode image")
	// ErrUnknownStyle is returned for a Style outside the declared set.
	ErrUnknownStyle = errors.New("watermark: unknown style")
)

// Style selects how the text is laid out.
type Style int

const (
	Corner Style = iota + 1
	Diagonal
)

func (s Style) String() string {
	switch s {
	case Corner:
		return "corner"
	case Diagonal:
		return "diagonal"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

const (
	JPEGQuality = 90

	cornerFontSize = 20
	cornerAlpha    = 0.8
	cornerPadding  = 15

	diagonalFontSize = 32
	diagonalAlpha    = 0.3
	diagonalSpacing  = 200
	diagonalAngle    = -45
)

// CornerText is the attribution shown on every gallery view.
func CornerText(ownerName string) string { return "© " + ownerName }

// DiagonalText is the copy-deterrent stamped on anonymous downloads.
func DiagonalText(ownerName string) string { return "© " + ownerName + " - Photo Gallery" }

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = truetype.Parse(goregular.TTF)
	})
	return fontTTF, fontErr
}

// faces are stateful and not safe for concurrent use, so every render gets its own.
func newFace(size float64) (font.Face, error) {
	f, err := loadFont()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone}), nil
}

// Render decodes src, draws text in the given style and returns JPEG bytes.
func Render(src []byte, text string, style Style) ([]byte, error) {
	if style != Corner && style != Diagonal {
		return nil, ErrUnknownStyle
	}
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	dc := gg.NewContextForRGBA(flatten(img))
	switch style {
	case Corner:
		err = drawCorner(dc, text)
	case Diagonal:
		err = drawDiagonal(dc, text)
	}
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dc.Image(), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("watermark: encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

// flatten copies img onto an opaque white canvas anchored at the origin.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func drawCorner(dc *gg.Context, text string) error {
	face, err := newFace(cornerFontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetRGBA(1, 1, 1, cornerAlpha)
	x := float64(dc.Width() - cornerPadding)
	y := float64(dc.Height() - cornerPadding)
	// ax=1 right-aligns, ay=0 keeps the baseline on y so glyphs sit above the padding.
	dc.DrawStringAnchored(text, x, y, 1, 0)
	return nil
}

func drawDiagonal(dc *gg.Context, text string) error {
	face, err := newFace(diagonalFontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetRGBA(1, 1, 1, diagonalAlpha)

	w, h := dc.Width(), dc.Height()
	// The grid overshoots each axis by the other dimension so rotated rows still
	// cover the corners.
	for x := -h; x < w+h; x += diagonalSpacing {
		for y := -w; y < h+w; y += diagonalSpacing {
			fx, fy := float64(x), float64(y)
			dc.Push()
			dc.RotateAbout(gg.Radians(diagonalAngle), fx, fy)
			dc.DrawStringAnchored(text, fx, fy, 0.5, 0.5)
			dc.Pop()
		}
	}
	return nil
}

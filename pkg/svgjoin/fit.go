package svgjoin

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ViewBox is the size of an SVG viewBox anchored at the origin.
type ViewBox struct {
	Width, Height float64
}

var viewBoxSep = regexp.MustCompile(`\s*,\s*|\s+`)

// ParseViewBox parses a viewBox attribute of the form "0 0 width height".
// Values may be separated by whitespace or commas.
func ParseViewBox(s string) (ViewBox, error) {
	fields := viewBoxSep.Split(s, -1)
	if len(fields) != 4 {
		return ViewBox{}, fmt.Errorf("viewBox %q: want 4 values, got %d", s, len(fields))
	}
	var v [4]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, fmt.Errorf("viewBox %q: %w", s, err)
		}
		v[i] = x
	}
	if v[0] != 0 || v[1] != 0 {
		return ViewBox{}, fmt.Errorf("viewBox %q: min-x and min-y must be zero", s)
	}
	if v[2] <= 0 || v[3] <= 0 {
		return ViewBox{}, fmt.Errorf("viewBox %q: width and height must be positive", s)
	}
	return ViewBox{Width: v[2], Height: v[3]}, nil
}

func (v ViewBox) String() string {
	return "0 0 " + num(v.Width) + " " + num(v.Height)
}

// Placement positions an appended image. Scale applies only when at most
// one anchor is set; with both set the image is scaled to fit between them.
type Placement struct {
	Top    Anchor
	Bottom Anchor
	Scale  float64 // 0 means 1
}

// Fit is the computed vertical placement of an appended image.
type Fit struct {
	Offset float64 // vertical offset of the appended image; negative moves the first image down
	Height float64 // height of the combined image
	Scale  float64 // scale of the appended image
}

// FitVertical places an image of height h2 next to one of height h1.
//
// With no anchor the image is aligned at the top. With one anchor the other
// edge follows from the scaled height. With both anchors the image is
// stretched between them; equal anchors are read as a centerline.
func FitVertical(h1, h2 float64, p Placement) Fit {
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	size2 := h2 * scale
	top, topSet := p.Top.position()
	bottom, bottomSet := p.Bottom.position()

	switch {
	case !topSet && !bottomSet:
		top = 0
		bottom = size2 / h1
	case !bottomSet:
		bottom = top + size2/h1
	case !topSet:
		top = bottom - size2/h1
	default:
		if top == bottom {
			half := size2 / h1 / 2
			top -= half
			bottom += half
		}
		if bottom < top {
			top, bottom = bottom, top
		}
		scale = (bottom - top) * h1 / h2
	}

	return Fit{
		Offset: top * h1,
		Height: (math.Max(1, bottom) - math.Min(0, top)) * h1,
		Scale:  scale,
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func round3(f float64) float64 {
	return math.RoundToEven(f*1000) / 1000
}

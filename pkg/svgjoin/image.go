package svgjoin

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// Image is an SVG document reduced to its viewBox and the content groups
// that make up its drawing.
type Image struct {
	ViewBox ViewBox
	parts   []part
}

type part struct {
	transform string
	body      []byte
}

// Parse reads an SVG document. Only the root viewBox is interpreted; the
// root's content is kept verbatim.
func Parse(data []byte) (*Image, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("svg: no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("svg: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return nil, fmt.Errorf("svg: root element is <%s>", start.Name.Local)
		}

		var vb string
		for _, a := range start.Attr {
			if a.Name.Local == "viewBox" {
				vb = a.Value
			}
		}
		if vb == "" {
			return nil, fmt.Errorf("svg: root has no viewBox")
		}
		box, err := ParseViewBox(vb)
		if err != nil {
			return nil, fmt.Errorf("svg: %w", err)
		}

		begin := int(dec.InputOffset())
		end := bytes.LastIndex(data, []byte("</svg>"))
		if end < begin {
			return &Image{ViewBox: box}, nil
		}
		body := bytes.TrimSpace(data[begin:end])
		return &Image{ViewBox: box, parts: []part{{body: body}}}, nil
	}
}

// Append places other to the right of im, pad units apart, and grows im to
// hold both. Dimensions are rounded to whole units.
func (im *Image) Append(other *Image, pad float64, p Placement) Fit {
	fit := FitVertical(im.ViewBox.Height, other.ViewBox.Height, p)

	height := math.RoundToEven(fit.Height - 0.5)
	shift := im.ViewBox.Width + pad
	width := math.RoundToEven(math.Max(im.ViewBox.Width, shift+fit.Scale*other.ViewBox.Width) - 0.5)

	if fit.Offset < 0 {
		down := "translate(0 " + num(round3(-fit.Offset)) + ")"
		for i := range im.parts {
			im.parts[i].transform = join(down, im.parts[i].transform)
		}
	}
	place := fmt.Sprintf("translate(%s %s) scale(%s)",
		num(shift), num(round3(math.Max(0, fit.Offset))), num(fit.Scale))
	for _, pt := range other.parts {
		im.parts = append(im.parts, part{transform: join(place, pt.transform), body: pt.body})
	}

	im.ViewBox = ViewBox{Width: width, Height: height}
	return fit
}

// Write encodes the image with sizes in points.
func (im *Image) Write(w io.Writer, preserveAspectRatio string) error {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	attrs := []string{fmt.Sprintf(`viewBox="%s"`, im.ViewBox)}
	if preserveAspectRatio != "" {
		attrs = append(attrs, fmt.Sprintf(`preserveAspectRatio="%s"`, preserveAspectRatio))
	}
	canvas.Startunit(int(im.ViewBox.Width), int(im.ViewBox.Height), "pt", attrs...)
	for _, pt := range im.parts {
		if pt.transform != "" {
			canvas.Gtransform(pt.transform)
		}
		canvas.Writer.Write(pt.body)
		io.WriteString(canvas.Writer, "\n")
		if pt.transform != "" {
			canvas.Gend()
		}
	}
	canvas.End()
	_, err := w.Write(buf.Bytes())
	return err
}

func join(outer, inner string) string {
	if inner == "" {
		return outer
	}
	return outer + " " + inner
}

package svgjoin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
)

const graphvizHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN"
 "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<!-- Generated by graphviz -->
`

func testSVG(w, h int, id string) []byte {
	var buf bytes.Buffer
	buf.WriteString(graphvizHeader)
	buf.WriteString(`<svg width="` + strconv.Itoa(w) + `pt" height="` + strconv.Itoa(h) + `pt" viewBox="0.00 0.00 ` +
		strconv.Itoa(w) + `.00 ` + strconv.Itoa(h) + `.00" xmlns="http://www.w3.org/2000/svg">` + "\n")
	buf.WriteString(`<g id="` + id + `" class="graph" transform="scale(1 1) rotate(0) translate(4 ` + strconv.Itoa(h-4) + `)">` +
		`<title>` + id + `</title></g>` + "\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	img, err := Parse(testSVG(100, 80, "graph0"))
	require.NoError(t, err)
	assert.Equal(t, ViewBox{100, 80}, img.ViewBox)
	require.Len(t, img.parts, 1)
	assert.Contains(t, string(img.parts[0].body), `<g id="graph0"`)
	assert.NotContains(t, string(img.parts[0].body), "</svg>")

	for _, bad := range []string{
		``,
		`<html></html>`,
		`<svg width="1pt"></svg>`,
		`<svg viewBox="1 1 10 10"></svg>`,
	} {
		_, err := Parse([]byte(bad))
		assert.Error(t, err, "Parse(%q)", bad)
	}
}

func TestAppend(t *testing.T) {
	first, err := Parse(testSVG(100, 80, "a"))
	require.NoError(t, err)
	second, err := Parse(testSVG(50, 40, "b"))
	require.NoError(t, err)

	first.Append(second, 10, Placement{})
	assert.Equal(t, ViewBox{160, 80}, first.ViewBox)

	var buf bytes.Buffer
	require.NoError(t, first.Write(&buf, "xMinYMin"))
	out := buf.String()
	assert.Contains(t, out, `width="160pt"`)
	assert.Contains(t, out, `height="80pt"`)
	assert.Contains(t, out, `viewBox="0 0 160 80"`)
	assert.Contains(t, out, `preserveAspectRatio="xMinYMin"`)
	assert.Contains(t, out, `<g transform="translate(110 0) scale(1)">`)
	assert.Contains(t, out, `<g id="a"`)
	assert.Contains(t, out, `<g id="b"`)

	again, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ViewBox{160, 80}, again.ViewBox)
}

func TestAppendMovesFirstDown(t *testing.T) {
	first, err := Parse(testSVG(100, 80, "a"))
	require.NoError(t, err)
	second, err := Parse(testSVG(50, 40, "b"))
	require.NoError(t, err)

	fit := first.Append(second, 0, Placement{Top: At(-0.5)})
	assert.InDelta(t, -40, fit.Offset, 1e-9)
	assert.Equal(t, ViewBox{150, 120}, first.ViewBox)

	var buf bytes.Buffer
	require.NoError(t, first.Write(&buf, ""))
	out := buf.String()
	assert.Contains(t, out, `<g transform="translate(0 40)">`)
	assert.Contains(t, out, `<g transform="translate(100 0) scale(1)">`)
	assert.NotContains(t, out, "preserveAspectRatio")
}

func writeSteps(t *testing.T, dir, name string, steps int, w, h int) {
	t.Helper()
	for i := 1; i <= steps; i++ {
		path := filepath.Join(dir, name+strconv.Itoa(i)+".svg")
		require.NoError(t, os.WriteFile(path, testSVG(w, h, name), 0o644))
	}
}

func TestJoin(t *testing.T) {
	dir := t.TempDir()
	writeSteps(t, dir, "TDStep", 2, 100, 80)
	writeSteps(t, dir, "PrimalGraphStep", 2, 50, 40)
	writeSteps(t, dir, "IncidenceGraphStep", 2, 30, 160)

	err := Join(context.Background(), Options{
		BaseNames: []string{"TDStep", "PrimalGraphStep", "IncidenceGraphStep"},
		Folder:    dir,
		NumImages: 2,
		Padding:   []float64{10, 20},
		VTop:      []Anchor{Top},
		VBottom:   []Anchor{{}, Bottom},
	})
	require.NoError(t, err)

	for i := 1; i <= 2; i++ {
		data, err := os.ReadFile(filepath.Join(dir, "combined"+strconv.Itoa(i)+".svg"))
		require.NoError(t, err)
		img, err := Parse(data)
		require.NoError(t, err)
		// second image at 110..160, third stretched to the first's height
		// (scale 0.5) at 180..195; 194.5 rounds to even
		assert.Equal(t, ViewBox{194, 80}, img.ViewBox, "step %d", i)
	}
}

func TestJoinNeedsTwoImages(t *testing.T) {
	dir := t.TempDir()
	writeSteps(t, dir, "TDStep", 1, 100, 80)

	require.NoError(t, Join(context.Background(), Options{BaseNames: []string{"TDStep"}, Folder: dir}))
	_, err := os.Stat(filepath.Join(dir, "combined1.svg"))
	assert.True(t, os.IsNotExist(err))
}

func TestJoinMissingImage(t *testing.T) {
	dir := t.TempDir()
	writeSteps(t, dir, "TDStep", 1, 100, 80)

	err := Join(context.Background(), Options{BaseNames: []string{"TDStep", "Missing"}, Folder: dir})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeFileNotFound), "err = %v", err)
}

func TestAt(t *testing.T) {
	list := []float64{1, 2}
	assert.Equal(t, 1.0, at(list, 0))
	assert.Equal(t, 2.0, at(list, 1))
	assert.Equal(t, 2.0, at(list, 5))
	assert.Equal(t, 0.0, at([]float64(nil), 3))
}

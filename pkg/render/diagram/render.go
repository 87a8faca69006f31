package diagram

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tdvisu/pkg/cache"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/observability"
)

// Format is a Graphviz output format.
type Format string

// Output formats.
const (
	SVG   Format = "svg"
	Plain Format = "plain"
)

// Renderer lays out DOT source and returns the rendered output.
type Renderer interface {
	Render(ctx context.Context, dot []byte, engine Engine, format Format) ([]byte, error)
}

// Sink receives rendered frames. n counts from 1.
type Sink interface {
	WriteFrame(ctx context.Context, n int, dot, svg []byte) error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, n int, dot, svg []byte) error

// WriteFrame calls f.
func (f SinkFunc) WriteFrame(ctx context.Context, n int, dot, svg []byte) error {
	return f(ctx, n, dot, svg)
}

// Render renders d with its own engine.
func Render(ctx context.Context, r Renderer, d *Diagram, format Format) ([]byte, error) {
	engine := d.Engine
	if engine == "" {
		engine = Dot
	}
	return r.Render(ctx, d.DOT(), engine, format)
}

// Graphviz renders with the Graphviz library compiled to WebAssembly.
// Each call uses its own Graphviz instance, so a Graphviz value may be
// shared by goroutines.
type Graphviz struct{}

// NewGraphviz returns a Graphviz renderer.
func NewGraphviz() *Graphviz { return &Graphviz{} }

// Render implements [Renderer].
func (*Graphviz) Render(ctx context.Context, dot []byte, engine Engine, format Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(engine))

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format(format), &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRender, err, "render %s with %s", format, engine)
	}
	return buf.Bytes(), nil
}

// Cached wraps a renderer with a cache. Entries never expire: the key
// covers everything that determines the output.
type Cached struct {
	inner  Renderer
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// NewCached returns a caching renderer. A nil keyer uses
// [cache.DefaultKeyer]; a nil logger discards output.
func NewCached(inner Renderer, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Cached{inner: inner, cache: c, keyer: keyer, logger: logger}
}

// Render implements [Renderer]. Cache failures are logged and fall back to
// rendering.
func (c *Cached) Render(ctx context.Context, dot []byte, engine Engine, format Format) ([]byte, error) {
	key := c.keyer.RenderKey(dot, cache.RenderKeyOpts{Engine: string(engine), Format: string(format)})

	hooks := observability.Cache()
	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "err", err)
	} else if hit {
		c.logger.Debug("cache hit", "engine", engine, "format", format)
		hooks.OnCacheHit(ctx, "render")
		return data, nil
	}
	hooks.OnCacheMiss(ctx, "render")

	start := time.Now()
	out, err := c.inner.Render(ctx, dot, engine, format)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("rendered", "engine", engine, "format", format, "took", time.Since(start))

	if err := c.cache.Set(ctx, key, out, 0); err != nil {
		c.logger.Warn("cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "render", len(out))
	}
	return out, nil
}

// Position is a node center in points, as reported by the "plain" format.
type Position struct {
	X, Y float64
}

// ParsePlain reads the node positions from Graphviz "plain" output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 ... style color
//	stop
func ParsePlain(data []byte) (map[string]Position, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !sc.Scan() || !strings.HasPrefix(sc.Text(), "graph") {
		return nil, apperrors.New(apperrors.ErrCodeRender, "plain output: missing graph line")
	}

	pos := make(map[string]Position)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "node ") {
			continue
		}
		fields := splitPlain(line[len("node "):])
		if len(fields) < 3 {
			return nil, apperrors.New(apperrors.ErrCodeRender, "plain output: short node line %q", line)
		}
		x, errX := strconv.ParseFloat(fields[1], 64)
		y, errY := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil {
			return nil, apperrors.New(apperrors.ErrCodeRender, "plain output: bad position in %q", line)
		}
		pos[fields[0]] = Position{X: x, Y: y}
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRender, err, "plain output")
	}
	return pos, nil
}

// splitPlain splits a line on spaces, keeping double-quoted fields intact.
func splitPlain(s string) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
		inside bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoted && c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case c == '"':
			quoted = !quoted
			inside = true
		case c == ' ' && !quoted:
			if inside {
				fields = append(fields, cur.String())
				cur.Reset()
				inside = false
			}
		default:
			cur.WriteByte(c)
			inside = true
		}
	}
	if inside {
		fields = append(fields, cur.String())
	}
	return fields
}

// Pin returns the "pos" attribute fixing a node at p for neato.
func Pin(p Position) string {
	return fmt.Sprintf("%f,%f!", p.X, p.Y)
}

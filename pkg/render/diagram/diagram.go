package diagram

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Attrs holds Graphviz attributes of a graph, node or edge.
type Attrs map[string]string

// Engine is a Graphviz layout engine.
type Engine string

// Layout engines used by the visualizations.
const (
	Dot   Engine = "dot"
	Neato Engine = "neato"
	Sfdp  Engine = "sfdp"
	Circo Engine = "circo"
)

// Diagram is a mutable Graphviz graph. Nodes and edges keep the order in
// which they were first added; setting an existing node or edge merges
// the new attributes into the old ones, the way a strict graph does.
type Diagram struct {
	Name     string
	Directed bool
	Strict   bool
	Engine   Engine

	// Default attributes written as graph, node and edge statements.
	Graph Attrs
	Node  Attrs
	Edge  Attrs

	subgraphs []*Subgraph
	state
	saved *state
}

type state struct {
	nodes   []*node
	nodeIdx map[string]int
	edges   []*edge
	edgeIdx map[edgeKey]int
}

type node struct {
	id    string
	attrs Attrs
	sub   int
}

type edge struct {
	from, to string
	attrs    Attrs
	sub      int
}

type edgeKey struct{ from, to string }

// New creates an empty strict diagram laid out with engine.
func New(name string, directed bool, engine Engine) *Diagram {
	return &Diagram{
		Name:     name,
		Directed: directed,
		Strict:   true,
		Engine:   engine,
		Graph:    Attrs{},
		Node:     Attrs{},
		Edge:     Attrs{},
		state:    newState(),
	}
}

func newState() state {
	return state{
		nodeIdx: make(map[string]int),
		edgeIdx: make(map[edgeKey]int),
	}
}

// SetNode adds the node or merges attrs into it.
func (d *Diagram) SetNode(id string, attrs Attrs) {
	d.setNode(id, attrs, -1)
}

// SetEdge adds the edge or merges attrs into it. In a strict undirected
// diagram (a, b) and (b, a) are the same edge.
func (d *Diagram) SetEdge(from, to string, attrs Attrs) {
	d.setEdge(from, to, attrs, -1)
}

// HasNode reports whether the node has been set.
func (d *Diagram) HasNode(id string) bool {
	_, ok := d.nodeIdx[id]
	return ok
}

// NodeAttrs returns a copy of the node's attributes.
func (d *Diagram) NodeAttrs(id string) (Attrs, bool) {
	i, ok := d.nodeIdx[id]
	if !ok {
		return nil, false
	}
	return maps.Clone(d.nodes[i].attrs), true
}

// EdgeAttrs returns a copy of the edge's attributes.
func (d *Diagram) EdgeAttrs(from, to string) (Attrs, bool) {
	i, ok := d.edgeIdx[d.key(from, to)]
	if !ok {
		return nil, false
	}
	return maps.Clone(d.edges[i].attrs), true
}

// Nodes returns the node IDs in insertion order.
func (d *Diagram) Nodes() []string {
	ids := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		ids[i] = n.id
	}
	return ids
}

// Edges returns the edges in insertion order.
func (d *Diagram) Edges() [][2]string {
	out := make([][2]string, len(d.edges))
	for i, e := range d.edges {
		out[i] = [2]string{e.from, e.to}
	}
	return out
}

// Subgraph returns the named subgraph, creating it on first use. Names
// starting with "cluster" are drawn as boxes by Graphviz.
func (d *Diagram) Subgraph(name string) *Subgraph {
	for _, s := range d.subgraphs {
		if s.Name == name {
			return s
		}
	}
	s := &Subgraph{
		Name:  name,
		Graph: Attrs{},
		Node:  Attrs{},
		Edge:  Attrs{},
		d:     d,
		idx:   len(d.subgraphs),
	}
	d.subgraphs = append(d.subgraphs, s)
	return s
}

// Checkpoint remembers the current nodes and edges for [Diagram.Reset].
// Subgraphs and default attributes are not part of the checkpoint.
func (d *Diagram) Checkpoint() {
	saved := d.state.clone()
	d.saved = &saved
}

// Reset restores the state of the last checkpoint. Without a checkpoint
// the diagram is emptied.
func (d *Diagram) Reset() {
	if d.saved == nil {
		d.state = newState()
		return
	}
	d.state = d.saved.clone()
}

func (d *Diagram) key(from, to string) edgeKey {
	if !d.Directed && d.Strict && to < from {
		from, to = to, from
	}
	return edgeKey{from, to}
}

func (d *Diagram) setNode(id string, attrs Attrs, sub int) {
	if i, ok := d.nodeIdx[id]; ok {
		maps.Copy(d.nodes[i].attrs, attrs)
		return
	}
	d.nodeIdx[id] = len(d.nodes)
	d.nodes = append(d.nodes, &node{id: id, attrs: cloneAttrs(attrs), sub: sub})
}

func (d *Diagram) setEdge(from, to string, attrs Attrs, sub int) {
	k := d.key(from, to)
	if i, ok := d.edgeIdx[k]; ok && d.Strict {
		maps.Copy(d.edges[i].attrs, attrs)
		return
	}
	d.edgeIdx[k] = len(d.edges)
	d.edges = append(d.edges, &edge{from: from, to: to, attrs: cloneAttrs(attrs), sub: sub})
}

func (s state) clone() state {
	c := state{
		nodes:   make([]*node, len(s.nodes)),
		nodeIdx: maps.Clone(s.nodeIdx),
		edges:   make([]*edge, len(s.edges)),
		edgeIdx: maps.Clone(s.edgeIdx),
	}
	for i, n := range s.nodes {
		c.nodes[i] = &node{id: n.id, attrs: cloneAttrs(n.attrs), sub: n.sub}
	}
	for i, e := range s.edges {
		c.edges[i] = &edge{from: e.from, to: e.to, attrs: cloneAttrs(e.attrs), sub: e.sub}
	}
	return c
}

func cloneAttrs(a Attrs) Attrs {
	if a == nil {
		return Attrs{}
	}
	return maps.Clone(a)
}

// Subgraph groups nodes and edges of a diagram. Nodes and edges first set
// through a subgraph are written inside it.
type Subgraph struct {
	Name  string
	Graph Attrs
	Node  Attrs
	Edge  Attrs

	d   *Diagram
	idx int
}

// SetNode adds the node to the subgraph or merges attrs into it.
func (s *Subgraph) SetNode(id string, attrs Attrs) {
	s.d.setNode(id, attrs, s.idx)
}

// SetEdge adds the edge to the subgraph or merges attrs into it.
func (s *Subgraph) SetEdge(from, to string, attrs Attrs) {
	s.d.setEdge(from, to, attrs, s.idx)
}

// DOT returns the diagram in Graphviz DOT syntax.
func (d *Diagram) DOT() []byte {
	var buf bytes.Buffer
	_ = d.WriteDOT(&buf)
	return buf.Bytes()
}

// String returns the DOT source.
func (d *Diagram) String() string { return string(d.DOT()) }

// WriteDOT writes the diagram in DOT syntax. The output only depends on
// the order in which nodes and edges were added, so equal diagrams give
// byte-equal sources.
func (d *Diagram) WriteDOT(w io.Writer) error {
	var b strings.Builder
	if d.Strict {
		b.WriteString("strict ")
	}
	op := "--"
	if d.Directed {
		b.WriteString("digraph ")
		op = "->"
	} else {
		b.WriteString("graph ")
	}
	b.WriteString(quote(d.Name))
	b.WriteString(" {\n")

	writeDefaults(&b, "\t", d.Graph, d.Node, d.Edge)

	for i, sg := range d.subgraphs {
		fmt.Fprintf(&b, "\tsubgraph %s {\n", quote(sg.Name))
		writeDefaults(&b, "\t\t", sg.Graph, sg.Node, sg.Edge)
		d.writeBody(&b, "\t\t", op, i)
		b.WriteString("\t}\n")
	}
	d.writeBody(&b, "\t", op, -1)
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (d *Diagram) writeBody(b *strings.Builder, indent, op string, sub int) {
	for _, n := range d.nodes {
		if n.sub != sub {
			continue
		}
		b.WriteString(indent)
		b.WriteString(quote(n.id))
		writeAttrs(b, n.attrs)
		b.WriteString("\n")
	}
	for _, e := range d.edges {
		if e.sub != sub {
			continue
		}
		fmt.Fprintf(b, "%s%s %s %s", indent, quote(e.from), op, quote(e.to))
		writeAttrs(b, e.attrs)
		b.WriteString("\n")
	}
}

func writeDefaults(b *strings.Builder, indent string, graph, node, edge Attrs) {
	for _, k := range slices.Sorted(maps.Keys(graph)) {
		fmt.Fprintf(b, "%s%s=%s\n", indent, k, value(graph[k]))
	}
	for _, stmt := range []struct {
		kw    string
		attrs Attrs
	}{{"node", node}, {"edge", edge}} {
		if len(stmt.attrs) == 0 {
			continue
		}
		b.WriteString(indent)
		b.WriteString(stmt.kw)
		writeAttrs(b, stmt.attrs)
		b.WriteString("\n")
	}
}

func writeAttrs(b *strings.Builder, attrs Attrs) {
	if len(attrs) == 0 {
		return
	}
	b.WriteString(" [")
	for i, k := range slices.Sorted(maps.Keys(attrs)) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(value(attrs[k]))
	}
	b.WriteByte(']')
}

// value writes HTML-like labels verbatim and quotes everything else.
func value(v string) string {
	if strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">") {
		return v
	}
	return quote(v)
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Package diagram builds Graphviz diagrams and renders them.
//
// # Overview
//
// A [Diagram] is a strict graph that is built once and then mutated in place
// for every frame of an animation: nodes are emphasized, hidden or restyled
// by setting attributes again, which merges them into the existing ones.
// [Diagram.Checkpoint] and [Diagram.Reset] bring a diagram back to its base
// state between frames.
//
//	d := diagram.New("Tree-Decomposition", true, diagram.Dot)
//	d.Graph["rankdir"] = "BT"
//	d.SetNode("bag 1", diagram.Attrs{"label": diagram.BagLabel("bag 1", labels)})
//	d.SetEdge("bag 2", "bag 1", nil)
//	d.SetNode("bag 1", diagram.Attrs{"fillcolor": "yellow"})
//
// # Rendering
//
// [Diagram.DOT] serializes deterministically: the same sequence of
// mutations always yields the same bytes. A [Renderer] turns DOT source
// into SVG (or Graphviz "plain" output for layout positions). [Graphviz]
// runs the embedded Graphviz library; [Cached] wraps any renderer with a
// [cache.Cache] keyed by the hash of the source.
//
// # Labels
//
// [BagLabel] builds the HTML-like table shown for a bag and
// [SolutionLabel] the record label shown for a solution table.
//
// [cache.Cache]: github.com/matzehuels/tdvisu/pkg/cache.Cache
package diagram

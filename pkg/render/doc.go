// Package render groups the diagram renderers of tdvisu.
//
// # Overview
//
// Every diagram is a Graphviz graph that is built once and then restyled
// for each timeline step:
//
//   - [diagram]: the mutable graph, DOT output and the Graphviz renderer
//   - [tdstep]: the tree decomposition, highlighted step by step
//   - [auxgraph]: incidence, primal, dual and general graphs over the
//     variables of the current bag
//
// Renderers write their frames to a [diagram.Sink]; the pipeline package
// provides one writing numbered SVG files.
package render

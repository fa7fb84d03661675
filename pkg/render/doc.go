// Package render draws the dependency ledger as a bipartite provenance
// graph: repository nodes on one side, package nodes on the other, with
// one edge per distinct (repository, package) pair.
//
// # Usage
//
// Convert records to DOT format, then render to SVG:
//
//	dot := render.ToDOT(root, records)
//	svg, err := render.RenderSVG(dot)
//
// The generated DOT uses left-to-right layout (rankdir=LR) with folder
// shapes for repositories and rounded boxes for packages, colored by
// ecosystem. DOT source is stable for sorted input, so it can be diffed
// across runs or processed with external Graphviz tools.
//
// SVG rendering happens in-process via [github.com/goccy/go-graphviz];
// no graphviz installation is required.
package render

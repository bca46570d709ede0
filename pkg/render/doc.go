// Package render draws trees as node-link diagrams.
//
// # Overview
//
// [ToDOT] converts a tree into Graphviz DOT source: leaves are boxes carrying
// their labels, internal nodes are small circles, and edges point from parent
// to child. Children are emitted in canonical order (by smallest leaf label),
// so equal trees produce identical DOT text. Leaves of a metric tree share a
// rank, which lines them up at the bottom of the drawing.
//
//	dot, err := render.ToDOT(root, render.Options{Heights: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Formats
//
// [Render] produces any of the supported [Format] values in one call. SVG is
// rendered in-process with [github.com/goccy/go-graphviz]; PDF and PNG are
// converted from the SVG by the external rsvg-convert tool (librsvg).
package render

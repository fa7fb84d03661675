package render

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/repobom/pkg/manifest"
	"github.com/matzehuels/repobom/pkg/sbom"
)

type pkgNode struct {
	id        string
	label     string
	ecosystem manifest.Ecosystem
}

type edge struct {
	repo string
	pkg  string
}

// ToDOT converts ledger records into Graphviz DOT format. Repositories
// become folder-shaped nodes, packages become rounded boxes labelled
// name@version, and each distinct (repository, package) pair becomes one
// edge. Node and edge order follows record order, so sorted input yields
// byte-identical DOT across runs.
func ToDOT(root string, records []sbom.Record) string {
	var (
		repos    []string
		pkgs     []pkgNode
		edges    []edge
		repoSeen = make(map[string]bool)
		pkgSeen  = make(map[string]bool)
		edgeSeen = make(map[edge]bool)
	)

	for _, r := range records {
		dir := filepath.Dir(r.Path)
		if !repoSeen[dir] {
			repoSeen[dir] = true
			repos = append(repos, dir)
		}

		id := pkgID(r)
		if !pkgSeen[id] {
			pkgSeen[id] = true
			pkgs = append(pkgs, pkgNode{id: id, label: pkgLabel(r), ecosystem: r.Type})
		}

		e := edge{repo: dir, pkg: id}
		if !edgeSeen[e] {
			edgeSeen[e] = true
			edges = append(edges, e)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph sbom {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, dir := range repos {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, style=filled, fillcolor=lightgrey];\n",
			"repo:"+dir, repoLabel(root, dir))
	}

	buf.WriteString("\n")
	for _, p := range pkgs {
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", p.id, p.label, ecosystemAttrs(p.ecosystem))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", "repo:"+e.repo, e.pkg)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// pkgID namespaces package nodes by ecosystem so a pip and an npm package
// with the same name and version stay separate nodes.
func pkgID(r sbom.Record) string {
	return "pkg:" + string(r.Type) + ":" + pkgLabel(r)
}

func pkgLabel(r sbom.Record) string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "@" + r.Version
}

func repoLabel(root, dir string) string {
	if rel, err := filepath.Rel(root, dir); err == nil && rel != "." {
		return rel
	}
	return filepath.Base(dir)
}

func ecosystemAttrs(eco manifest.Ecosystem) string {
	switch eco {
	case manifest.EcosystemPip:
		return ", fillcolor=lightyellow"
	case manifest.EcosystemNPM:
		return ", fillcolor=lightcyan"
	}
	return ""
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the outer svg tag so the viewBox starts at the
// origin, which keeps the image embeddable without Graphviz's offset.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

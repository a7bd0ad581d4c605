package board

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts the load-board links between boards to Graphviz DOT format.
// Boards are labeled with their display name; links to ids that are not in
// boards are drawn as dashed grey nodes so dangling references stand out.
func ToDOT(boards []Board) string {
	idx := Index(boards)
	adj := Links(boards)

	var buf bytes.Buffer
	buf.WriteString("digraph boards {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	dangling := make(map[string]bool)
	for i := range boards {
		b := &boards[i]
		if idx[b.ID] != b {
			continue
		}
		label := b.DisplayName()
		if label == "" {
			label = b.ID
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", b.ID, label)
		for _, to := range adj[b.ID] {
			if _, ok := idx[to]; !ok && !dangling[to] {
				dangling[to] = true
				fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", to, to)
			}
		}
	}

	buf.WriteString("\n")
	for i := range boards {
		b := &boards[i]
		if idx[b.ID] != b {
			continue
		}
		for _, to := range adj[b.ID] {
			fmt.Fprintf(&buf, "  %q -> %q;\n", b.ID, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderGraphSVG renders the board-link graph to SVG using Graphviz.
func RenderGraphSVG(ctx context.Context, boards []Board) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ToDOT(boards)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

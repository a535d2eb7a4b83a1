package output

import (
	"fmt"
	"strings"

	"docsync/internal/graph"
)

// RenderMermaid renders the module dependency graph as a Mermaid diagram.
// Import edges are solid, call edges dotted, cycle members highlighted.
// Nodes and edges are emitted in sorted order.
func RenderMermaid(g *graph.DependencyGraph, cycles []graph.Cycle) []byte {
	inCycle := map[string]bool{}
	for _, c := range cycles {
		for _, m := range c.Members {
			inCycle[m] = true
		}
	}

	var b strings.Builder
	b.WriteString("graph LR\n")

	ids := map[string]string{}
	for i, node := range g.Nodes() {
		id := fmt.Sprintf("n%d", i)
		ids[node.Name] = id
		label := node.Name
		if node.External {
			fmt.Fprintf(&b, "    %s([\"%s\"])\n", id, label)
		} else {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, label)
		}
	}

	for _, edge := range g.Edges() {
		from, to := ids[edge.From], ids[edge.To]
		if from == "" || to == "" {
			continue
		}
		if edge.Kind == graph.EdgeCall {
			fmt.Fprintf(&b, "    %s -.-> %s\n", from, to)
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", from, to)
		}
	}

	if len(inCycle) > 0 {
		b.WriteString("    classDef cycle fill:#fdd,stroke:#c33\n")
		for _, node := range g.Nodes() {
			if inCycle[node.Name] {
				fmt.Fprintf(&b, "    class %s cycle\n", ids[node.Name])
			}
		}
	}

	return []byte(b.String())
}

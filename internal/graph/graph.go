// Package graph builds the module dependency graph: import edges between
// module-level source units and call edges derived from function symbols.
//
// Nodes are identified by qualified module name rather than by pointer, so
// cyclic dependency shapes serialize safely.
package graph

import "sort"

// EdgeKind tags the relationship an edge represents.
type EdgeKind string

const (
	EdgeImport EdgeKind = "import"
	EdgeCall   EdgeKind = "call"
)

// Node is one graph node, keyed by qualified module name.
type Node struct {
	Name string `json:"name"`

	// Path is the source unit path, empty for external nodes.
	Path string `json:"path,omitempty"`

	// External marks import targets that did not resolve inside the model.
	External bool `json:"external,omitempty"`
}

// Edge is a directed, kind-tagged edge between two named nodes.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// DependencyGraph holds nodes and deduplicated directed edges.
type DependencyGraph struct {
	nodes map[string]*Node
	edges map[Edge]bool
}

// New creates an empty graph.
func New() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*Node),
		edges: make(map[Edge]bool),
	}
}

// AddNode inserts a node if absent. An existing internal node is never
// downgraded to external.
func (g *DependencyGraph) AddNode(n Node) {
	if existing, ok := g.nodes[n.Name]; ok {
		if existing.External && !n.External {
			existing.External = false
			existing.Path = n.Path
		}
		return
	}
	copied := n
	g.nodes[n.Name] = &copied
}

// AddEdge inserts a directed edge, suppressing duplicates of the same kind
// between the same ordered pair.
func (g *DependencyGraph) AddEdge(from, to string, kind EdgeKind) {
	g.edges[Edge{From: from, To: to, Kind: kind}] = true
}

// Node returns the node with the given name, or nil.
func (g *DependencyGraph) Node(name string) *Node {
	return g.nodes[name]
}

// Nodes returns all nodes sorted by name.
func (g *DependencyGraph) Nodes() []Node {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Node, 0, len(names))
	for _, name := range names {
		out = append(out, *g.nodes[name])
	}
	return out
}

// Edges returns all edges sorted by (from, to, kind).
func (g *DependencyGraph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// EdgeCount returns the number of distinct edges.
func (g *DependencyGraph) EdgeCount() int {
	return len(g.edges)
}

// NodeCount returns the number of nodes.
func (g *DependencyGraph) NodeCount() int {
	return len(g.nodes)
}

// successors returns sorted edge targets of the given kind from a node.
func (g *DependencyGraph) successors(from string, kind EdgeKind) []string {
	var out []string
	for e := range g.edges {
		if e.From == from && e.Kind == kind {
			out = append(out, e.To)
		}
	}
	sort.Strings(out)
	return out
}

package graph

import (
	"testing"

	"docsync/internal/model"
)

func unit(path, module string, imports []string, symbols ...*model.Symbol) *model.SourceUnit {
	return &model.SourceUnit{Path: path, Module: module, Imports: imports, Symbols: symbols}
}

func TestAddNodeNeverDowngrades(t *testing.T) {
	g := New()
	g.AddNode(Node{Name: "pkg.a", Path: "pkg/a.py"})
	g.AddNode(Node{Name: "pkg.a", External: true})
	if g.Node("pkg.a").External {
		t.Error("internal node downgraded to external")
	}

	g.AddNode(Node{Name: "pkg.b", External: true})
	g.AddNode(Node{Name: "pkg.b", Path: "pkg/b.py"})
	n := g.Node("pkg.b")
	if n.External || n.Path != "pkg/b.py" {
		t.Errorf("external node not upgraded: %+v", n)
	}
}

func TestAddEdgeDeduplicates(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", EdgeImport)
	g.AddEdge("a", "b", EdgeImport)
	g.AddEdge("a", "b", EdgeCall)
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBuildImportEdges(t *testing.T) {
	m := model.NewProjectModel([]*model.SourceUnit{
		unit("pkg/a.py", "pkg.a", []string{"pkg.b", "os"}),
		unit("pkg/b.py", "pkg.b", nil),
	})
	g := Build(m)

	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	if edges[0] != (Edge{From: "pkg.a", To: "os", Kind: EdgeImport}) {
		t.Errorf("unexpected edge %+v", edges[0])
	}
	if edges[1] != (Edge{From: "pkg.a", To: "pkg.b", Kind: EdgeImport}) {
		t.Errorf("unexpected edge %+v", edges[1])
	}

	os := g.Node("os")
	if os == nil || !os.External {
		t.Error("unresolved import should become an external node")
	}
	b := g.Node("pkg.b")
	if b == nil || b.External {
		t.Error("resolved import should stay internal")
	}
}

func TestResolveImportSuffixMatch(t *testing.T) {
	byModule := map[string]string{
		"src.pkg.util": "src/pkg/util.py",
		"src.pkg.main": "src/pkg/main.py",
		"src.aux.util": "src/aux/util.py",
	}
	tests := []struct {
		imp          string
		want         string
		wantExternal bool
	}{
		{"src.pkg.util", "src.pkg.util", false},
		{"pkg/util", "src.pkg.util", false},
		{"pkg.main", "src.pkg.main", false},
		{"util", "util", true}, // ambiguous between pkg and aux
		{"missing.module", "missing.module", true},
	}
	for _, tt := range tests {
		t.Run(tt.imp, func(t *testing.T) {
			got, external := resolveImport(tt.imp, byModule)
			if got != tt.want || external != tt.wantExternal {
				t.Errorf("resolveImport(%q) = (%q, %v), want (%q, %v)",
					tt.imp, got, external, tt.want, tt.wantExternal)
			}
		})
	}
}

func TestBuildCallEdges(t *testing.T) {
	caller := &model.Symbol{
		Name: "run", QualifiedName: "app.run", Kind: model.KindFunction,
		Calls: []string{"helper", "local", "unknown"},
	}
	local := &model.Symbol{
		Name: "local", QualifiedName: "app.local", Kind: model.KindFunction,
	}
	helper := &model.Symbol{
		Name: "helper", QualifiedName: "lib.helper", Kind: model.KindFunction,
	}
	m := model.NewProjectModel([]*model.SourceUnit{
		unit("app.py", "app", nil, caller, local),
		unit("lib.py", "lib", nil, helper),
	})
	g := Build(m)

	var callEdges []Edge
	for _, e := range g.Edges() {
		if e.Kind == EdgeCall {
			callEdges = append(callEdges, e)
		}
	}
	if len(callEdges) != 1 {
		t.Fatalf("got %d call edges, want 1 (self-module and unresolved calls skipped): %+v", len(callEdges), callEdges)
	}
	if callEdges[0].From != "app" || callEdges[0].To != "lib" {
		t.Errorf("unexpected call edge %+v", callEdges[0])
	}
}

func TestCyclesTriangle(t *testing.T) {
	m := model.NewProjectModel([]*model.SourceUnit{
		unit("a.py", "a", []string{"b"}),
		unit("b.py", "b", []string{"c"}),
		unit("c.py", "c", []string{"a"}),
	})
	g := Build(m)
	cycles := g.Cycles()

	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
	members := cycles[0].Members
	if len(members) != 3 || members[0] != "a" {
		t.Errorf("cycle = %v, want rotation starting at a", members)
	}
	if members[1] != "b" || members[2] != "c" {
		t.Errorf("cycle = %v, want traversal order a, b, c", members)
	}
	if cycles[0].SelfLoop {
		t.Error("triangle reported as self-loop")
	}
}

func TestCyclesSelfLoop(t *testing.T) {
	m := model.NewProjectModel([]*model.SourceUnit{
		unit("a.py", "a", []string{"a"}),
	})
	cycles := Build(m).Cycles()
	if len(cycles) != 1 || !cycles[0].SelfLoop {
		t.Fatalf("got %+v, want one self-loop", cycles)
	}
}

func TestCyclesNone(t *testing.T) {
	m := model.NewProjectModel([]*model.SourceUnit{
		unit("a.py", "a", []string{"b"}),
		unit("b.py", "b", []string{"c"}),
		unit("c.py", "c", nil),
	})
	if cycles := Build(m).Cycles(); len(cycles) != 0 {
		t.Errorf("acyclic graph reported cycles: %+v", cycles)
	}
}

func TestCyclesReportedOnce(t *testing.T) {
	// Two entry points into the same cycle must not duplicate the report.
	m := model.NewProjectModel([]*model.SourceUnit{
		unit("entry.py", "entry", []string{"x"}),
		unit("other.py", "other", []string{"y"}),
		unit("x.py", "x", []string{"y"}),
		unit("y.py", "y", []string{"x"}),
	})
	cycles := Build(m).Cycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1: %+v", len(cycles), cycles)
	}
	if cycles[0].Members[0] != "x" {
		t.Errorf("cycle starts at %q, want x", cycles[0].Members[0])
	}
}

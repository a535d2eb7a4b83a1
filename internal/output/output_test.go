package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"docsync/internal/complexity"
	"docsync/internal/freshness"
	"docsync/internal/graph"
	"docsync/internal/model"
	"docsync/internal/patterns"
)

func compact(t *testing.T, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, data)
	}
	return buf.String()
}

func TestDeterministicEncode(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{
			name: "struct keys sorted",
			input: struct {
				Zebra string `json:"zebra"`
				Alpha string `json:"alpha"`
			}{Zebra: "z", Alpha: "a"},
			want: `{"alpha":"a","zebra":"z"}`,
		},
		{
			name:  "map keys sorted",
			input: map[string]int{"b": 2, "a": 1, "c": 3},
			want:  `{"a":1,"b":2,"c":3}`,
		},
		{
			name: "floats rounded to six places",
			input: struct {
				Score float64 `json:"score"`
			}{Score: 0.123456789},
			want: `{"score":0.123457}`,
		},
		{
			name: "omitempty drops zero values",
			input: struct {
				Name  string `json:"name"`
				Count int    `json:"count,omitempty"`
			}{Name: "x"},
			want: `{"name":"x"}`,
		},
		{
			name:  "nil slice encodes as empty array",
			input: struct{ Items []string }{},
			want:  `{"Items":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeterministicEncode(tt.input)
			if err != nil {
				t.Fatalf("DeterministicEncode() error = %v", err)
			}
			if c := compact(t, got); c != tt.want {
				t.Errorf("got %s, want %s", c, tt.want)
			}
		})
	}
}

func TestDeterministicEncodeStable(t *testing.T) {
	input := map[string]interface{}{
		"nested": map[string]float64{"pi": 3.14159265, "e": 2.71828182},
		"list":   []string{"x", "y"},
	}
	first, err := DeterministicEncode(input)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := DeterministicEncode(input)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding changed between runs:\n%s\n%s", first, again)
		}
	}
}

func TestPageFilename(t *testing.T) {
	tests := []struct {
		module string
		want   string
	}{
		{"pkg.util", "pkg_util.md"},
		{"main", "main.md"},
		{"", "root.md"},
		{"a.b.c.d", "a_b_c_d.md"},
	}
	for _, tt := range tests {
		if got := PageFilename(tt.module); got != tt.want {
			t.Errorf("PageFilename(%q) = %q, want %q", tt.module, got, tt.want)
		}
	}
}

func testModel() (*model.ProjectModel, *graph.DependencyGraph) {
	m := model.NewProjectModel([]*model.SourceUnit{
		{
			Path: "app.py", Module: "app", Language: "python",
			Imports: []string{"lib"},
			Symbols: []*model.Symbol{
				{
					Name: "run", QualifiedName: "app.run", Kind: model.KindFunction,
					StartLine: 1, EndLine: 12, Doc: "Run the app.",
					Metrics: model.Metrics{Decisions: 2},
				},
			},
		},
		{
			Path: "lib.py", Module: "lib", Language: "python",
			Symbols: []*model.Symbol{
				{Name: "helper", QualifiedName: "lib.helper", Kind: model.KindFunction, StartLine: 1, EndLine: 3},
			},
		},
	})
	return m, graph.Build(m)
}

func TestRenderPages(t *testing.T) {
	m, g := testModel()
	records := complexity.Analyze(m)
	matches := []patterns.Match{{Tag: patterns.TagFactory, QualifiedName: "app.run", RuleID: "factory-method"}}

	pages := RenderPages(m, g, records, matches)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if pages[0].Filename != "app.md" || pages[1].Filename != "lib.md" {
		t.Errorf("page filenames = %s, %s", pages[0].Filename, pages[1].Filename)
	}

	content := string(pages[0].Content)
	for _, want := range []string{"# app", "`app.py`", "lib", "### app.run", "Complexity: 3", "factory", "Run the app."} {
		if !strings.Contains(content, want) {
			t.Errorf("app page missing %q:\n%s", want, content)
		}
	}
	if len(pages[0].Sources) != 1 || pages[0].Sources[0] != "app.py" {
		t.Errorf("page sources = %v", pages[0].Sources)
	}
}

func TestRenderPagesIdempotent(t *testing.T) {
	m, g := testModel()
	records := complexity.Analyze(m)

	first := RenderPages(m, g, records, nil)
	second := RenderPages(m, g, records, nil)
	for i := range first {
		if !bytes.Equal(first[i].Content, second[i].Content) {
			t.Errorf("page %s differs between renders", first[i].Filename)
		}
	}
}

func TestRenderDriftReport(t *testing.T) {
	records := []freshness.DriftRecord{
		{Artifact: "app.md", Status: freshness.StatusAging, Drifted: true, AgeDays: 45, StaleSources: []string{"app.py"}},
		{Artifact: "lib.md", Status: freshness.StatusFresh},
	}
	report := string(RenderDriftReport(records))

	for _, want := range []string{"| app.md | aging | 45 | app.py |", "| lib.md | fresh | 0 | - |", "1 of 2 artifacts drifted."} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRenderDriftReportEmpty(t *testing.T) {
	report := string(RenderDriftReport(nil))
	if !strings.Contains(report, "No tracked artifacts.") {
		t.Errorf("empty report should say so:\n%s", report)
	}
}

func TestRenderMermaid(t *testing.T) {
	_, g := testModel()
	diagram := string(RenderMermaid(g, nil))

	if !strings.HasPrefix(diagram, "graph LR\n") {
		t.Errorf("diagram missing header:\n%s", diagram)
	}
	for _, want := range []string{`["app"]`, `["lib"]`, "-->"} {
		if !strings.Contains(diagram, want) {
			t.Errorf("diagram missing %q:\n%s", want, diagram)
		}
	}
}

func TestRenderMermaidHighlightsCycles(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{Name: "a"})
	g.AddNode(graph.Node{Name: "b"})
	g.AddEdge("a", "b", graph.EdgeImport)
	g.AddEdge("b", "a", graph.EdgeImport)

	diagram := string(RenderMermaid(g, g.Cycles()))
	if !strings.Contains(diagram, "classDef cycle") {
		t.Errorf("cycle styling missing:\n%s", diagram)
	}
}

func TestExportSCIP(t *testing.T) {
	m, _ := testModel()
	data, err := ExportSCIP(m, "/tmp/project")
	if err != nil {
		t.Fatalf("ExportSCIP() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty SCIP index")
	}
}

package model

import (
	"testing"
)

func TestModuleName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/pkg/util.py", "src.pkg.util"},
		{"main.go", "main"},
		{"a/b/c.ts", "a.b.c"},
		{"noext", "noext"},
		{"dir.with.dots/file.js", "dir.with.dots.file"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ModuleName(tt.path); got != tt.want {
				t.Errorf("ModuleName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSymbolLines(t *testing.T) {
	tests := []struct {
		name  string
		start int
		end   int
		want  int
	}{
		{"multi line", 10, 14, 5},
		{"single line", 3, 3, 1},
		{"inverted span clamps to one", 8, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Symbol{StartLine: tt.start, EndLine: tt.end}
			if got := s.Lines(); got != tt.want {
				t.Errorf("Lines() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSymbolWalk(t *testing.T) {
	root := &Symbol{
		Name: "Outer",
		Children: []*Symbol{
			{Name: "inner", Children: []*Symbol{{Name: "deepest"}}},
			{Name: "other"},
		},
	}
	var visited []string
	root.Walk(func(s *Symbol) { visited = append(visited, s.Name) })

	want := []string{"Outer", "inner", "deepest", "other"}
	if len(visited) != len(want) {
		t.Fatalf("visited %d symbols, want %d", len(visited), len(want))
	}
	for i, name := range want {
		if visited[i] != name {
			t.Errorf("visit %d = %q, want %q", i, visited[i], name)
		}
	}
}

func TestNewProjectModelOrdersAndDedupes(t *testing.T) {
	m := NewProjectModel([]*SourceUnit{
		{Path: "z.py", Module: "z"},
		{Path: "a.py", Module: "a"},
		{Path: "m.py", Module: "m"},
		{Path: "a.py", Module: "a-dup"},
	})

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	paths := m.Paths()
	want := []string{"a.py", "m.py", "z.py"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("Paths()[%d] = %q, want %q", i, paths[i], p)
		}
	}
	// First unit for a duplicate path wins.
	if m.Unit("a.py").Module != "a" {
		t.Errorf("duplicate path overwrote the original unit")
	}
}

func TestByModule(t *testing.T) {
	m := NewProjectModel([]*SourceUnit{
		{Path: "pkg/a.py", Module: "pkg.a"},
		{Path: "pkg/b.py", Module: "pkg.b"},
	})
	lookup := m.ByModule()
	if lookup["pkg.a"] != "pkg/a.py" || lookup["pkg.b"] != "pkg/b.py" {
		t.Errorf("ByModule() = %v", lookup)
	}
}

func TestParseErrorCount(t *testing.T) {
	m := NewProjectModel([]*SourceUnit{
		{Path: "ok.py"},
		{Path: "bad.py", Errors: []ParseError{{Kind: ParseErrSyntax, Message: "x"}}},
		{Path: "worse.py", Errors: []ParseError{
			{Kind: ParseErrSyntax, Message: "y"},
			{Kind: ParseErrTimeout, Message: "z"},
		}},
	})
	if got := m.ParseErrorCount(); got != 3 {
		t.Errorf("ParseErrorCount() = %d, want 3", got)
	}
}

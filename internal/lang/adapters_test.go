//go:build cgo

package lang

import (
	"context"
	"testing"

	"docsync/internal/model"
)

func parse(t *testing.T, language, source string) *ParseResult {
	t.Helper()
	mu.RLock()
	adapter := adapters[language]
	mu.RUnlock()
	if adapter == nil {
		t.Fatalf("no adapter registered for %s", language)
	}
	res, err := adapter.Parse(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return res
}

func findSymbol(res *ParseResult, name string) *model.Symbol {
	var found *model.Symbol
	for _, s := range res.Symbols {
		s.Walk(func(sym *model.Symbol) {
			if sym.Name == name {
				found = sym
			}
		})
	}
	return found
}

func TestRegistryForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".go", "go"},
		{".py", "python"},
		{".js", "javascript"},
		{".ts", "typescript"},
		{".rb", ""},
	}
	for _, tt := range tests {
		adapter := ForExtension(tt.ext)
		switch {
		case tt.want == "" && adapter != nil:
			t.Errorf("ForExtension(%q) = %s, want nil", tt.ext, adapter.Name())
		case tt.want != "" && (adapter == nil || adapter.Name() != tt.want):
			t.Errorf("ForExtension(%q) = %v, want %s", tt.ext, adapter, tt.want)
		}
	}
}

func TestGoAdapterSymbols(t *testing.T) {
	source := `package app

import (
	"fmt"
	"strings"
)

// Server handles requests.
type Server struct {
	Addr string
	mu   int
}

// Run starts the server.
func (s *Server) Run() error {
	fmt.Println(strings.ToUpper(s.Addr))
	return nil
}

func classify(n int) string {
	if n < 0 {
		return "neg"
	}
	if n == 0 {
		return "zero"
	}
	if n > 100 {
		return "big"
	}
	for i := 0; i < n; i++ {
		_ = i
	}
	return "pos"
}
`
	res := parse(t, "go", source)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", res.Errors)
	}
	if len(res.Imports) != 2 || res.Imports[0] != "fmt" || res.Imports[1] != "strings" {
		t.Errorf("imports = %v", res.Imports)
	}

	server := findSymbol(res, "Server")
	if server == nil || server.Kind != model.KindClass {
		t.Fatalf("Server type not modeled: %+v", server)
	}
	if len(server.Children) != 2 {
		t.Errorf("Server fields = %d, want 2", len(server.Children))
	}
	if server.Doc == "" {
		t.Error("Server doc comment missing")
	}

	run := findSymbol(res, "Server.Run")
	if run == nil || run.Kind != model.KindMethod {
		t.Fatalf("method not qualified by receiver: %+v", res.Symbols)
	}
	if len(run.Calls) == 0 {
		t.Error("method calls not collected")
	}

	// Three branches plus one loop: cyclomatic 5, so 4 decision points.
	cls := findSymbol(res, "classify")
	if cls == nil {
		t.Fatal("classify not modeled")
	}
	if cls.Metrics.Decisions != 4 {
		t.Errorf("classify decisions = %d, want 4", cls.Metrics.Decisions)
	}
}

func TestPythonAdapterSymbols(t *testing.T) {
	source := `import os
from collections import abc

class Config:
    """Holds settings."""

    _instance = None

    def get_instance(self):
        if Config._instance is None:
            Config._instance = Config()
        return Config._instance

def load(path, strict=True):
    """Load a config file."""
    if not path:
        raise ValueError(path)
    return open(path)
`
	res := parse(t, "python", source)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", res.Errors)
	}
	if len(res.Imports) != 2 || res.Imports[0] != "collections" || res.Imports[1] != "os" {
		t.Errorf("imports = %v", res.Imports)
	}

	config := findSymbol(res, "Config")
	if config == nil || config.Kind != model.KindClass {
		t.Fatal("Config class not modeled")
	}
	if config.Doc != "Holds settings." {
		t.Errorf("class docstring = %q", config.Doc)
	}

	attr := findSymbol(res, "_instance")
	if attr == nil || attr.Kind != model.KindAttribute {
		t.Error("class-level assignment not modeled as attribute")
	}

	getter := findSymbol(res, "get_instance")
	if getter == nil || getter.Kind != model.KindMethod {
		t.Fatal("method not modeled")
	}
	if getter.Metrics.Decisions < 1 {
		t.Error("guard branch not counted")
	}
	hasRef := false
	for _, r := range getter.Refs {
		if r == "_instance" {
			hasRef = true
		}
	}
	if !hasRef {
		t.Errorf("instance attribute reference not collected: %v", getter.Refs)
	}

	load := findSymbol(res, "load")
	if load == nil || load.Kind != model.KindFunction {
		t.Fatal("function not modeled")
	}
	if len(load.Params) != 2 || load.Params[0].Name != "path" || load.Params[1].Name != "strict" {
		t.Errorf("params = %+v", load.Params)
	}
	if load.Doc != "Load a config file." {
		t.Errorf("docstring = %q", load.Doc)
	}
}

func TestPythonAdapterMalformed(t *testing.T) {
	res := parse(t, "python", "def broken(:\n    pass\n")
	if len(res.Errors) == 0 {
		t.Error("malformed source produced no parse errors")
	}
	for _, e := range res.Errors {
		if e.Kind != model.ParseErrSyntax {
			t.Errorf("error kind = %s, want syntax", e.Kind)
		}
	}
}

func TestJavaScriptAdapterSymbols(t *testing.T) {
	source := `import { api } from "./api";

export class Store {
  constructor() {
    this.items = [];
  }

  add(item) {
    if (item) {
      this.items.push(item);
    }
  }
}

const render = (store) => {
  return store.items.length > 0 ? "full" : "empty";
};

function main() {
  const s = new Store();
  render(s);
}
`
	res := parse(t, "javascript", source)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", res.Errors)
	}

	store := findSymbol(res, "Store")
	if store == nil || store.Kind != model.KindClass {
		t.Fatal("exported class not modeled")
	}
	add := findSymbol(res, "add")
	if add == nil || add.Kind != model.KindMethod {
		t.Fatal("class method not modeled")
	}
	if add.Metrics.Decisions != 1 {
		t.Errorf("add decisions = %d, want 1", add.Metrics.Decisions)
	}

	render := findSymbol(res, "render")
	if render == nil || render.Kind != model.KindFunction {
		t.Error("arrow function assigned to const not modeled")
	}
	if main := findSymbol(res, "main"); main == nil {
		t.Error("function declaration not modeled")
	}
}

func TestTypeScriptAdapterParsesAnnotations(t *testing.T) {
	source := `export function greet(name: string): string {
  return "hi " + name;
}
`
	res := parse(t, "typescript", source)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", res.Errors)
	}
	greet := findSymbol(res, "greet")
	if greet == nil {
		t.Fatal("exported function not modeled")
	}
	if len(greet.Params) != 1 || greet.Params[0].Name != "name" {
		t.Errorf("params = %+v", greet.Params)
	}
}

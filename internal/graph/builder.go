package graph

import (
	"strings"

	"docsync/internal/model"
)

// Build constructs the dependency graph for a project model: one node per
// source unit plus external nodes for unresolved imports, import edges from
// declared imports, and call edges from function symbols whose call targets
// resolve within the model.
func Build(m *model.ProjectModel) *DependencyGraph {
	g := New()

	m.Each(func(u *model.SourceUnit) {
		g.AddNode(Node{Name: u.Module, Path: u.Path})
	})

	byModule := m.ByModule()
	callIndex := buildCallIndex(m)

	m.Each(func(u *model.SourceUnit) {
		for _, imp := range u.Imports {
			target, external := resolveImport(imp, byModule)
			if external {
				g.AddNode(Node{Name: target, External: true})
			}
			g.AddEdge(u.Module, target, EdgeImport)
		}

		for _, s := range u.Symbols {
			s.Walk(func(sym *model.Symbol) {
				if sym.Kind != model.KindFunction && sym.Kind != model.KindMethod {
					return
				}
				for _, call := range sym.Calls {
					callee, ok := resolveCall(call, u.Module, callIndex)
					if !ok || callee == u.Module {
						continue
					}
					g.AddEdge(u.Module, callee, EdgeCall)
				}
			})
		}
	})

	return g
}

// resolveImport maps a declared import target onto a model module. Import
// spellings are normalized to dotted form; unresolved targets become
// external node names rather than being dropped.
func resolveImport(imp string, byModule map[string]string) (string, bool) {
	norm := strings.ReplaceAll(strings.TrimSpace(imp), "/", ".")
	norm = strings.TrimSuffix(norm, ".")
	if norm == "" {
		return imp, true
	}

	if _, ok := byModule[norm]; ok {
		return norm, false
	}

	// Suffix match handles roots that differ from on-disk layout, e.g. an
	// import "pkg.util" against a unit modeled as "src.pkg.util".
	var match string
	for mod := range byModule {
		if strings.HasSuffix(mod, "."+norm) || mod == norm {
			if match != "" && match != mod {
				return norm, true // ambiguous, keep external
			}
			match = mod
		}
	}
	if match != "" {
		return match, false
	}

	return norm, true
}

// buildCallIndex maps unqualified function names to the modules defining
// them. Names defined in more than one module map to "" (ambiguous).
func buildCallIndex(m *model.ProjectModel) map[string]string {
	index := map[string]string{}
	m.EachSymbol(func(u *model.SourceUnit, sym *model.Symbol) {
		if sym.Kind != model.KindFunction && sym.Kind != model.KindMethod {
			return
		}
		name := sym.Name
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		if name == "" {
			return
		}
		if existing, ok := index[name]; ok && existing != u.Module {
			index[name] = ""
			return
		}
		index[name] = u.Module
	})
	return index
}

// resolveCall resolves a call target as written ("Foo", "pkg.Foo",
// "obj.method") to a defining module within the model.
func resolveCall(call, callerModule string, index map[string]string) (string, bool) {
	name := call
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	mod, ok := index[name]
	if !ok || mod == "" {
		return "", false
	}
	return mod, true
}

package output

import (
	"fmt"
	"sort"
	"strings"

	"docsync/internal/complexity"
	"docsync/internal/graph"
	"docsync/internal/model"
	"docsync/internal/patterns"
)

// Page is one rendered documentation page plus the source paths it was
// derived from, recorded so later runs can score its drift.
type Page struct {
	// Filename is derived from the qualified module name, so it is stable
	// across runs and safe on every filesystem.
	Filename string
	Content  []byte
	Sources  []string
}

// PageFilename maps a qualified module name to its page filename.
func PageFilename(module string) string {
	name := strings.ReplaceAll(module, ".", "_")
	if name == "" {
		name = "root"
	}
	return name + ".md"
}

// RenderPages produces one page per module, lexicographically ordered
// sections within each page. Rendering is pure; nothing here touches disk.
func RenderPages(m *model.ProjectModel, g *graph.DependencyGraph, records map[string]complexity.Record, matches []patterns.Match) []Page {
	tagsBySymbol := map[string][]string{}
	for _, match := range matches {
		tagsBySymbol[match.QualifiedName] = append(tagsBySymbol[match.QualifiedName], string(match.Tag))
	}

	imports := map[string][]string{}
	for _, e := range g.Edges() {
		if e.Kind == graph.EdgeImport {
			imports[e.From] = append(imports[e.From], e.To)
		}
	}

	var pages []Page
	m.Each(func(unit *model.SourceUnit) {
		pages = append(pages, renderModulePage(unit, imports[unit.Module], records, tagsBySymbol))
	})
	sort.Slice(pages, func(i, j int) bool { return pages[i].Filename < pages[j].Filename })
	return pages
}

func renderModulePage(unit *model.SourceUnit, deps []string, records map[string]complexity.Record, tags map[string][]string) Page {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", unit.Module)
	fmt.Fprintf(&b, "Source: `%s`", unit.Path)
	if unit.Language != "" {
		fmt.Fprintf(&b, " (%s)", unit.Language)
	}
	b.WriteString("\n")

	if len(deps) > 0 {
		sorted := append([]string(nil), deps...)
		sort.Strings(sorted)
		b.WriteString("\n## Dependencies\n\n")
		for _, d := range sorted {
			fmt.Fprintf(&b, "- `%s`\n", d)
		}
	}

	var syms []*model.Symbol
	for _, top := range unit.Symbols {
		top.Walk(func(s *model.Symbol) { syms = append(syms, s) })
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].QualifiedName < syms[j].QualifiedName })

	if len(syms) > 0 {
		b.WriteString("\n## Symbols\n")
		for _, sym := range syms {
			renderSymbolSection(&b, sym, records, tags)
		}
	}

	if len(unit.Errors) > 0 {
		b.WriteString("\n## Parse errors\n\n")
		for _, pe := range unit.Errors {
			fmt.Fprintf(&b, "- line %d: %s (%s)\n", pe.Line, pe.Message, pe.Kind)
		}
	}

	return Page{
		Filename: PageFilename(unit.Module),
		Content:  []byte(b.String()),
		Sources:  []string{unit.Path},
	}
}

func renderSymbolSection(b *strings.Builder, sym *model.Symbol, records map[string]complexity.Record, tags map[string][]string) {
	fmt.Fprintf(b, "\n### %s\n\n", sym.QualifiedName)
	fmt.Fprintf(b, "- Kind: %s\n", sym.Kind)
	fmt.Fprintf(b, "- Lines: %d-%d\n", sym.StartLine, sym.EndLine)
	if len(sym.Params) > 0 {
		names := make([]string, len(sym.Params))
		for i, p := range sym.Params {
			names[i] = p.Name
			if p.Type != "" {
				names[i] += " " + p.Type
			}
		}
		fmt.Fprintf(b, "- Params: %s\n", strings.Join(names, ", "))
	}
	if sym.Returns != "" {
		fmt.Fprintf(b, "- Returns: %s\n", sym.Returns)
	}
	if rec, ok := records[sym.QualifiedName]; ok {
		fmt.Fprintf(b, "- Complexity: %d (grade %s, maintainability %.1f)\n",
			rec.Cyclomatic, rec.Grade, rec.Maintainability)
	}
	if ts := tags[sym.QualifiedName]; len(ts) > 0 {
		sorted := append([]string(nil), ts...)
		sort.Strings(sorted)
		fmt.Fprintf(b, "- Patterns: %s\n", strings.Join(sorted, ", "))
	}
	if sym.Doc != "" {
		fmt.Fprintf(b, "\n%s\n", sym.Doc)
	}
}

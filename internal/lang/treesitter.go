//go:build cgo

package lang

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"docsync/internal/model"
)

// maxRefsPerSymbol caps the distinct identifiers recorded per symbol body.
const maxRefsPerSymbol = 64

// parseTree parses source with a fresh parser. Parsers are not safe for
// concurrent use, so each call builds its own (one parse per worker).
func parseTree(ctx context.Context, tsLang *sitter.Language, source []byte) (*sitter.Node, error) {
	p := sitter.NewParser()
	p.SetLanguage(tsLang)
	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	return tree.RootNode(), nil
}

// nodeText returns the source text of a node.
func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// walk visits node and all descendants depth-first.
func walk(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := uint32(0); i < node.ChildCount(); i++ {
		walk(node.Child(int(i)), fn)
	}
}

// collectParseErrors turns tree-sitter ERROR and MISSING nodes into parse
// errors. Adjacent error nodes inside an ERROR subtree are not double
// reported; one error per top-most ERROR node.
func collectParseErrors(root *sitter.Node, source []byte) []model.ParseError {
	var errs []model.ParseError

	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if node.Type() == "ERROR" {
			snippet := nodeText(node, source)
			if len(snippet) > 40 {
				snippet = snippet[:40] + "..."
			}
			errs = append(errs, model.ParseError{
				Kind:    model.ParseErrSyntax,
				Line:    int(node.StartPoint().Row) + 1,
				Column:  int(node.StartPoint().Column) + 1,
				Message: "syntax error near " + strings.TrimSpace(snippet),
			})
			return
		}
		if node.IsMissing() {
			errs = append(errs, model.ParseError{
				Kind:    model.ParseErrSyntax,
				Line:    int(node.StartPoint().Row) + 1,
				Column:  int(node.StartPoint().Column) + 1,
				Message: "missing " + node.Type(),
			})
			return
		}
		for i := uint32(0); i < node.ChildCount(); i++ {
			visit(node.Child(int(i)))
		}
	}
	visit(root)

	return errs
}

// structuralCounts walks a symbol body collecting the raw metrics the
// complexity analyzer consumes: decision points and operator/operand
// vocabulary tallies.
func structuralCounts(node *sitter.Node, source []byte, decisionTypes map[string]bool) model.Metrics {
	var m model.Metrics
	distinctOps := map[string]bool{}
	distinctOperands := map[string]bool{}

	walk(node, func(n *sitter.Node) {
		t := n.Type()
		if decisionTypes[t] {
			// Binary expressions only count as decisions for && and ||.
			if t == "binary_expression" || t == "boolean_operator" {
				if isBooleanOperator(n, source) {
					m.Decisions++
				}
			} else {
				m.Decisions++
			}
		}

		if n.ChildCount() != 0 {
			return
		}
		text := nodeText(n, source)
		if n.IsNamed() {
			if isOperandType(t) {
				m.Operands++
				distinctOperands[text] = true
			}
		} else if !isPunctuation(text) {
			m.Operators++
			distinctOps[text] = true
		}
	})

	m.DistinctOperators = len(distinctOps)
	m.DistinctOperands = len(distinctOperands)
	return m
}

// isBooleanOperator reports whether a binary expression uses && / || (or the
// Python and/or keywords).
func isBooleanOperator(node *sitter.Node, source []byte) bool {
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if child == nil {
			continue
		}
		switch nodeText(child, source) {
		case "&&", "||", "and", "or":
			return true
		}
	}
	return false
}

func isOperandType(t string) bool {
	if strings.Contains(t, "identifier") || strings.Contains(t, "literal") {
		return true
	}
	switch t {
	case "number", "string", "integer", "float", "true", "false", "nil", "none":
		return true
	}
	return false
}

func isPunctuation(text string) bool {
	switch text {
	case "(", ")", "{", "}", "[", "]", ",", ";", ":", ".", "\"", "'", "`":
		return true
	}
	return false
}

// collectCalls gathers call target names inside a symbol body, as written.
// callNodeType is the language's call node; fieldName the function field.
func collectCalls(node *sitter.Node, source []byte, callNodeType, fieldName string) []string {
	var calls []string
	seen := map[string]bool{}

	walk(node, func(n *sitter.Node) {
		if n.Type() != callNodeType {
			return
		}
		fn := n.ChildByFieldName(fieldName)
		if fn == nil {
			return
		}
		name := nodeText(fn, source)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		calls = append(calls, name)
	})

	return calls
}

// collectRefs gathers distinct identifier names referenced in a symbol body,
// in first-seen order, capped at maxRefsPerSymbol.
func collectRefs(node *sitter.Node, source []byte) []string {
	var refs []string
	seen := map[string]bool{}

	walk(node, func(n *sitter.Node) {
		if len(refs) >= maxRefsPerSymbol {
			return
		}
		if n.ChildCount() != 0 || !n.IsNamed() {
			return
		}
		if !strings.Contains(n.Type(), "identifier") {
			return
		}
		name := nodeText(n, source)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		refs = append(refs, name)
	})

	return refs
}

// typeSet builds a lookup set from node type names.
func typeSet(types ...string) map[string]bool {
	s := make(map[string]bool, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

// sortedImports dedupes and sorts import targets for deterministic units.
func sortedImports(imports []string) []string {
	if len(imports) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, imp := range imports {
		if imp == "" || seen[imp] {
			continue
		}
		seen[imp] = true
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

// precedingDoc collects the comment block immediately above a declaration.
func precedingDoc(node *sitter.Node, source []byte) string {
	var lines []string
	prev := node.PrevNamedSibling()
	expectedRow := int(node.StartPoint().Row) - 1

	for prev != nil && prev.Type() == "comment" && int(prev.EndPoint().Row) >= expectedRow-1 {
		text := nodeText(prev, source)
		text = strings.TrimPrefix(text, "//")
		text = strings.TrimPrefix(text, "#")
		lines = append([]string{strings.TrimSpace(text)}, lines...)
		expectedRow = int(prev.StartPoint().Row) - 1
		prev = prev.PrevNamedSibling()
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// IsAvailable reports whether tree-sitter adapters are compiled in.
func IsAvailable() bool {
	return true
}

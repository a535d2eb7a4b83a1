//go:build cgo

package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"docsync/internal/model"
)

func init() {
	Register(&scriptAdapter{
		name:    "javascript",
		exts:    []string{".js", ".mjs", ".cjs", ".jsx"},
		grammar: javascript.GetLanguage(),
	})
	Register(&scriptAdapter{
		name:    "typescript",
		exts:    []string{".ts", ".mts", ".cts"},
		grammar: typescript.GetLanguage(),
	})
}

// scriptAdapter parses JavaScript and TypeScript; the two grammars share
// node type names for everything this extractor reads.
type scriptAdapter struct {
	name    string
	exts    []string
	grammar *sitter.Language
}

func (a *scriptAdapter) Name() string { return a.name }

func (a *scriptAdapter) Extensions() []string { return a.exts }

var jsDecisionTypes = typeSet(
	"if_statement",
	"for_statement",
	"for_in_statement",
	"while_statement",
	"do_statement",
	"switch_case",
	"catch_clause",
	"ternary_expression",
	"binary_expression", // && and || only
)

func (a *scriptAdapter) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	root, err := parseTree(ctx, a.grammar, source)
	if err != nil {
		return nil, err
	}

	res := &ParseResult{Errors: collectParseErrors(root, source)}

	for i := uint32(0); i < root.ChildCount(); i++ {
		node := root.Child(int(i))
		if node == nil {
			continue
		}
		a.topLevel(node, source, res)
	}

	res.Imports = sortedImports(res.Imports)
	return res, nil
}

func (a *scriptAdapter) topLevel(node *sitter.Node, source []byte, res *ParseResult) {
	switch node.Type() {
	case "import_statement":
		if src := node.ChildByFieldName("source"); src != nil {
			res.Imports = append(res.Imports, strings.Trim(nodeText(src, source), "\"'"))
		}
	case "function_declaration", "generator_function_declaration":
		res.Symbols = append(res.Symbols, a.function(node, source, model.KindFunction))
	case "class_declaration":
		res.Symbols = append(res.Symbols, a.class(node, source))
	case "export_statement":
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			a.topLevel(decl, source, res)
		}
	case "lexical_declaration", "variable_declaration":
		// const f = () => {} / const f = function() {}
		if sym := a.assignedFunction(node, source); sym != nil {
			res.Symbols = append(res.Symbols, sym)
		}
	}
}

func (a *scriptAdapter) function(node *sitter.Node, source []byte, kind model.SymbolKind) *model.Symbol {
	sym := &model.Symbol{
		Kind:      kind,
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		Doc:       precedingDoc(node, source),
	}

	if name := node.ChildByFieldName("name"); name != nil {
		sym.Name = nodeText(name, source)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		sym.Params = jsParams(params, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sym.Returns = strings.TrimPrefix(nodeText(ret, source), ": ")
	}

	if body := node.ChildByFieldName("body"); body != nil {
		sym.Metrics = structuralCounts(body, source, jsDecisionTypes)
		sym.Calls = collectCalls(body, source, "call_expression", "function")
		sym.Refs = collectRefs(body, source)
	}

	return sym
}

func (a *scriptAdapter) class(node *sitter.Node, source []byte) *model.Symbol {
	sym := &model.Symbol{
		Kind:      model.KindClass,
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		Doc:       precedingDoc(node, source),
	}
	if name := node.ChildByFieldName("name"); name != nil {
		sym.Name = nodeText(name, source)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return sym
	}

	for i := uint32(0); i < body.ChildCount(); i++ {
		member := body.Child(int(i))
		if member == nil {
			continue
		}
		switch member.Type() {
		case "method_definition":
			m := a.function(member, source, model.KindMethod)
			sym.Children = append(sym.Children, m)
		case "field_definition", "public_field_definition":
			if name := member.ChildByFieldName("property"); name != nil {
				sym.Children = append(sym.Children, &model.Symbol{
					Name:      nodeText(name, source),
					Kind:      model.KindAttribute,
					StartLine: int(member.StartPoint().Row) + 1,
					EndLine:   int(member.EndPoint().Row) + 1,
				})
			}
		}
	}

	return sym
}

// assignedFunction models "const name = <arrow or function>" declarations.
func (a *scriptAdapter) assignedFunction(node *sitter.Node, source []byte) *model.Symbol {
	var sym *model.Symbol
	walk(node, func(n *sitter.Node) {
		if sym != nil || n.Type() != "variable_declarator" {
			return
		}
		value := n.ChildByFieldName("value")
		if value == nil {
			return
		}
		if value.Type() != "arrow_function" && value.Type() != "function_expression" && value.Type() != "function" {
			return
		}
		sym = a.function(value, source, model.KindFunction)
		if name := n.ChildByFieldName("name"); name != nil {
			sym.Name = nodeText(name, source)
		}
		sym.StartLine = int(node.StartPoint().Row) + 1
	})
	return sym
}

func jsParams(list *sitter.Node, source []byte) []model.Param {
	var params []model.Param
	for i := uint32(0); i < list.ChildCount(); i++ {
		p := list.Child(int(i))
		if p == nil || !p.IsNamed() {
			continue
		}
		switch p.Type() {
		case "identifier":
			params = append(params, model.Param{Name: nodeText(p, source)})
		case "required_parameter", "optional_parameter":
			param := model.Param{}
			if pat := p.ChildByFieldName("pattern"); pat != nil {
				param.Name = nodeText(pat, source)
			}
			if t := p.ChildByFieldName("type"); t != nil {
				param.Type = strings.TrimPrefix(nodeText(t, source), ": ")
			}
			params = append(params, param)
		case "assignment_pattern":
			if left := p.ChildByFieldName("left"); left != nil {
				params = append(params, model.Param{Name: nodeText(left, source)})
			}
		case "rest_pattern":
			params = append(params, model.Param{Name: nodeText(p, source)})
		}
	}
	return params
}

//go:build cgo

package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"docsync/internal/model"
)

func init() {
	Register(&goAdapter{})
}

// goAdapter parses Go source via tree-sitter.
type goAdapter struct{}

func (a *goAdapter) Name() string { return "go" }

func (a *goAdapter) Extensions() []string { return []string{".go"} }

var goDecisionTypes = typeSet(
	"if_statement",
	"for_statement",
	"expression_case",
	"type_case",
	"communication_case",
	"binary_expression", // && and || only
)

func (a *goAdapter) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	root, err := parseTree(ctx, golang.GetLanguage(), source)
	if err != nil {
		return nil, err
	}

	res := &ParseResult{Errors: collectParseErrors(root, source)}

	for i := uint32(0); i < root.ChildCount(); i++ {
		node := root.Child(int(i))
		if node == nil {
			continue
		}
		switch node.Type() {
		case "import_declaration":
			res.Imports = append(res.Imports, goImports(node, source)...)
		case "function_declaration":
			res.Symbols = append(res.Symbols, a.function(node, source, model.KindFunction))
		case "method_declaration":
			res.Symbols = append(res.Symbols, a.function(node, source, model.KindMethod))
		case "type_declaration":
			res.Symbols = append(res.Symbols, a.types(node, source)...)
		}
	}

	res.Imports = sortedImports(res.Imports)
	return res, nil
}

func goImports(node *sitter.Node, source []byte) []string {
	var out []string
	walk(node, func(n *sitter.Node) {
		if n.Type() == "interpreted_string_literal" || n.Type() == "raw_string_literal" {
			out = append(out, strings.Trim(nodeText(n, source), "\"`"))
		}
	})
	return out
}

func (a *goAdapter) function(node *sitter.Node, source []byte, kind model.SymbolKind) *model.Symbol {
	sym := &model.Symbol{
		Kind:      kind,
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		Doc:       precedingDoc(node, source),
	}

	if name := node.ChildByFieldName("name"); name != nil {
		sym.Name = nodeText(name, source)
	}

	// Method names are qualified by receiver type: Type.Method.
	if kind == model.KindMethod {
		if recv := goReceiverType(node, source); recv != "" {
			sym.Name = recv + "." + sym.Name
		}
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		sym.Params = goParams(params, source)
	}
	if result := node.ChildByFieldName("result"); result != nil {
		sym.Returns = nodeText(result, source)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		sym.Metrics = structuralCounts(body, source, goDecisionTypes)
		sym.Calls = collectCalls(body, source, "call_expression", "function")
		sym.Refs = collectRefs(body, source)
	}

	return sym
}

// goReceiverType extracts the receiver's base type name from a method
// declaration, stripping any pointer star.
func goReceiverType(node *sitter.Node, source []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	var typeName string
	walk(recv, func(n *sitter.Node) {
		if typeName == "" && n.Type() == "type_identifier" {
			typeName = nodeText(n, source)
		}
	})
	return typeName
}

func goParams(list *sitter.Node, source []byte) []model.Param {
	var params []model.Param
	for i := uint32(0); i < list.ChildCount(); i++ {
		decl := list.Child(int(i))
		if decl == nil || decl.Type() != "parameter_declaration" && decl.Type() != "variadic_parameter_declaration" {
			continue
		}

		typeNode := decl.ChildByFieldName("type")
		typeName := ""
		if typeNode != nil {
			typeName = nodeText(typeNode, source)
		}

		named := false
		for j := uint32(0); j < decl.ChildCount(); j++ {
			c := decl.Child(int(j))
			if c != nil && c.Type() == "identifier" {
				params = append(params, model.Param{Name: nodeText(c, source), Type: typeName})
				named = true
			}
		}
		if !named && typeName != "" {
			params = append(params, model.Param{Type: typeName})
		}
	}
	return params
}

// types expands a type_declaration into one class-kind symbol per type_spec.
// Struct fields become attribute children so pattern rules can see them.
func (a *goAdapter) types(node *sitter.Node, source []byte) []*model.Symbol {
	var syms []*model.Symbol
	doc := precedingDoc(node, source)

	for i := uint32(0); i < node.ChildCount(); i++ {
		spec := node.Child(int(i))
		if spec == nil || spec.Type() != "type_spec" {
			continue
		}
		sym := &model.Symbol{
			Kind:      model.KindClass,
			StartLine: int(spec.StartPoint().Row) + 1,
			EndLine:   int(spec.EndPoint().Row) + 1,
			Doc:       doc,
		}
		if name := spec.ChildByFieldName("name"); name != nil {
			sym.Name = nodeText(name, source)
		}

		walk(spec, func(n *sitter.Node) {
			if n.Type() != "field_declaration" {
				return
			}
			fieldType := ""
			if t := n.ChildByFieldName("type"); t != nil {
				fieldType = nodeText(t, source)
			}
			for j := uint32(0); j < n.ChildCount(); j++ {
				c := n.Child(int(j))
				if c != nil && c.Type() == "field_identifier" {
					sym.Children = append(sym.Children, &model.Symbol{
						Name:      nodeText(c, source),
						Kind:      model.KindAttribute,
						Returns:   fieldType,
						StartLine: int(c.StartPoint().Row) + 1,
						EndLine:   int(c.StartPoint().Row) + 1,
					})
				}
			}
		})

		syms = append(syms, sym)
	}
	return syms
}

//go:build cgo

package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"docsync/internal/model"
)

func init() {
	Register(&pythonAdapter{})
}

// pythonAdapter parses Python source via tree-sitter.
type pythonAdapter struct{}

func (a *pythonAdapter) Name() string { return "python" }

func (a *pythonAdapter) Extensions() []string { return []string{".py", ".pyw"} }

var pyDecisionTypes = typeSet(
	"if_statement",
	"elif_clause",
	"for_statement",
	"while_statement",
	"except_clause",
	"conditional_expression",
	"list_comprehension",
	"dictionary_comprehension",
	"set_comprehension",
	"generator_expression",
	"boolean_operator", // and / or
	"case_clause",
)

func (a *pythonAdapter) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	root, err := parseTree(ctx, python.GetLanguage(), source)
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

func (a *pythonAdapter) topLevel(node *sitter.Node, source []byte, res *ParseResult) {
	switch node.Type() {
	case "import_statement", "import_from_statement":
		res.Imports = append(res.Imports, pyImports(node, source)...)
	case "function_definition":
		res.Symbols = append(res.Symbols, a.function(node, source, model.KindFunction, nil))
	case "class_definition":
		res.Symbols = append(res.Symbols, a.class(node, source, nil))
	case "decorated_definition":
		decorators := pyDecorators(node, source)
		if def := node.ChildByFieldName("definition"); def != nil {
			switch def.Type() {
			case "function_definition":
				res.Symbols = append(res.Symbols, a.function(def, source, model.KindFunction, decorators))
			case "class_definition":
				res.Symbols = append(res.Symbols, a.class(def, source, decorators))
			}
		}
	}
}

// pyImports extracts import targets. "from x import y" records x; bare
// "import a.b, c" records each dotted name.
func pyImports(node *sitter.Node, source []byte) []string {
	if node.Type() == "import_from_statement" {
		if mod := node.ChildByFieldName("module_name"); mod != nil {
			return []string{nodeText(mod, source)}
		}
		return nil
	}

	var out []string
	for i := uint32(0); i < node.ChildCount(); i++ {
		c := node.Child(int(i))
		if c == nil {
			continue
		}
		switch c.Type() {
		case "dotted_name":
			out = append(out, nodeText(c, source))
		case "aliased_import":
			if name := c.ChildByFieldName("name"); name != nil {
				out = append(out, nodeText(name, source))
			}
		}
	}
	return out
}

func pyDecorators(node *sitter.Node, source []byte) []string {
	var out []string
	for i := uint32(0); i < node.ChildCount(); i++ {
		c := node.Child(int(i))
		if c != nil && c.Type() == "decorator" {
			out = append(out, strings.TrimPrefix(nodeText(c, source), "@"))
		}
	}
	return out
}

func (a *pythonAdapter) function(node *sitter.Node, source []byte, kind model.SymbolKind, decorators []string) *model.Symbol {
	sym := &model.Symbol{
		Kind:       kind,
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
		Decorators: decorators,
	}

	if name := node.ChildByFieldName("name"); name != nil {
		sym.Name = nodeText(name, source)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		sym.Params = pyParams(params, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sym.Returns = nodeText(ret, source)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		sym.Doc = pyDocstring(body, source)
		sym.Metrics = structuralCounts(body, source, pyDecisionTypes)
		sym.Calls = collectCalls(body, source, "call", "function")
		sym.Refs = collectRefs(body, source)
	}

	return sym
}

func (a *pythonAdapter) class(node *sitter.Node, source []byte, decorators []string) *model.Symbol {
	sym := &model.Symbol{
		Kind:       model.KindClass,
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
		Decorators: decorators,
	}

	if name := node.ChildByFieldName("name"); name != nil {
		sym.Name = nodeText(name, source)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return sym
	}
	sym.Doc = pyDocstring(body, source)

	for i := uint32(0); i < body.ChildCount(); i++ {
		stmt := body.Child(int(i))
		if stmt == nil {
			continue
		}
		switch stmt.Type() {
		case "function_definition":
			sym.Children = append(sym.Children, a.function(stmt, source, model.KindMethod, nil))
		case "decorated_definition":
			decs := pyDecorators(stmt, source)
			if def := stmt.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
				sym.Children = append(sym.Children, a.function(def, source, model.KindMethod, decs))
			}
		case "expression_statement":
			// Class-level assignments become attribute symbols.
			if attr := pyClassAttribute(stmt, source); attr != nil {
				sym.Children = append(sym.Children, attr)
			}
		}
	}

	return sym
}

// pyClassAttribute models "name = value" / "name: T = value" statements in a
// class body as attribute symbols.
func pyClassAttribute(stmt *sitter.Node, source []byte) *model.Symbol {
	if stmt.ChildCount() == 0 {
		return nil
	}
	assign := stmt.Child(0)
	if assign == nil || assign.Type() != "assignment" {
		return nil
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return nil
	}

	attr := &model.Symbol{
		Name:      nodeText(left, source),
		Kind:      model.KindAttribute,
		StartLine: int(stmt.StartPoint().Row) + 1,
		EndLine:   int(stmt.EndPoint().Row) + 1,
	}
	if t := assign.ChildByFieldName("type"); t != nil {
		attr.Returns = nodeText(t, source)
	}
	return attr
}

// pyDocstring returns the leading string expression of a body block, if any.
func pyDocstring(body *sitter.Node, source []byte) string {
	if body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first == nil || first.Type() != "expression_statement" || first.ChildCount() == 0 {
		return ""
	}
	str := first.Child(0)
	if str == nil || str.Type() != "string" {
		return ""
	}
	text := nodeText(str, source)
	text = strings.Trim(text, "\"'")
	return strings.TrimSpace(text)
}

func pyParams(list *sitter.Node, source []byte) []model.Param {
	var params []model.Param
	for i := uint32(0); i < list.ChildCount(); i++ {
		p := list.Child(int(i))
		if p == nil {
			continue
		}
		switch p.Type() {
		case "identifier":
			params = append(params, model.Param{Name: nodeText(p, source)})
		case "typed_parameter", "typed_default_parameter":
			param := model.Param{}
			if p.ChildCount() > 0 && p.Child(0) != nil {
				param.Name = nodeText(p.Child(0), source)
			}
			if t := p.ChildByFieldName("type"); t != nil {
				param.Type = nodeText(t, source)
			}
			params = append(params, param)
		case "default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				params = append(params, model.Param{Name: nodeText(name, source)})
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, model.Param{Name: nodeText(p, source)})
		}
	}
	return params
}

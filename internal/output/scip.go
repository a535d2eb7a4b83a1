package output

import (
	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"docsync/internal/model"
	"docsync/internal/version"
)

// ExportSCIP serializes the project model as a SCIP index so editor and
// navigation tooling can consume the symbol inventory directly.
func ExportSCIP(m *model.ProjectModel, root string) ([]byte, error) {
	index := &scippb.Index{
		Metadata: &scippb.Metadata{
			Version: scippb.ProtocolVersion_UnspecifiedProtocolVersion,
			ToolInfo: &scippb.ToolInfo{
				Name:    "docsync",
				Version: version.Version,
			},
			ProjectRoot:          "file://" + root,
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
	}

	m.Each(func(unit *model.SourceUnit) {
		doc := &scippb.Document{
			RelativePath: unit.Path,
			Language:     unit.Language,
		}
		for _, top := range unit.Symbols {
			top.Walk(func(sym *model.Symbol) {
				info := &scippb.SymbolInformation{
					Symbol:      "local " + sym.QualifiedName,
					DisplayName: sym.Name,
					Kind:        scipKind(sym.Kind),
				}
				if sym.Doc != "" {
					info.Documentation = []string{sym.Doc}
				}
				doc.Symbols = append(doc.Symbols, info)
			})
		}
		index.Documents = append(index.Documents, doc)
	})

	return proto.Marshal(index)
}

func scipKind(kind model.SymbolKind) scippb.SymbolInformation_Kind {
	switch kind {
	case model.KindModule:
		return scippb.SymbolInformation_Module
	case model.KindClass:
		return scippb.SymbolInformation_Class
	case model.KindFunction:
		return scippb.SymbolInformation_Function
	case model.KindMethod:
		return scippb.SymbolInformation_Method
	case model.KindAttribute:
		return scippb.SymbolInformation_Field
	default:
		return scippb.SymbolInformation_UnspecifiedKind
	}
}

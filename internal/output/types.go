package output

import (
	"time"

	"docsync/internal/complexity"
	"docsync/internal/freshness"
	"docsync/internal/graph"
	"docsync/internal/model"
	"docsync/internal/patterns"
)

// AnalysisResult aggregates everything the pipeline produced for one run.
// It is the only structure external tooling consumes besides rendered pages.
type AnalysisResult struct {
	RunID       string                        `json:"runId"`
	GeneratedAt time.Time                     `json:"generatedAt"`
	Root        string                        `json:"root"`
	Model       *model.ProjectModel           `json:"-"`
	Graph       *graph.DependencyGraph        `json:"-"`
	Complexity  map[string]complexity.Record  `json:"complexity"`
	Files       []complexity.FileSummary      `json:"files"`
	Cycles      []graph.Cycle                 `json:"cycles"`
	Patterns    []patterns.Match              `json:"patterns"`
	RuleErrors  []patterns.RuleError          `json:"ruleErrors,omitempty"`
	Drift       []freshness.DriftRecord       `json:"drift"`
	ParseErrors map[string][]model.ParseError `json:"parseErrors,omitempty"`
}

// Serializable returns the JSON view of the result, expanding the model and
// graph into their stable serialized forms.
func (r *AnalysisResult) Serializable() map[string]interface{} {
	units := make([]serializedUnit, 0, r.Model.Len())
	r.Model.Each(func(u *model.SourceUnit) {
		units = append(units, serializedUnit{
			Path:     u.Path,
			Language: u.Language,
			Module:   u.Module,
			Hash:     u.Hash,
			Imports:  u.Imports,
			Symbols:  u.Symbols,
		})
	})

	return map[string]interface{}{
		"runId":       r.RunID,
		"generatedAt": r.GeneratedAt.UTC().Format(time.RFC3339),
		"root":        r.Root,
		"units":       units,
		"nodes":       r.Graph.Nodes(),
		"edges":       r.Graph.Edges(),
		"cycles":      r.Cycles,
		"complexity":  r.Complexity,
		"files":       r.Files,
		"patterns":    r.Patterns,
		"ruleErrors":  r.RuleErrors,
		"drift":       r.Drift,
		"parseErrors": r.ParseErrors,
	}
}

type serializedUnit struct {
	Path     string          `json:"path"`
	Language string          `json:"language"`
	Module   string          `json:"module"`
	Hash     string          `json:"hash"`
	Imports  []string        `json:"imports"`
	Symbols  []*model.Symbol `json:"symbols"`
}

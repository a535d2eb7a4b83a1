package complexity

import (
	"math"
	"sort"

	"docsync/internal/model"
)

// Analyze computes a Record for every function and method symbol in the
// model, keyed by qualified name. The model is read-only; Analyze never
// re-parses source.
func Analyze(m *model.ProjectModel) map[string]Record {
	records := make(map[string]Record)

	m.EachSymbol(func(u *model.SourceUnit, sym *model.Symbol) {
		if sym.Kind != model.KindFunction && sym.Kind != model.KindMethod {
			return
		}
		records[sym.QualifiedName] = score(sym)
	})

	return records
}

// Summarize aggregates records per source unit.
func Summarize(m *model.ProjectModel, records map[string]Record) []FileSummary {
	var out []FileSummary

	m.Each(func(u *model.SourceUnit) {
		summary := FileSummary{Path: u.Path, WorstGrade: GradeA}
		for _, s := range u.Symbols {
			s.Walk(func(sym *model.Symbol) {
				rec, ok := records[sym.QualifiedName]
				if !ok {
					return
				}
				summary.FunctionCount++
				summary.TotalCyclomatic += rec.Cyclomatic
				if rec.Cyclomatic > summary.MaxCyclomatic {
					summary.MaxCyclomatic = rec.Cyclomatic
				}
				if worse(rec.Grade, summary.WorstGrade) {
					summary.WorstGrade = rec.Grade
				}
			})
		}
		if summary.FunctionCount == 0 {
			return
		}
		summary.AverageCyclomatic = float64(summary.TotalCyclomatic) / float64(summary.FunctionCount)
		out = append(out, summary)
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func score(sym *model.Symbol) Record {
	cyclomatic := 1 + sym.Metrics.Decisions
	lines := sym.Lines()

	return Record{
		QualifiedName:   sym.QualifiedName,
		Cyclomatic:      cyclomatic,
		Lines:           lines,
		Maintainability: maintainability(cyclomatic, lines, sym.Metrics),
		Grade:           GradeFor(cyclomatic),
	}
}

// maintainability computes the classic maintainability index rescaled to
// 0-100: (171 - 5.2*ln(V) - 0.23*CC - 16.2*ln(LOC)) * 100/171, where V is
// the Halstead volume N*log2(n) from the adapter's vocabulary tallies.
func maintainability(cyclomatic, lines int, m model.Metrics) float64 {
	total := m.Operators + m.Operands
	vocab := m.DistinctOperators + m.DistinctOperands
	if total < 1 {
		total = 1
	}
	if vocab < 2 {
		vocab = 2
	}
	volume := float64(total) * math.Log2(float64(vocab))
	if volume < 1 {
		volume = 1
	}
	if lines < 1 {
		lines = 1
	}

	mi := 171 - 5.2*math.Log(volume) - 0.23*float64(cyclomatic) - 16.2*math.Log(float64(lines))
	mi = mi * 100 / 171

	if mi < 0 {
		return 0
	}
	if mi > 100 {
		return 100
	}
	return mi
}

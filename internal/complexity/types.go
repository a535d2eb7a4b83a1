// Package complexity scores function symbols: cyclomatic complexity from
// adapter-collected decision counts and a 0-100 maintainability index.
//
// Scores are not normalized per language; the vocabulary-volume term is
// language-specific, so cross-language comparison is approximate by design.
package complexity

// Grade is a ranking bucket derived from fixed cyclomatic thresholds,
// applied uniformly across languages.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
)

// Record holds complexity metrics for one function or method symbol,
// keyed in the analysis result by qualified symbol name.
type Record struct {
	QualifiedName string `json:"qualifiedName"`

	// Cyclomatic is decision points + 1, always >= 1.
	Cyclomatic int `json:"cyclomatic"`

	// Lines is the source line count of the symbol span.
	Lines int `json:"lines"`

	// Maintainability is the maintainability index on a 0-100 scale.
	Maintainability float64 `json:"maintainability"`

	Grade Grade `json:"grade"`
}

// FileSummary aggregates records for one source unit.
type FileSummary struct {
	Path              string  `json:"path"`
	FunctionCount     int     `json:"functionCount"`
	TotalCyclomatic   int     `json:"totalCyclomatic"`
	MaxCyclomatic     int     `json:"maxCyclomatic"`
	AverageCyclomatic float64 `json:"averageCyclomatic"`
	WorstGrade        Grade   `json:"worstGrade"`
}

// GradeFor buckets a cyclomatic score.
func GradeFor(cyclomatic int) Grade {
	switch {
	case cyclomatic <= 5:
		return GradeA
	case cyclomatic <= 10:
		return GradeB
	case cyclomatic <= 20:
		return GradeC
	case cyclomatic <= 30:
		return GradeD
	case cyclomatic <= 40:
		return GradeE
	default:
		return GradeF
	}
}

// worse reports whether a is a worse grade than b.
func worse(a, b Grade) bool {
	return a > b
}

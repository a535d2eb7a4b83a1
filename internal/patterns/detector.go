package patterns

import (
	"fmt"
	"log/slog"
	"sort"

	"docsync/internal/model"
	"docsync/internal/slogutil"
)

// Detector applies a rule set across a project model.
type Detector struct {
	rules  []Rule
	logger *slog.Logger
}

// NewDetector builds a detector over rules. A nil logger discards rule
// failure reports.
func NewDetector(rules []Rule, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Detector{rules: rules, logger: logger}
}

// Detect runs every rule against every class, function and method in the
// model. A panicking rule is recorded as a RuleError and skipped for the
// remaining symbols; all other rules keep running.
func (d *Detector) Detect(m *model.ProjectModel) ([]Match, []RuleError) {
	var matches []Match
	var errs []RuleError
	broken := map[string]bool{}

	m.Each(func(unit *model.SourceUnit) {
		for _, top := range unit.Symbols {
			siblings := unit.Symbols
			d.apply(top, siblings, broken, &matches, &errs)
			for _, child := range top.Children {
				d.apply(child, top.Children, broken, &matches, &errs)
			}
		}
	})

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].QualifiedName != matches[j].QualifiedName {
			return matches[i].QualifiedName < matches[j].QualifiedName
		}
		return matches[i].RuleID < matches[j].RuleID
	})
	return matches, errs
}

func (d *Detector) apply(sym *model.Symbol, siblings []*model.Symbol, broken map[string]bool, matches *[]Match, errs *[]RuleError) {
	switch sym.Kind {
	case model.KindClass, model.KindFunction, model.KindMethod:
	default:
		return
	}
	for _, rule := range d.rules {
		if broken[rule.ID] {
			continue
		}
		hit, err := d.run(rule, sym, siblings)
		if err != nil {
			broken[rule.ID] = true
			*errs = append(*errs, *err)
			d.logger.Warn("pattern rule failed", "rule", err.RuleID, "symbol", err.Symbol, "error", err.Message)
			continue
		}
		if hit {
			*matches = append(*matches, Match{Tag: rule.Tag, QualifiedName: sym.QualifiedName, RuleID: rule.ID})
		}
	}
}

func (d *Detector) run(rule Rule, sym *model.Symbol, siblings []*model.Symbol) (hit bool, ruleErr *RuleError) {
	defer func() {
		if r := recover(); r != nil {
			ruleErr = &RuleError{
				RuleID:  rule.ID,
				Symbol:  sym.QualifiedName,
				Message: fmt.Sprint(r),
			}
		}
	}()
	return rule.Match(sym, siblings), nil
}

// Package patterns tags recognizable structural motifs on symbols via a
// registry of independent rules. Rules are pure predicates over a symbol and
// its siblings; a failing rule is logged and skipped, never aborting
// detection for other rules or symbols.
package patterns

import "docsync/internal/model"

// Tag is a motif from the fixed pattern vocabulary.
type Tag string

const (
	TagSingleton Tag = "singleton"
	TagFactory   Tag = "factory"
	TagBuilder   Tag = "builder"
	TagObserver  Tag = "observer"
)

// Rule is one independent detection rule.
type Rule struct {
	// ID identifies the rule in matches, errors and configuration.
	ID string

	// Tag is the motif recorded when the rule fires.
	Tag Tag

	// Match reports whether sym exhibits the motif. siblings are the other
	// symbols sharing sym's scope. Must not mutate its inputs.
	Match func(sym *model.Symbol, siblings []*model.Symbol) bool
}

// Match records one rule firing on one symbol. Multiple matches per symbol
// are allowed.
type Match struct {
	Tag           Tag    `json:"tag"`
	QualifiedName string `json:"qualifiedName"`
	RuleID        string `json:"ruleId"`
}

// RuleError records a rule that failed internally and was skipped.
type RuleError struct {
	RuleID  string `json:"ruleId"`
	Symbol  string `json:"symbol,omitempty"`
	Message string `json:"message"`
}

package patterns

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"docsync/internal/errors"
	"docsync/internal/model"
)

// RulesConfig tunes the builtin rules. All fields have working defaults so
// the file is optional.
type RulesConfig struct {
	Disabled []string `toml:"disabled"`

	Singleton struct {
		InstanceNames []string `toml:"instanceNames"`
	} `toml:"singleton"`

	Factory struct {
		CreationVerbs   []string `toml:"creationVerbs"`
		MinConstructors int      `toml:"minConstructors"`
	} `toml:"factory"`

	Builder struct {
		MinChainMethods int `toml:"minChainMethods"`
	} `toml:"builder"`

	Observer struct {
		Vocabulary []string `toml:"vocabulary"`
		MinMatches int      `toml:"minMatches"`
	} `toml:"observer"`
}

// DefaultRulesConfig returns the tuning used when no rules file exists.
func DefaultRulesConfig() *RulesConfig {
	cfg := &RulesConfig{}
	cfg.Singleton.InstanceNames = []string{"instance", "shared", "default"}
	cfg.Factory.CreationVerbs = []string{"create", "make", "build", "new", "from"}
	cfg.Factory.MinConstructors = 2
	cfg.Builder.MinChainMethods = 2
	cfg.Observer.Vocabulary = []string{
		"subscribe", "unsubscribe", "notify", "attach", "detach",
		"addlistener", "removelistener", "addobserver", "removeobserver",
		"emit", "on", "off",
	}
	cfg.Observer.MinMatches = 2
	return cfg
}

// LoadRulesConfig reads tuning from a TOML file, falling back to defaults
// for a missing file. Unset fields keep their default values.
func LoadRulesConfig(path string) (*RulesConfig, error) {
	cfg := DefaultRulesConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.New(errors.ConfigInvalid, "reading rules file "+path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "parsing rules file "+path, err)
	}
	if cfg.Factory.MinConstructors < 1 {
		cfg.Factory.MinConstructors = 1
	}
	if cfg.Builder.MinChainMethods < 1 {
		cfg.Builder.MinChainMethods = 1
	}
	if cfg.Observer.MinMatches < 1 {
		cfg.Observer.MinMatches = 1
	}
	return cfg, nil
}

func (c *RulesConfig) disabled(id string) bool {
	for _, d := range c.Disabled {
		if d == id {
			return true
		}
	}
	return false
}

// BuiltinRules returns the builtin rule set tuned by cfg, with disabled
// rules filtered out.
func BuiltinRules(cfg *RulesConfig) []Rule {
	if cfg == nil {
		cfg = DefaultRulesConfig()
	}
	all := []Rule{
		{ID: "singleton-guard", Tag: TagSingleton, Match: singletonRule(cfg)},
		{ID: "factory-method", Tag: TagFactory, Match: factoryRule(cfg)},
		{ID: "builder-chain", Tag: TagBuilder, Match: builderRule(cfg)},
		{ID: "observer-vocab", Tag: TagObserver, Match: observerRule(cfg)},
	}
	rules := all[:0]
	for _, r := range all {
		if !cfg.disabled(r.ID) {
			rules = append(rules, r)
		}
	}
	return rules
}

// singletonRule fires on a class holding a private instance attribute that an
// accessor method both reads and guards with at least one branch.
func singletonRule(cfg *RulesConfig) func(*model.Symbol, []*model.Symbol) bool {
	return func(sym *model.Symbol, _ []*model.Symbol) bool {
		if sym.Kind != model.KindClass {
			return false
		}
		var attrs []string
		for _, c := range sym.Children {
			if c.Kind == model.KindAttribute && isInstanceName(c.Name, cfg.Singleton.InstanceNames) {
				attrs = append(attrs, c.Name)
			}
		}
		if len(attrs) == 0 {
			return false
		}
		for _, c := range sym.Children {
			if c.Kind != model.KindMethod || c.Metrics.Decisions == 0 {
				continue
			}
			for _, a := range attrs {
				if refersTo(c, a) {
					return true
				}
			}
		}
		return false
	}
}

// factoryRule fires on a creation-named function that picks between several
// constructor-style calls.
func factoryRule(cfg *RulesConfig) func(*model.Symbol, []*model.Symbol) bool {
	return func(sym *model.Symbol, _ []*model.Symbol) bool {
		if sym.Kind != model.KindFunction && sym.Kind != model.KindMethod {
			return false
		}
		if !hasCreationName(sym.Name, cfg.Factory.CreationVerbs) {
			return false
		}
		if sym.Metrics.Decisions == 0 {
			return false
		}
		ctors := map[string]bool{}
		for _, call := range sym.Calls {
			if isConstructorName(call) {
				ctors[call] = true
			}
		}
		return len(ctors) >= cfg.Factory.MinConstructors
	}
}

// builderRule fires on a class exposing a terminal build method alongside
// enough chainable configuration methods.
func builderRule(cfg *RulesConfig) func(*model.Symbol, []*model.Symbol) bool {
	return func(sym *model.Symbol, _ []*model.Symbol) bool {
		if sym.Kind != model.KindClass {
			return false
		}
		hasBuild := false
		chain := 0
		for _, c := range sym.Children {
			if c.Kind != model.KindMethod {
				continue
			}
			name := strings.ToLower(c.Name)
			switch {
			case name == "build" || strings.HasSuffix(name, ".build"):
				hasBuild = true
			case returnsOwnType(c, sym.Name):
				chain++
			}
		}
		if hasBuild && chain >= cfg.Builder.MinChainMethods {
			return true
		}
		// Name suffix alone is enough when the class has any methods at all.
		return strings.HasSuffix(sym.Name, "Builder") && chain+boolToInt(hasBuild) >= 1
	}
}

// observerRule fires on a class whose method names cover enough of the
// subscribe/notify vocabulary.
func observerRule(cfg *RulesConfig) func(*model.Symbol, []*model.Symbol) bool {
	return func(sym *model.Symbol, _ []*model.Symbol) bool {
		if sym.Kind != model.KindClass {
			return false
		}
		seen := map[string]bool{}
		for _, c := range sym.Children {
			if c.Kind != model.KindMethod {
				continue
			}
			name := normalizeMethodName(c.Name)
			for _, v := range cfg.Observer.Vocabulary {
				if name == v {
					seen[v] = true
				}
			}
		}
		return len(seen) >= cfg.Observer.MinMatches
	}
}

func isInstanceName(name string, wanted []string) bool {
	trimmed := strings.ToLower(strings.Trim(name, "_"))
	for _, w := range wanted {
		if trimmed == w || strings.HasSuffix(trimmed, "_"+w) {
			return true
		}
	}
	return false
}

func refersTo(sym *model.Symbol, name string) bool {
	for _, r := range sym.Refs {
		if r == name {
			return true
		}
	}
	return false
}

func hasCreationName(name string, verbs []string) bool {
	lower := strings.ToLower(name)
	// Methods carry a receiver prefix; match the final segment.
	if i := strings.LastIndexByte(lower, '.'); i >= 0 {
		lower = lower[i+1:]
	}
	stripped := name
	if i := strings.LastIndexByte(stripped, '.'); i >= 0 {
		stripped = stripped[i+1:]
	}
	for _, v := range verbs {
		if lower == v || strings.HasPrefix(lower, v+"_") {
			return true
		}
		// camelCase: createWidget, newThing.
		if strings.HasPrefix(lower, v) && len(stripped) > len(v) &&
			stripped[len(v)] >= 'A' && stripped[len(v)] <= 'Z' {
			return true
		}
	}
	return false
}

// isConstructorName treats a capitalized call target as a constructor-style
// call. Dotted targets are judged by their final segment.
func isConstructorName(call string) bool {
	if i := strings.LastIndexByte(call, '.'); i >= 0 {
		call = call[i+1:]
	}
	if call == "" {
		return false
	}
	return call[0] >= 'A' && call[0] <= 'Z'
}

func returnsOwnType(method *model.Symbol, className string) bool {
	ret := method.Returns
	if ret == "" {
		// Python chainable methods return self; the body referencing self
		// with no declared return type is the common shape.
		return refersTo(method, "self") && method.Metrics.Decisions == 0
	}
	ret = strings.TrimPrefix(ret, "*")
	if i := strings.LastIndexByte(ret, '.'); i >= 0 {
		ret = ret[i+1:]
	}
	return ret == className || ret == "self" || ret == "Self"
}

func normalizeMethodName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ReplaceAll(strings.ToLower(name), "_", "")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package graph

import "sort"

// Cycle is an import cycle, listed in traversal order starting from the
// lexicographically smallest member so reports are stable regardless of
// where the search began.
type Cycle struct {
	Members []string `json:"members"`

	// SelfLoop marks a module that reaches itself directly.
	SelfLoop bool `json:"selfLoop,omitempty"`
}

// Cycles finds import cycles with a depth-first search per unvisited node.
// Self-loops are reported but not treated as errors by callers.
func (g *DependencyGraph) Cycles() []Cycle {
	const (
		white = 0 // unvisited
		gray  = 1 // on stack
		black = 2 // done
	)

	color := make(map[string]int, len(g.nodes))
	var stack []string
	onStack := map[string]int{} // node -> stack index
	seen := map[string]bool{}   // canonical cycle key -> reported
	var cycles []Cycle

	var visit func(name string)
	visit = func(name string) {
		color[name] = gray
		onStack[name] = len(stack)
		stack = append(stack, name)

		for _, next := range g.successors(name, EdgeImport) {
			switch color[next] {
			case white:
				visit(next)
			case gray:
				members := append([]string(nil), stack[onStack[next]:]...)
				c := canonicalize(members)
				key := cycleKey(c.Members)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, c)
				}
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, name)
		color[name] = black
	}

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if color[name] == white {
			visit(name)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycleKey(cycles[i].Members) < cycleKey(cycles[j].Members)
	})
	return cycles
}

// canonicalize rotates a cycle so its lexicographically smallest member
// comes first, preserving traversal order.
func canonicalize(members []string) Cycle {
	if len(members) == 1 {
		return Cycle{Members: members, SelfLoop: true}
	}

	smallest := 0
	for i, m := range members {
		if m < members[smallest] {
			smallest = i
		}
	}

	rotated := make([]string, 0, len(members))
	rotated = append(rotated, members[smallest:]...)
	rotated = append(rotated, members[:smallest]...)
	return Cycle{Members: rotated}
}

func cycleKey(members []string) string {
	key := ""
	for _, m := range members {
		key += m + "\x00"
	}
	return key
}

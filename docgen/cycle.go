package docgen

import (
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vektah/gqlparser/v2/ast"
)

// fragmentGraph is the fragment dependency graph: one node per type with a
// generated fragment, edges recorded while the fragments were built.
type fragmentGraph struct {
	order     []string
	fragments map[string]*Fragment
}

func newFragmentGraph(fragments []*Fragment) *fragmentGraph {
	g := &fragmentGraph{fragments: make(map[string]*Fragment, len(fragments))}
	for _, fragment := range fragments {
		g.order = append(g.order, fragment.TypeName)
		g.fragments[fragment.TypeName] = fragment
	}

	// edges to types without a fragment of their own carry no spread
	for _, fragment := range fragments {
		deps := fragment.Deps[:0]
		for _, dep := range fragment.Deps {
			if _, ok := g.fragments[dep]; ok {
				deps = append(deps, dep)
			}
		}
		fragment.Deps = deps
	}

	return g
}

func (g *fragmentGraph) dependsOn(from, to string) bool {
	fragment := g.fragments[from]
	if fragment == nil {
		return false
	}
	for _, dep := range fragment.Deps {
		if dep == to {
			return true
		}
	}

	return false
}

// resolveCycles breaks mutual fragment dependencies by inlining the smaller
// fragment's minimal scalar fields into the larger one. Only two-node cycles
// are resolved; longer cycles are reported and passed through.
func resolveCycles(schema *ast.Schema, g *fragmentGraph, logger *log.Logger) {
	type pair struct{ a, b string }
	seen := map[pair]struct{}{}

	for _, a := range g.order {
		for _, b := range slices.Clone(g.fragments[a].Deps) {
			// a fragment can reach itself through a union branch
			if a == b {
				g.breakCycle(schema, a, a, logger)

				continue
			}
			if !g.dependsOn(b, a) {
				continue
			}
			key := pair{a, b}
			if a > b {
				key = pair{b, a}
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			g.breakCycle(schema, a, b, logger)
		}
	}

	g.reportLongCycles(logger)
}

// breakCycle resolves one mutual cycle. The side with the lower size score
// (line count plus dependency count) is inlined into the other.
func (g *fragmentGraph) breakCycle(schema *ast.Schema, a, b string, logger *log.Logger) {
	inlined, kept := a, b
	if g.sizeScore(a) > g.sizeScore(b) {
		inlined, kept = b, a
	}

	logger.Warn("mutual fragment dependency, inlining minimal fields",
		"inlined", inlined, "into", kept)

	keptFragment := g.fragments[kept]

	deps := keptFragment.Deps[:0]
	for _, dep := range keptFragment.Deps {
		if dep != inlined {
			deps = append(deps, dep)
		}
	}
	keptFragment.Deps = deps

	var fields []string
	for _, field := range MinimalScalarFields(schema, inlined) {
		if field != "id" && containsToken(keptFragment.Text, field) {
			fields = append(fields, aliasName(inlined, field)+": "+field)
		} else {
			fields = append(fields, field)
		}
	}

	spread := "..." + FragmentName(inlined)
	lines := strings.Split(keptFragment.Text, "\n")
	rewritten := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != spread {
			rewritten = append(rewritten, line)
			continue
		}
		indent := indentOf(line)
		for _, field := range fields {
			rewritten = append(rewritten, indent+field)
		}
	}
	keptFragment.Text = strings.Join(rewritten, "\n")
}

func (g *fragmentGraph) sizeScore(typeName string) int {
	fragment := g.fragments[typeName]

	return strings.Count(fragment.Text, "\n") + 1 + len(fragment.Deps)
}

// reportLongCycles walks the remaining graph and logs cycles of three or
// more nodes, which are left unresolved.
func (g *fragmentGraph) reportLongCycles(logger *log.Logger) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[string]int{}
	var stack []string

	var visit func(name string)
	visit = func(name string) {
		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range g.fragments[name].Deps {
			switch state[dep] {
			case unvisited:
				visit(dep)
			case visiting:
				start := 0
				for i, node := range stack {
					if node == dep {
						start = i

						break
					}
				}
				if cycle := stack[start:]; len(cycle) > 2 {
					logger.Warn("fragment dependency cycle longer than two nodes left unresolved",
						"cycle", strings.Join(cycle, " -> "))
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
	}

	for _, name := range g.order {
		if state[name] == unvisited {
			visit(name)
		}
	}
}

func containsToken(text, token string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(token) + `\b`)

	return re.MatchString(text)
}

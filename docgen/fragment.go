package docgen

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vektah/gqlparser/v2/ast"
)

// maxInlineDepth bounds inline expansion of scaffolding types. Depth beyond
// the bound is normally unreachable because nested structure is carried by
// fragment spreads, not recursion.
const maxInlineDepth = 5

// paginationFieldNames are conventional names that legitimately repeat across
// nested paths and are excluded from the duplicate-field diagnostic.
var paginationFieldNames = map[string]struct{}{
	"id":         {},
	"node":       {},
	"cursor":     {},
	"edges":      {},
	"pageInfo":   {},
	"totalCount": {},
}

// Fragment is one generated fragment definition together with the fragment
// dependencies its selection set spreads.
type Fragment struct {
	TypeName string
	Text     string
	Deps     []string
}

type fragmentBuilder struct {
	schema *ast.Schema
	logger *log.Logger

	// fieldPaths maps a field name to the first path it was seen under,
	// for the duplicate-field diagnostic.
	fieldPaths map[string]string
	deps       []string
	seenDeps   map[string]struct{}
}

// BuildFragment derives the fragment definition for one composite type.
// It returns nil when the type yields no selectable fields.
func BuildFragment(schema *ast.Schema, def *ast.Definition, logger *log.Logger) *Fragment {
	b := &fragmentBuilder{
		schema:     schema,
		logger:     logger,
		fieldPaths: map[string]string{},
		seenDeps:   map[string]struct{}{},
	}

	expanded := map[string]struct{}{def.Name: {}}
	lines := b.selections(def, 0, expanded, def.Name)
	if len(lines) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("fragment " + FragmentName(def.Name) + " on " + def.Name + " {\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n}")

	return &Fragment{TypeName: def.Name, Text: sb.String(), Deps: b.deps}
}

func (b *fragmentBuilder) selections(def *ast.Definition, depth int, expanded map[string]struct{}, path string) []string {
	if depth > maxInlineDepth {
		return nil
	}

	indent := strings.Repeat("  ", depth+1)
	var lines []string

	// Fields declared by an interface are reached through the interface's
	// fragment; remember them so they are not selected twice.
	covered := map[string]struct{}{}
	for _, ifaceName := range def.Interfaces {
		iface := b.schema.Types[ifaceName]
		if iface == nil {
			continue
		}
		lines = append(lines, indent+"..."+FragmentName(ifaceName))
		b.addDep(ifaceName)
		for _, field := range iface.Fields {
			covered[field.Name] = struct{}{}
		}
	}

	for _, field := range def.Fields {
		if strings.HasPrefix(field.Name, "__") {
			continue
		}
		if _, ok := covered[field.Name]; ok {
			continue
		}
		base := BaseTypeName(field.Type)
		if base == cursorTypeName {
			continue
		}
		if _, ok := expanded[base]; ok {
			continue
		}

		b.noteFieldPath(field.Name, path)

		fieldType := b.schema.Types[base]
		switch {
		case fieldType == nil:
			// unresolvable type reference, degrade to a bare selection
			lines = append(lines, indent+field.Name)

		case fieldType.Kind == ast.Interface || fieldType.Kind == ast.Union:
			lines = append(lines, indent+field.Name+" {")
			for _, concrete := range b.schema.PossibleTypes[base] {
				lines = append(lines,
					indent+"  ... on "+concrete.Name+" {",
					indent+"    ..."+FragmentName(concrete.Name),
					indent+"  }",
				)
				b.addDep(concrete.Name)
			}
			lines = append(lines, indent+"}")

		case fieldType.Kind == ast.Scalar || fieldType.Kind == ast.Enum:
			lines = append(lines, indent+field.Name)

		case scaffoldTypePattern.MatchString(base):
			// scaffolding types have no fragment of their own, expand inline
			next := make(map[string]struct{}, len(expanded)+1)
			for name := range expanded {
				next[name] = struct{}{}
			}
			next[base] = struct{}{}

			sub := b.selections(fieldType, depth+1, next, path+"."+field.Name)
			if len(sub) == 0 {
				lines = append(lines, indent+field.Name)
			} else {
				lines = append(lines, indent+field.Name+" {")
				lines = append(lines, sub...)
				lines = append(lines, indent+"}")
			}

		default:
			lines = append(lines,
				indent+field.Name+" {",
				indent+"  ..."+FragmentName(base),
				indent+"}",
			)
			b.addDep(base)
		}
	}

	return lines
}

func (b *fragmentBuilder) addDep(typeName string) {
	if _, ok := b.seenDeps[typeName]; ok {
		return
	}
	b.seenDeps[typeName] = struct{}{}
	b.deps = append(b.deps, typeName)
}

func (b *fragmentBuilder) noteFieldPath(name, path string) {
	if _, ok := paginationFieldNames[name]; ok {
		return
	}
	if first, ok := b.fieldPaths[name]; ok {
		if first != path {
			b.logger.Warn("field name appears under multiple paths, keeping the first",
				"field", name, "first", first, "also", path)
		}

		return
	}
	b.fieldPaths[name] = path
}

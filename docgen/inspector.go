package docgen

import (
	"regexp"

	"github.com/vektah/gqlparser/v2/ast"
)

// cursorTypeName is the cursor-marker scalar used by relay-style pagination.
// Fields and arguments of this type are never selected.
const cursorTypeName = "Cursor"

var (
	// scaffoldTypePattern matches pagination/filtering scaffolding types that
	// never get a fragment of their own and are expanded inline instead.
	scaffoldTypePattern = regexp.MustCompile(`(Connection|Edge|Filter|Sort|OrderBy)$`)

	// crudFieldPattern matches auto-generated CRUD root fields that are
	// skipped unless raw mode is on.
	crudFieldPattern = regexp.MustCompile(`^(createOne|updateOne|deleteOne|upsertOne|aggregate|findMany|groupBy)`)
)

var builtinScalars = map[string]struct{}{
	"Int":     {},
	"Float":   {},
	"String":  {},
	"Boolean": {},
	"ID":      {},
}

// BaseTypeName strips list and non-null wrappers and returns the innermost
// named type of a type reference.
func BaseTypeName(t *ast.Type) string {
	for t.Elem != nil {
		t = t.Elem
	}

	return t.NamedType
}

// FormatType renders a type reference back into SDL notation, list wrappers
// as enclosing brackets and non-null as a trailing bang, so schema-declared
// argument types round-trip into valid variable declarations.
func FormatType(t *ast.Type) string {
	var s string
	if t.Elem != nil {
		s = "[" + FormatType(t.Elem) + "]"
	} else {
		s = t.NamedType
	}
	if t.NonNull {
		s += "!"
	}

	return s
}

// isLeafType reports whether a base type name resolves to a scalar or enum.
// Types absent from the schema are treated as leaves so generation degrades
// to a bare field selection instead of failing.
func isLeafType(schema *ast.Schema, name string) bool {
	def := schema.Types[name]
	if def == nil {
		return true
	}

	return def.Kind == ast.Scalar || def.Kind == ast.Enum
}

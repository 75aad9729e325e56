package docgen

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

const maxNullableFallbackFields = 3

var priorityFieldNames = map[string]struct{}{
	"id":    {},
	"name":  {},
	"title": {},
	"email": {},
	"type":  {},
}

// MinimalScalarFields picks a small, deterministic projection of a type's
// scalar fields, used when a fragment has to be inlined instead of spread.
// Non-null fields score +2, conventional identifier names +1, short names
// +0.5; after a stable descending sort every non-null field is taken plus up
// to three nullable ones. Unknown or field-less types fall back to ["id"].
func MinimalScalarFields(schema *ast.Schema, typeName string) []string {
	def := schema.Types[typeName]
	if def == nil {
		return []string{"id"}
	}

	type scoredField struct {
		name    string
		score   float64
		nonNull bool
	}

	scored := make([]scoredField, 0, len(def.Fields))
	for _, field := range def.Fields {
		if !isLeafType(schema, BaseTypeName(field.Type)) {
			continue
		}

		score := 0.0
		if field.Type.NonNull {
			score += 2
		}
		if _, ok := priorityFieldNames[strings.ToLower(field.Name)]; ok {
			score++
		}
		if len(field.Name) <= 5 {
			score += 0.5
		}

		scored = append(scored, scoredField{name: field.Name, score: score, nonNull: field.Type.NonNull})
	}

	// stable keeps declaration order among equal scores
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	fields := make([]string, 0, len(scored))
	nullable := 0
	for _, field := range scored {
		if !field.nonNull {
			if nullable == maxNullableFallbackFields {
				continue
			}
			nullable++
		}
		fields = append(fields, field.name)
	}

	if len(fields) == 0 {
		return []string{"id"}
	}

	return fields
}

package docgen

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// BuildOperation renders one operation definition for a root field. Every
// declared argument except cursor-marker ones becomes a variable; composite
// return types are selected through their fragment, leaf types directly.
func BuildOperation(schema *ast.Schema, kind ast.Operation, name string, field *ast.FieldDefinition) string {
	var variables, arguments []string
	for _, arg := range field.Arguments {
		if BaseTypeName(arg.Type) == cursorTypeName {
			continue
		}
		variables = append(variables, "$"+arg.Name+": "+FormatType(arg.Type))
		arguments = append(arguments, arg.Name+": $"+arg.Name)
	}

	header := string(kind) + " " + name
	if len(variables) > 0 {
		header += "(" + strings.Join(variables, ", ") + ")"
	}

	call := field.Name
	if len(arguments) > 0 {
		call += "(" + strings.Join(arguments, ", ") + ")"
	}

	base := BaseTypeName(field.Type)
	if isLeafType(schema, base) {
		return header + " {\n  " + call + "\n}"
	}

	return header + " {\n  " + call + " {\n    ..." + FragmentName(base) + "\n  }\n}"
}

package docgen

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// MergeDocument merges a newly generated operation into an existing document's
// text. The first operation whose root field matches is rewritten in place:
// its operation name survives, its variable list is taken from the new
// operation, and fragment spreads are unioned. Operations for other root
// fields are re-serialized untouched. When nothing matches, or the existing
// text does not parse, the new operation is appended instead.
func MergeDocument(existing, operation, rootField string, logger *log.Logger) string {
	trimmed := strings.TrimSpace(existing)
	if trimmed == "" {
		return operation + "\n"
	}

	doc, err := parser.ParseQuery(&ast.Source{Name: "existing.gql", Input: existing})
	if err != nil {
		logger.Warn("existing document does not parse, appending instead of merging",
			"rootField", rootField, "err", err)

		return trimmed + "\n\n" + operation + "\n"
	}

	newDoc, err := parser.ParseQuery(&ast.Source{Name: "generated.gql", Input: operation})
	if err != nil || len(newDoc.Operations) == 0 {
		logger.Error("generated operation does not parse", "rootField", rootField, "err", err)

		return trimmed + "\n\n" + operation + "\n"
	}
	newOp := newDoc.Operations[0]

	var blocks []string
	matched := false
	for _, op := range doc.Operations {
		if !matched && firstFieldName(op.SelectionSet) == rootField {
			blocks = append(blocks, mergeOperation(op, newOp, rootField))
			matched = true

			continue
		}
		blocks = append(blocks, renderOperation(op))
	}
	for _, fragment := range doc.Fragments {
		blocks = append(blocks, renderFragmentDefinition(fragment))
	}

	if !matched {
		blocks = append(blocks, operation)
	}

	return strings.Join(blocks, "\n\n") + "\n"
}

// mergeOperation rewrites one matched operation block. The existing operation
// name is sticky; the variable list always comes from the new operation.
func mergeOperation(existingOp, newOp *ast.OperationDefinition, rootField string) string {
	name := existingOp.Name
	if name == "" {
		name = newOp.Name
	}

	header := string(newOp.Operation) + " " + name
	if len(newOp.VariableDefinitions) > 0 {
		header += renderVariableDefinitions(newOp.VariableDefinitions)
	}

	existingField := firstField(existingOp.SelectionSet)
	newField := firstField(newOp.SelectionSet)
	if newField == nil {
		return renderOperation(existingOp)
	}
	newSpreads := spreadNames(newField.SelectionSet)

	if len(newSpreads) == 0 {
		// simple scalar body: keep the existing call-site argument list
		arguments := newField.Arguments
		if existingField != nil {
			arguments = existingField.Arguments
		}

		return header + " {\n  " + rootField + renderArguments(arguments) + "\n}"
	}

	var spreads []string
	if existingField != nil {
		spreads = spreadNames(existingField.SelectionSet)
	}
	for _, spread := range newSpreads {
		if !contains(spreads, spread) {
			spreads = append(spreads, spread)
		}
	}

	var sb strings.Builder
	sb.WriteString(header + " {\n  " + rootField + renderArguments(newField.Arguments) + " {\n")
	for _, spread := range spreads {
		sb.WriteString("    ..." + spread + "\n")
	}
	sb.WriteString("  }\n}")

	return sb.String()
}

func renderOperation(op *ast.OperationDefinition) string {
	header := string(op.Operation)
	if op.Name != "" {
		header += " " + op.Name
	}
	if len(op.VariableDefinitions) > 0 {
		header += renderVariableDefinitions(op.VariableDefinitions)
	}

	lines := renderSelections(op.SelectionSet, 1)
	if len(lines) == 0 {
		return header + " {\n}"
	}

	return header + " {\n" + strings.Join(lines, "\n") + "\n}"
}

func renderFragmentDefinition(fragment *ast.FragmentDefinition) string {
	lines := renderSelections(fragment.SelectionSet, 1)

	return "fragment " + fragment.Name + " on " + fragment.TypeCondition +
		" {\n" + strings.Join(lines, "\n") + "\n}"
}

func renderSelections(selectionSet ast.SelectionSet, depth int) []string {
	indent := strings.Repeat("  ", depth)
	var lines []string
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *ast.Field:
			line := indent
			if sel.Alias != "" && sel.Alias != sel.Name {
				line += sel.Alias + ": "
			}
			line += sel.Name + renderArguments(sel.Arguments)
			if len(sel.SelectionSet) == 0 {
				lines = append(lines, line)

				continue
			}
			lines = append(lines, line+" {")
			lines = append(lines, renderSelections(sel.SelectionSet, depth+1)...)
			lines = append(lines, indent+"}")

		case *ast.FragmentSpread:
			lines = append(lines, indent+"..."+sel.Name)

		case *ast.InlineFragment:
			lines = append(lines, indent+"... on "+sel.TypeCondition+" {")
			lines = append(lines, renderSelections(sel.SelectionSet, depth+1)...)
			lines = append(lines, indent+"}")
		}
	}

	return lines
}

func renderVariableDefinitions(definitions ast.VariableDefinitionList) string {
	parts := make([]string, 0, len(definitions))
	for _, v := range definitions {
		part := "$" + v.Variable + ": " + FormatType(v.Type)
		if v.DefaultValue != nil {
			part += " = " + v.DefaultValue.String()
		}
		parts = append(parts, part)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

func renderArguments(arguments ast.ArgumentList) string {
	if len(arguments) == 0 {
		return ""
	}
	parts := make([]string, 0, len(arguments))
	for _, arg := range arguments {
		parts = append(parts, arg.Name+": "+arg.Value.String())
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

func firstField(selectionSet ast.SelectionSet) *ast.Field {
	for _, selection := range selectionSet {
		if field, ok := selection.(*ast.Field); ok {
			return field
		}
	}

	return nil
}

func firstFieldName(selectionSet ast.SelectionSet) string {
	if field := firstField(selectionSet); field != nil {
		return field.Name
	}

	return ""
}

func spreadNames(selectionSet ast.SelectionSet) []string {
	var names []string
	for _, selection := range selectionSet {
		if spread, ok := selection.(*ast.FragmentSpread); ok {
			names = append(names, spread.Name)
		}
	}

	return names
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}

	return false
}

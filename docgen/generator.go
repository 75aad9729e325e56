// Package docgen derives GraphQL operation documents and reusable fragments
// from a schema. It is pure: input is a parsed schema plus the text of any
// existing documents, output is a mapping of relative file names to file
// content; all I/O stays with the caller.
package docgen

import (
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Options controls one generation pass.
type Options struct {
	// Raw disables skipping of auto-generated CRUD root fields.
	Raw bool

	Logger *log.Logger
}

// Result is the output of one generation pass. Every value carries exactly
// one trailing newline; Documents holds only files touched by this pass.
type Result struct {
	Fragments map[string]string
	Documents map[string]string
}

// existingOperation records where a root field's operation currently lives,
// so its name and file placement stay sticky across runs.
type existingOperation struct {
	name string
	file string
}

// Generate runs one full pass over the schema: operations for every eligible
// root field merged into their documents, then fragments for every eligible
// composite type with mutual dependency cycles resolved. Running the pass
// twice with the first run's output as existing input is byte-identical.
func Generate(schema *ast.Schema, existing map[string]string, opts Options) *Result {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	inputTypes := inputTypeIndex(schema)
	index := indexExistingOperations(existing, logger)

	result := &Result{
		Fragments: map[string]string{},
		Documents: map[string]string{},
	}

	documents := make(map[string]string, len(existing))
	for name, text := range existing {
		documents[name] = text
	}

	roots := []struct {
		def  *ast.Definition
		kind ast.Operation
	}{
		{schema.Query, ast.Query},
		{schema.Mutation, ast.Mutation},
		{schema.Subscription, ast.Subscription},
	}

	for _, root := range roots {
		if root.def == nil {
			continue
		}
		for _, field := range root.def.Fields {
			if strings.HasPrefix(field.Name, "__") {
				continue
			}
			returnType := BaseTypeName(field.Type)
			if scaffoldTypePattern.MatchString(returnType) {
				continue
			}
			if !opts.Raw && crudFieldPattern.MatchString(field.Name) {
				logger.Debug("skipping auto-generated CRUD field", "field", field.Name)

				continue
			}

			reportUnknownArgumentTypes(schema, inputTypes, field, logger)

			name := field.Name
			file := DocumentFileName(returnType)
			if prior, ok := index[field.Name]; ok {
				name = prior.name
				file = prior.file
			}

			operation := BuildOperation(schema, root.kind, name, field)
			merged := MergeDocument(documents[file], operation, field.Name, logger)
			documents[file] = merged
			result.Documents[file] = merged
		}
	}

	graph := buildFragments(schema, logger)
	resolveCycles(schema, graph, logger)
	for _, typeName := range graph.order {
		result.Fragments[FragmentFileName(typeName)] = graph.fragments[typeName].Text + "\n"
	}

	return result
}

func buildFragments(schema *ast.Schema, logger *log.Logger) *fragmentGraph {
	typeNames := make([]string, 0, len(schema.Types))
	for name := range schema.Types {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	var fragments []*Fragment
	for _, name := range typeNames {
		def := schema.Types[name]
		if !fragmentEligible(schema, def) {
			continue
		}
		if fragment := BuildFragment(schema, def, logger); fragment != nil {
			fragments = append(fragments, fragment)
		}
	}

	return newFragmentGraph(fragments)
}

func fragmentEligible(schema *ast.Schema, def *ast.Definition) bool {
	if def.Kind != ast.Object && def.Kind != ast.Interface {
		return false
	}
	if strings.HasPrefix(def.Name, "__") {
		return false
	}
	if scaffoldTypePattern.MatchString(def.Name) {
		return false
	}
	if def == schema.Query || def == schema.Mutation || def == schema.Subscription {
		return false
	}

	return true
}

func inputTypeIndex(schema *ast.Schema) map[string]struct{} {
	index := map[string]struct{}{}
	for name, def := range schema.Types {
		if def.Kind == ast.InputObject {
			index[name] = struct{}{}
		}
	}

	return index
}

// reportUnknownArgumentTypes is diagnostic only: arguments referencing types
// absent from the schema still become plain variables.
func reportUnknownArgumentTypes(schema *ast.Schema, inputTypes map[string]struct{}, field *ast.FieldDefinition, logger *log.Logger) {
	for _, arg := range field.Arguments {
		base := BaseTypeName(arg.Type)
		if _, ok := inputTypes[base]; ok {
			continue
		}
		if schema.Types[base] == nil {
			logger.Debug("argument references a type missing from the schema",
				"field", field.Name, "argument", arg.Name, "type", base)
		}
	}
}

// indexExistingOperations scans all existing documents and maps each root
// field to the operation name and file it was last written under. Files are
// visited in name order so a root field duplicated across files resolves
// deterministically to the first.
func indexExistingOperations(existing map[string]string, logger *log.Logger) map[string]existingOperation {
	files := make([]string, 0, len(existing))
	for name := range existing {
		files = append(files, name)
	}
	sort.Strings(files)

	index := map[string]existingOperation{}
	for _, file := range files {
		doc, err := parser.ParseQuery(&ast.Source{Name: file, Input: existing[file]})
		if err != nil {
			logger.Warn("existing document does not parse, ignoring for operation index",
				"file", file, "err", err)

			continue
		}
		for _, op := range doc.Operations {
			rootField := firstFieldName(op.SelectionSet)
			if rootField == "" {
				continue
			}
			if _, ok := index[rootField]; ok {
				continue
			}
			name := op.Name
			if name == "" {
				name = rootField
			}
			index[rootField] = existingOperation{name: name, file: file}
		}
	}

	return index
}

package docgen

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// FragmentName returns the fragment name for a type: the type name with its
// first character lower-cased, plus the "Fragment" suffix.
func FragmentName(typeName string) string {
	return firstLower(typeName) + "Fragment"
}

// FragmentFileName returns the relative file name a type's fragment is written to.
func FragmentFileName(typeName string) string {
	return inflect.Dasherize(typeName) + ".fragment.gql"
}

// DocumentFileName returns the default relative file name for an operation
// document, derived from the operation's return type.
func DocumentFileName(typeName string) string {
	return inflect.Dasherize(typeName) + ".gql"
}

// aliasName builds the collision alias used when a fragment's minimal fields
// are inlined into another fragment: lowerCamel type name + capitalized field.
func aliasName(typeName, fieldName string) string {
	return firstLower(typeName) + titleCaser.String(fieldName)
}

func firstLower(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToLower(r)) + s[size:]
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

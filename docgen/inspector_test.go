package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestFormatType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  *ast.Type
		want string
	}{
		{
			name: "named",
			typ:  ast.NamedType("String", nil),
			want: "String",
		},
		{
			name: "non-null named",
			typ:  ast.NonNullNamedType("ID", nil),
			want: "ID!",
		},
		{
			name: "list of named",
			typ:  ast.ListType(ast.NamedType("String", nil), nil),
			want: "[String]",
		},
		{
			name: "non-null list of non-null named",
			typ:  ast.NonNullListType(ast.NonNullNamedType("String", nil), nil),
			want: "[String!]!",
		},
		{
			name: "nested lists",
			typ:  ast.ListType(ast.NonNullListType(ast.NamedType("Int", nil), nil), nil),
			want: "[[Int]!]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, FormatType(tt.typ))
		})
	}
}

func TestFormatType_roundTripsDeclaredArguments(t *testing.T) {
	t.Parallel()

	schema := gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: `
		input UserFilter { name: String }
		type User { id: ID! }
		type Query {
			users(ids: [ID!]!, filter: UserFilter, limit: Int! = 10, tags: [[String]!]): [User!]
		}
	`})

	want := map[string]string{
		"ids":    "[ID!]!",
		"filter": "UserFilter",
		"limit":  "Int!",
		"tags":   "[[String]!]",
	}

	field := schema.Query.Fields.ForName("users")
	for _, arg := range field.Arguments {
		assert.Equal(t, want[arg.Name], FormatType(arg.Type), "argument %s", arg.Name)
	}
}

func TestBaseTypeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "User", BaseTypeName(ast.NonNullListType(ast.NonNullNamedType("User", nil), nil)))
	assert.Equal(t, "String", BaseTypeName(ast.NamedType("String", nil)))
}

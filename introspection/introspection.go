// Package introspection fetches a remote schema shape via the standard
// GraphQL introspection query and renders the result back into SDL, which is
// then loaded like any local schema file.
package introspection

import (
	"strings"
)

// QueryDocument is the standard introspection query, with the TypeRef
// fragment unrolled deep enough for heavily wrapped list/non-null types.
const QueryDocument = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types {
      ...FullType
    }
  }
}

fragment FullType on __Type {
  kind
  name
  fields(includeDeprecated: true) {
    name
    args {
      ...InputValue
    }
    type {
      ...TypeRef
    }
  }
  inputFields {
    ...InputValue
  }
  interfaces {
    ...TypeRef
  }
  enumValues(includeDeprecated: true) {
    name
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment InputValue on __InputValue {
  name
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
            }
          }
        }
      }
    }
  }
}
`

type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
	TypeKindList        TypeKind = "LIST"
	TypeKindNonNull     TypeKind = "NON_NULL"
)

// Query is the introspection response shape.
type Query struct {
	Schema Schema `json:"__schema"`
}

type Schema struct {
	QueryType        *RootTypeRef `json:"queryType"`
	MutationType     *RootTypeRef `json:"mutationType"`
	SubscriptionType *RootTypeRef `json:"subscriptionType"`
	Types            []FullType   `json:"types"`
}

type RootTypeRef struct {
	Name string `json:"name"`
}

type FullType struct {
	Kind          TypeKind     `json:"kind"`
	Name          string       `json:"name"`
	Fields        []FieldValue `json:"fields"`
	InputFields   []InputValue `json:"inputFields"`
	Interfaces    []TypeRef    `json:"interfaces"`
	EnumValues    []EnumValue  `json:"enumValues"`
	PossibleTypes []TypeRef    `json:"possibleTypes"`
}

type FieldValue struct {
	Name string       `json:"name"`
	Args []InputValue `json:"args"`
	Type TypeRef      `json:"type"`
}

type InputValue struct {
	Name         string  `json:"name"`
	Type         TypeRef `json:"type"`
	DefaultValue *string `json:"defaultValue"`
}

type EnumValue struct {
	Name string `json:"name"`
}

// TypeRef is a type reference, possibly wrapped in LIST/NON_NULL layers.
type TypeRef struct {
	Kind   TypeKind `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

// String renders the reference in SDL notation.
func (t TypeRef) String() string {
	switch t.Kind {
	case TypeKindNonNull:
		if t.OfType != nil {
			return t.OfType.String() + "!"
		}
	case TypeKindList:
		if t.OfType != nil {
			return "[" + t.OfType.String() + "]"
		}
	}
	if t.Name != nil {
		return *t.Name
	}

	return ""
}

var builtinScalars = map[string]struct{}{
	"Int":     {},
	"Float":   {},
	"String":  {},
	"Boolean": {},
	"ID":      {},
}

// SDL renders an introspection result back into schema definition language.
// Type and field order is kept exactly as the server reported it, so a
// generation pass over an introspected schema is as deterministic as one
// over a local file.
func SDL(query Query) string {
	var sb strings.Builder

	schema := query.Schema
	sb.WriteString("schema {\n")
	if schema.QueryType != nil {
		sb.WriteString("  query: " + schema.QueryType.Name + "\n")
	}
	if schema.MutationType != nil {
		sb.WriteString("  mutation: " + schema.MutationType.Name + "\n")
	}
	if schema.SubscriptionType != nil {
		sb.WriteString("  subscription: " + schema.SubscriptionType.Name + "\n")
	}
	sb.WriteString("}\n")

	for _, typ := range schema.Types {
		if strings.HasPrefix(typ.Name, "__") {
			continue
		}
		writeType(&sb, typ)
	}

	return sb.String()
}

func writeType(sb *strings.Builder, typ FullType) {
	switch typ.Kind {
	case TypeKindScalar:
		if _, builtin := builtinScalars[typ.Name]; builtin {
			return
		}
		sb.WriteString("\nscalar " + typ.Name + "\n")

	case TypeKindObject:
		sb.WriteString("\ntype " + typ.Name)
		if len(typ.Interfaces) > 0 {
			names := make([]string, 0, len(typ.Interfaces))
			for _, iface := range typ.Interfaces {
				names = append(names, iface.String())
			}
			sb.WriteString(" implements " + strings.Join(names, " & "))
		}
		writeFields(sb, typ.Fields)

	case TypeKindInterface:
		sb.WriteString("\ninterface " + typ.Name)
		writeFields(sb, typ.Fields)

	case TypeKindUnion:
		names := make([]string, 0, len(typ.PossibleTypes))
		for _, member := range typ.PossibleTypes {
			names = append(names, member.String())
		}
		sb.WriteString("\nunion " + typ.Name + " = " + strings.Join(names, " | ") + "\n")

	case TypeKindEnum:
		sb.WriteString("\nenum " + typ.Name + " {\n")
		for _, value := range typ.EnumValues {
			sb.WriteString("  " + value.Name + "\n")
		}
		sb.WriteString("}\n")

	case TypeKindInputObject:
		if len(typ.InputFields) == 0 {
			sb.WriteString("\ninput " + typ.Name + "\n")

			return
		}
		sb.WriteString("\ninput " + typ.Name + " {\n")
		for _, field := range typ.InputFields {
			sb.WriteString("  " + field.Name + ": " + field.Type.String())
			if field.DefaultValue != nil {
				sb.WriteString(" = " + *field.DefaultValue)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("}\n")
	}
}

func writeFields(sb *strings.Builder, fields []FieldValue) {
	if len(fields) == 0 {
		sb.WriteString("\n")

		return
	}
	sb.WriteString(" {\n")
	for _, field := range fields {
		sb.WriteString("  " + field.Name)
		if len(field.Args) > 0 {
			args := make([]string, 0, len(field.Args))
			for _, arg := range field.Args {
				rendered := arg.Name + ": " + arg.Type.String()
				if arg.DefaultValue != nil {
					rendered += " = " + *arg.DefaultValue
				}
				args = append(args, rendered)
			}
			sb.WriteString("(" + strings.Join(args, ", ") + ")")
		}
		sb.WriteString(": " + field.Type.String() + "\n")
	}
	sb.WriteString("}\n")
}

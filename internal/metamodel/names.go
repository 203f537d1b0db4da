package metamodel

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// typeName converts a table name to a GraphQL type name (PascalCase singular).
// Example: "user_profiles" -> "UserProfile"
func typeName(table string) string {
	return toPascalCase(inflection.Singular(table))
}

// queryFieldName converts a table name to a root query field name
// (camelCase plural). Example: "user_profiles" -> "userProfiles"
func queryFieldName(table string) string {
	return inflection.Plural(toCamelCase(table))
}

// fieldName converts a column name to a GraphQL field name (camelCase).
func fieldName(column string) string {
	return toCamelCase(column)
}

// manyToOneFieldName derives an association field name from the FK column
// with common suffixes stripped. Example: "author_id" -> "author"
func manyToOneFieldName(fkColumn string) string {
	name := fkColumn
	for _, suffix := range []string{"_id", "_fk"} {
		if strings.HasSuffix(strings.ToLower(name), suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	return toCamelCase(name)
}

// oneToManyFieldName derives the reverse association field name. When the
// remote table holds a single FK to us, the pluralized table name is used;
// otherwise the FK column prefixes it for disambiguation.
// Example: "comments" -> "comments"; fkColumn "author_id" on "posts" -> "authorPosts"
func oneToManyFieldName(remoteTable, fkColumn string, isOnlyFK bool) string {
	plural := inflection.Plural(toCamelCase(remoteTable))
	if isOnlyFK {
		return plural
	}
	prefix := manyToOneFieldName(fkColumn)
	if len(plural) > 0 {
		return prefix + strings.ToUpper(plural[:1]) + plural[1:]
	}
	return prefix
}

func toPascalCase(s string) string {
	parts := strings.Split(s, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "")
}

func toCamelCase(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

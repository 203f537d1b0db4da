// Package sqltype maps SQL column data types to GraphQL scalar categories.
package sqltype

import "strings"

// Kind is the GraphQL scalar category of a SQL column.
type Kind int

const (
	// KindString covers text, binary, date/time, and unrecognized types.
	KindString Kind = iota
	// KindInt covers integer types.
	KindInt
	// KindFloat covers floating-point and fixed-point types.
	KindFloat
	// KindBoolean covers BOOL and BOOLEAN.
	KindBoolean
	// KindJSON covers the JSON column type.
	KindJSON
)

var kindByType = map[string]Kind{
	"TINYINT": KindInt, "SMALLINT": KindInt, "MEDIUMINT": KindInt,
	"INT": KindInt, "INTEGER": KindInt, "BIGINT": KindInt,
	"SERIAL": KindInt, "BIT": KindInt,

	"FLOAT": KindFloat, "DOUBLE": KindFloat,
	"DECIMAL": KindFloat, "NUMERIC": KindFloat,

	"BOOL": KindBoolean, "BOOLEAN": KindBoolean,

	"JSON": KindJSON,
}

// Map converts a SQL data type to its Kind. Matching is case-insensitive
// and ignores size specifiers such as (10,2) or (255), so both
// INFORMATION_SCHEMA DATA_TYPE and COLUMN_TYPE values work.
func Map(sqlType string) Kind {
	if idx := strings.Index(sqlType, "("); idx != -1 {
		sqlType = sqlType[:idx]
	}
	if k, ok := kindByType[strings.ToUpper(strings.TrimSpace(sqlType))]; ok {
		return k
	}
	return KindString
}

// String returns the GraphQL scalar name used in schema generation.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBoolean:
		return "Boolean"
	case KindJSON:
		return "JSON"
	default:
		return "String"
	}
}

// FilterTypeName returns the name of the filter input type used for this
// kind in where conditions. JSON columns filter as strings.
func (k Kind) FilterTypeName() string {
	switch k {
	case KindInt:
		return "IntFilter"
	case KindFloat:
		return "FloatFilter"
	case KindBoolean:
		return "BooleanFilter"
	default:
		return "StringFilter"
	}
}

package resolver

import (
	"fmt"
	"sort"
	"strings"

	"graphql-pagequery/internal/metamodel"
)

// dedupeRows removes duplicate rows from a fetched page, preserving
// order of first occurrence. Identity is the primary key values; for
// entities without a primary key the full row image is used. The page
// may come back shorter than the window after deduplication.
func dedupeRows(entity *metamodel.Entity, rows []map[string]interface{}) []map[string]interface{} {
	if len(rows) < 2 {
		return rows
	}

	var keyFields []string
	for _, attr := range entity.PrimaryKey() {
		keyFields = append(keyFields, attr.FieldName)
	}

	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, row := range rows {
		key := identityKey(row, keyFields)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

func identityKey(row map[string]interface{}, keyFields []string) string {
	fields := keyFields
	if len(fields) == 0 {
		fields = make([]string, 0, len(row))
		for name := range row {
			fields = append(fields, name)
		}
		sort.Strings(fields)
	}

	var b strings.Builder
	for _, name := range fields {
		fmt.Fprintf(&b, "%v\x00", row[name])
	}
	return b.String()
}

package resolver

import (
	"graphql-pagequery/internal/dbexec"
	"graphql-pagequery/internal/metamodel"
)

// scanRows reads all rows into maps keyed by GraphQL field name.
func scanRows(rows dbexec.Rows, entity *metamodel.Entity) ([]map[string]interface{}, error) {
	var results []map[string]interface{}

	for rows.Next() {
		values := make([]interface{}, len(entity.Attributes))
		valuePtrs := make([]interface{}, len(entity.Attributes))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(entity.Attributes))
		for i, attr := range entity.Attributes {
			row[attr.FieldName] = convertValue(values[i])
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// scanTotal reads a single COUNT(*) result.
func scanTotal(rows dbexec.Rows) (int64, error) {
	var total int64
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, err
		}
	}
	return total, rows.Err()
}

func convertValue(val interface{}) interface{} {
	if val == nil {
		return nil
	}
	if b, ok := val.([]byte); ok {
		return string(b)
	}
	return val
}

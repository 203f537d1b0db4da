package metamodel

import (
	"context"
	"fmt"
	"strings"

	"graphql-pagequery/internal/dbexec"
	"graphql-pagequery/internal/sqltype"
)

// Load discovers the entity metamodel for a database from its
// INFORMATION_SCHEMA tables.
func Load(ctx context.Context, exec dbexec.QueryExecutor, database string) (*Model, error) {
	tables, err := loadTables(ctx, exec, database)
	if err != nil {
		return nil, fmt.Errorf("loading tables: %w", err)
	}

	model := &Model{Database: database}
	fksByTable := make(map[string][]foreignKey, len(tables))

	for _, table := range tables {
		columns, err := loadColumns(ctx, exec, database, table)
		if err != nil {
			return nil, fmt.Errorf("loading columns for %s: %w", table, err)
		}
		primaryKeys, err := loadPrimaryKeys(ctx, exec, database, table)
		if err != nil {
			return nil, fmt.Errorf("loading primary keys for %s: %w", table, err)
		}
		foreignKeys, err := loadForeignKeys(ctx, exec, database, table)
		if err != nil {
			return nil, fmt.Errorf("loading foreign keys for %s: %w", table, err)
		}
		fksByTable[table] = foreignKeys

		pkSet := make(map[string]bool, len(primaryKeys))
		for _, pk := range primaryKeys {
			pkSet[pk] = true
		}
		for i := range columns {
			columns[i].IsPrimaryKey = pkSet[columns[i].Column]
		}

		model.Entities = append(model.Entities, Entity{
			Table:          table,
			TypeName:       typeName(table),
			QueryFieldName: queryFieldName(table),
			Attributes:     columns,
		})
	}

	buildRelationships(model, fksByTable)

	if err := model.index(); err != nil {
		return nil, err
	}
	return model, nil
}

// foreignKey is one column pair of a FK constraint.
type foreignKey struct {
	ConstraintName   string
	ColumnName       string
	ReferencedTable  string
	ReferencedColumn string
}

func loadTables(ctx context.Context, exec dbexec.QueryExecutor, database string) ([]string, error) {
	query := `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = ?
		AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`

	rows, err := exec.QueryContext(ctx, query, database)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func loadColumns(ctx context.Context, exec dbexec.QueryExecutor, database, table string) ([]Attribute, error) {
	query := `
		SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`

	rows, err := exec.QueryContext(ctx, query, database, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var attrs []Attribute
	for rows.Next() {
		var attr Attribute
		var isNullable string
		if err := rows.Scan(&attr.Column, &attr.DataType, &isNullable); err != nil {
			return nil, err
		}
		attr.IsNullable = strings.EqualFold(isNullable, "YES")
		attr.Kind = sqltype.Map(attr.DataType)
		attr.FieldName = fieldName(attr.Column)
		attrs = append(attrs, attr)
	}
	return attrs, rows.Err()
}

func loadPrimaryKeys(ctx context.Context, exec dbexec.QueryExecutor, database, table string) ([]string, error) {
	query := `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
		AND CONSTRAINT_NAME = 'PRIMARY'
		ORDER BY ORDINAL_POSITION
	`

	rows, err := exec.QueryContext(ctx, query, database, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		keys = append(keys, name)
	}
	return keys, rows.Err()
}

func loadForeignKeys(ctx context.Context, exec dbexec.QueryExecutor, database, table string) ([]foreignKey, error) {
	query := `
		SELECT COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME, CONSTRAINT_NAME
		FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = ?
			AND TABLE_NAME = ?
			AND REFERENCED_TABLE_NAME IS NOT NULL
		ORDER BY CONSTRAINT_NAME, ORDINAL_POSITION
	`

	rows, err := exec.QueryContext(ctx, query, database, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var fks []foreignKey
	for rows.Next() {
		var fk foreignKey
		if err := rows.Scan(&fk.ColumnName, &fk.ReferencedTable, &fk.ReferencedColumn, &fk.ConstraintName); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// buildRelationships derives association fields from foreign keys. Each FK
// constraint produces a many-to-one field on the owning entity and a
// one-to-many field on the referenced entity.
func buildRelationships(model *Model, fksByTable map[string][]foreignKey) {
	entities := make(map[string]*Entity, len(model.Entities))
	for i := range model.Entities {
		entities[model.Entities[i].Table] = &model.Entities[i]
	}

	for _, entity := range model.Entities {
		local := entities[entity.Table]
		fks := fksByTable[entity.Table]

		// Group constraint columns in order.
		var order []string
		grouped := make(map[string][]foreignKey)
		for _, fk := range fks {
			if _, seen := grouped[fk.ConstraintName]; !seen {
				order = append(order, fk.ConstraintName)
			}
			grouped[fk.ConstraintName] = append(grouped[fk.ConstraintName], fk)
		}

		// Count FKs per referenced table to decide reverse field naming.
		refCount := make(map[string]int)
		for _, name := range order {
			refCount[grouped[name][0].ReferencedTable]++
		}

		for _, name := range order {
			group := grouped[name]
			remote, ok := entities[group[0].ReferencedTable]
			if !ok {
				continue
			}

			localCols := make([]string, len(group))
			remoteCols := make([]string, len(group))
			for i, fk := range group {
				localCols[i] = fk.ColumnName
				remoteCols[i] = fk.ReferencedColumn
			}

			local.Relationships = append(local.Relationships, Relationship{
				FieldName:     manyToOneFieldName(localCols[0]),
				RemoteTable:   remote.Table,
				LocalColumns:  localCols,
				RemoteColumns: remoteCols,
				IsManyToOne:   true,
			})

			isOnlyFK := refCount[remote.Table] == 1
			remote.Relationships = append(remote.Relationships, Relationship{
				FieldName:     oneToManyFieldName(local.Table, localCols[0], isOnlyFK),
				RemoteTable:   local.Table,
				LocalColumns:  remoteCols,
				RemoteColumns: localCols,
				IsOneToMany:   true,
			})
		}
	}
}

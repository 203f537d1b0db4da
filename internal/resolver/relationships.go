package resolver

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/graphql-go/graphql"

	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/planner"
	"graphql-pagequery/internal/qerr"
	"graphql-pagequery/internal/sqlutil"
)

// makeManyToOneResolver resolves an association to a single parent row.
func (r *Resolver) makeManyToOneResolver(entity *metamodel.Entity, rel *metamodel.Relationship) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		rows, err := r.fetchRelated(p, entity, rel)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, nil
		}
		return rows[0], nil
	}
}

// makeOneToManyResolver resolves an association to a list of child rows.
func (r *Resolver) makeOneToManyResolver(entity *metamodel.Entity, rel *metamodel.Relationship) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		return r.fetchRelated(p, entity, rel)
	}
}

func (r *Resolver) fetchRelated(p graphql.ResolveParams, entity *metamodel.Entity, rel *metamodel.Relationship) ([]map[string]interface{}, error) {
	source, ok := p.Source.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected source type for %s.%s", entity.TypeName, rel.FieldName)
	}
	remote, err := r.findEntity(rel.RemoteTable)
	if err != nil {
		return nil, err
	}

	where := sq.Eq{}
	for i, localCol := range rel.LocalColumns {
		attr := attributeByColumn(entity, localCol)
		if attr == nil {
			return nil, fmt.Errorf("relationship %s.%s references unknown column %s", entity.TypeName, rel.FieldName, localCol)
		}
		value := source[attr.FieldName]
		if value == nil {
			return nil, nil
		}
		where[sqlutil.QuoteIdentifier(rel.RemoteColumns[i])] = value
	}

	query, err := planner.BuildContentQuery(remote, []sq.Sqlizer{where}, nil)
	if err != nil {
		return nil, err
	}

	rows, err := r.executor.QueryContext(p.Context, query.SQL, query.Args...)
	if err != nil {
		return nil, &qerr.BackendError{Op: "content", Err: err}
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanRows(rows, remote)
}

func attributeByColumn(entity *metamodel.Entity, column string) *metamodel.Attribute {
	for i := range entity.Attributes {
		if entity.Attributes[i].Column == column {
			return &entity.Attributes[i]
		}
	}
	return nil
}

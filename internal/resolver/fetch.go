package resolver

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/graphql-go/graphql"

	"graphql-pagequery/internal/dbexec"
	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/planner"
	"graphql-pagequery/internal/qerr"
)

// makePagedResolver creates the resolve function for an entity's paged
// query field.
func (r *Resolver) makePagedResolver(entity *metamodel.Entity) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		field := firstFieldAST(p.Info.FieldASTs)
		if field == nil {
			return nil, fmt.Errorf("missing field AST")
		}

		sel, err := analyzeSelection(field, p.Args, r.names, r.defaultDistinct)
		if err != nil {
			return nil, err
		}

		result := make(map[string]interface{}, 3)

		if sel.WantsRecords {
			records, err := r.fetchRecords(p.Context, entity, sel)
			if err != nil {
				return nil, err
			}
			result[r.names.Records] = records
		}

		if sel.WantsTotal || sel.WantsPages {
			// The count conditions are rebuilt from the arguments rather
			// than shared with the content query. When records are not
			// selected the count intentionally runs unfiltered.
			var conditions []sq.Sqlizer
			if sel.WantsRecords {
				conditions, err = r.predicates.ResolveAll(entity, sel.Args)
				if err != nil {
					return nil, err
				}
			}
			total, err := r.fetchTotal(p.Context, entity, conditions)
			if err != nil {
				return nil, err
			}
			if sel.WantsTotal {
				result[r.names.Total] = total
			}
			if sel.WantsPages {
				result[r.names.Pages] = planner.Pages(total, sel.Window)
			}
		}

		return result, nil
	}
}

// fetchRecords runs the content query for one page and deduplicates the
// result in memory when distinct is in effect.
func (r *Resolver) fetchRecords(ctx context.Context, entity *metamodel.Entity, sel *selection) ([]map[string]interface{}, error) {
	conditions, err := r.predicates.ResolveAll(entity, sel.Args)
	if err != nil {
		return nil, err
	}

	query, err := planner.BuildContentQuery(entity, conditions, sel.Window)
	if err != nil {
		return nil, &qerr.PredicateError{Argument: r.names.Where, Err: err}
	}

	hints := planner.ContentHints(sel.Distinct)
	rows, err := dbexec.QueryWithHints(ctx, r.executor, hints.Map(), query.SQL, query.Args...)
	if err != nil {
		return nil, &qerr.BackendError{Op: "content", Err: err}
	}
	defer func() {
		_ = rows.Close()
	}()

	records, err := scanRows(rows, entity)
	if err != nil {
		return nil, &qerr.BackendError{Op: "content", Err: err}
	}

	if sel.Distinct {
		fetched := len(records)
		records = dedupeRows(entity, records)
		r.metrics.RecordDeduped(ctx, entity.TypeName, fetched-len(records))
	}
	r.metrics.RecordResults(ctx, entity.TypeName, len(records))
	return records, nil
}

// fetchTotal runs the count query over the matching set.
func (r *Resolver) fetchTotal(ctx context.Context, entity *metamodel.Entity, conditions []sq.Sqlizer) (int64, error) {
	query, err := planner.BuildCountQuery(entity, conditions)
	if err != nil {
		return 0, &qerr.PredicateError{Argument: r.names.Where, Err: err}
	}

	rows, err := r.executor.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		return 0, &qerr.BackendError{Op: "count", Err: err}
	}
	defer func() {
		_ = rows.Close()
	}()

	total, err := scanTotal(rows)
	if err != nil {
		return 0, &qerr.BackendError{Op: "count", Err: err}
	}
	return total, nil
}

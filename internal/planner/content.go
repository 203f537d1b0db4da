package planner

import (
	sq "github.com/Masterminds/squirrel"

	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/sqlutil"
)

// BuildContentQuery plans the row-fetching query for one page. The window
// applies only when present; without it the query returns the full
// matching set. Deduplication is not expressed in SQL, so the statement
// never carries DISTINCT.
func BuildContentQuery(entity *metamodel.Entity, conditions []sq.Sqlizer, window *PageWindow) (SQLQuery, error) {
	builder := sq.Select(columnNames(entity)...).
		From(sqlutil.QuoteIdentifier(entity.Table))
	for _, cond := range conditions {
		builder = builder.Where(cond)
	}
	if window != nil {
		builder = builder.
			Limit(uint64(window.Limit)).
			Offset(uint64(window.Offset()))
	}

	query, args, err := builder.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return SQLQuery{}, err
	}
	return SQLQuery{SQL: query, Args: args}, nil
}

func columnNames(entity *metamodel.Entity) []string {
	names := make([]string, len(entity.Attributes))
	for i, attr := range entity.Attributes {
		names[i] = sqlutil.QuoteIdentifier(attr.Column)
	}
	return names
}

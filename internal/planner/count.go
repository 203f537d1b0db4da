package planner

import (
	sq "github.com/Masterminds/squirrel"

	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/sqlutil"
)

// BuildCountQuery plans the total-count query over the matching set. The
// conditions are supplied by the caller and may legitimately be empty, in
// which case the whole table is counted. Pagination never applies here.
func BuildCountQuery(entity *metamodel.Entity, conditions []sq.Sqlizer) (SQLQuery, error) {
	base := sq.Select(columnNames(entity)...).
		From(sqlutil.QuoteIdentifier(entity.Table))
	for _, cond := range conditions {
		base = base.Where(cond)
	}

	baseSQL, baseArgs, err := base.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return SQLQuery{}, err
	}

	return SQLQuery{
		SQL:  "SELECT COUNT(*) FROM (" + baseSQL + ") AS `__count`",
		Args: baseArgs,
	}, nil
}

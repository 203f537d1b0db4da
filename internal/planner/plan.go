// Package planner builds the SQL statements behind a paged query: the
// content query that fetches one page of rows and the count query that
// totals the matching set.
package planner

import (
	"math"

	"graphql-pagequery/internal/dbexec"
)

// DefaultFetchSize is the advisory driver fetch size attached to content
// queries.
const DefaultFetchSize = 1000

// SQLQuery represents a planned SQL statement with bound args.
type SQLQuery struct {
	SQL  string
	Args []interface{}
}

// PageWindow is a 1-based pagination window.
type PageWindow struct {
	Start int
	Limit int
}

// Offset returns the row offset of the window.
func (w PageWindow) Offset() int {
	return (w.Start - 1) * w.Limit
}

// ExecutionHints are the advisory hints attached to a content query.
type ExecutionHints struct {
	ReadOnly  bool
	FetchSize int
	Cacheable bool
	// Distinct marks that deduplication happens in the application.
	// Only then does the hint set carry the DISTINCT pass-through key,
	// forced off so SQL-level DISTINCT stays out of the statement.
	Distinct bool
}

// ContentHints returns the hints for a content query.
func ContentHints(distinct bool) ExecutionHints {
	return ExecutionHints{
		ReadOnly:  true,
		FetchSize: DefaultFetchSize,
		Cacheable: false,
		Distinct:  distinct,
	}
}

// Map converts the hints to the executor's advisory form.
func (h ExecutionHints) Map() dbexec.Hints {
	m := dbexec.Hints{
		dbexec.HintReadOnly:  h.ReadOnly,
		dbexec.HintFetchSize: h.FetchSize,
		dbexec.HintCacheable: h.Cacheable,
	}
	if h.Distinct {
		m[dbexec.HintPassDistinctThrough] = false
	}
	return m
}

// Pages computes the page count for a total row count. Without a window
// the result is a single page when any rows exist, otherwise zero.
func Pages(total int64, window *PageWindow) int64 {
	if window == nil {
		if total > 0 {
			return 1
		}
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(window.Limit)))
}

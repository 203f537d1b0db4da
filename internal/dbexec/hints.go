package dbexec

import "context"

// Hint keys carried alongside read queries. Hints are advisory: an
// executor may honor them, translate them, or ignore them entirely.
const (
	// HintReadOnly marks the query as read-only (bool).
	HintReadOnly = "query.readOnly"
	// HintFetchSize suggests a driver fetch size (int).
	HintFetchSize = "query.fetchSize"
	// HintCacheable controls backend result caching (bool).
	HintCacheable = "query.cacheable"
	// HintPassDistinctThrough controls whether a logical DISTINCT is
	// forwarded to the SQL statement (bool).
	HintPassDistinctThrough = "query.passDistinctThrough"
)

// Hints is an advisory key/value set attached to a query.
type Hints map[string]any

// HintedExecutor is implemented by executors that act on execution hints.
type HintedExecutor interface {
	QueryExecutor
	QueryHintedContext(ctx context.Context, hints Hints, query string, args ...any) (Rows, error)
}

// QueryWithHints runs a read query through exec, delivering hints when the
// executor supports them and falling back to a plain query otherwise.
func QueryWithHints(ctx context.Context, exec QueryExecutor, hints Hints, query string, args ...any) (Rows, error) {
	if he, ok := exec.(HintedExecutor); ok && len(hints) > 0 {
		return he.QueryHintedContext(ctx, hints, query, args...)
	}
	return exec.QueryContext(ctx, query, args...)
}

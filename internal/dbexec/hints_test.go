package dbexec

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	queries []string
}

func (e *recordingExecutor) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	e.queries = append(e.queries, query)
	return nil, nil
}

func (e *recordingExecutor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, nil
}

type hintRecordingExecutor struct {
	recordingExecutor
	hints []Hints
}

func (e *hintRecordingExecutor) QueryHintedContext(ctx context.Context, hints Hints, query string, args ...any) (Rows, error) {
	e.hints = append(e.hints, hints)
	return e.QueryContext(ctx, query, args...)
}

func TestQueryWithHintsFallsBackForPlainExecutor(t *testing.T) {
	exec := &recordingExecutor{}
	hints := Hints{HintReadOnly: true, HintFetchSize: 1000}

	_, err := QueryWithHints(context.Background(), exec, hints, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT 1"}, exec.queries)
}

func TestQueryWithHintsDeliversHints(t *testing.T) {
	exec := &hintRecordingExecutor{}
	hints := Hints{HintReadOnly: true, HintCacheable: false}

	_, err := QueryWithHints(context.Background(), exec, hints, "SELECT 1")
	require.NoError(t, err)
	require.Len(t, exec.hints, 1)
	assert.Equal(t, true, exec.hints[0][HintReadOnly])
	assert.Equal(t, false, exec.hints[0][HintCacheable])
	assert.Equal(t, []string{"SELECT 1"}, exec.queries)
}

func TestQueryWithHintsEmptyHintsUsePlainPath(t *testing.T) {
	exec := &hintRecordingExecutor{}

	_, err := QueryWithHints(context.Background(), exec, nil, "SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, exec.hints)
	assert.Equal(t, []string{"SELECT 1"}, exec.queries)
}

func TestStandardExecutorNilDB(t *testing.T) {
	exec := NewStandardExecutor(nil)
	_, err := exec.QueryContext(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

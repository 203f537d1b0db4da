package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/sqltype"
)

func entityWithPK(t *testing.T) *metamodel.Entity {
	t.Helper()
	model, err := metamodel.NewModel("library",
		metamodel.Entity{
			Table:          "books",
			TypeName:       "Book",
			QueryFieldName: "books",
			Attributes: []metamodel.Attribute{
				{Column: "id", FieldName: "id", Kind: sqltype.KindInt, IsPrimaryKey: true},
				{Column: "title", FieldName: "title", Kind: sqltype.KindString},
			},
		},
	)
	require.NoError(t, err)
	entity, _ := model.EntityByTable("books")
	return entity
}

func entityWithoutPK(t *testing.T) *metamodel.Entity {
	t.Helper()
	model, err := metamodel.NewModel("library",
		metamodel.Entity{
			Table:          "log_lines",
			TypeName:       "LogLine",
			QueryFieldName: "logLines",
			Attributes: []metamodel.Attribute{
				{Column: "message", FieldName: "message", Kind: sqltype.KindString},
				{Column: "level", FieldName: "level", Kind: sqltype.KindString},
			},
		},
	)
	require.NoError(t, err)
	entity, _ := model.EntityByTable("log_lines")
	return entity
}

func TestDedupeRowsByPrimaryKey(t *testing.T) {
	entity := entityWithPK(t)
	rows := []map[string]interface{}{
		{"id": 1, "title": "Dune"},
		{"id": 2, "title": "Dune Messiah"},
		{"id": 1, "title": "Dune"},
		{"id": 3, "title": "Children of Dune"},
		{"id": 2, "title": "Dune Messiah"},
	}

	out := dedupeRows(entity, rows)
	require.Len(t, out, 3)
	assert.Equal(t, 1, out[0]["id"])
	assert.Equal(t, 2, out[1]["id"])
	assert.Equal(t, 3, out[2]["id"])
}

func TestDedupeRowsShorterPageAccepted(t *testing.T) {
	entity := entityWithPK(t)
	rows := []map[string]interface{}{
		{"id": 7, "title": "Dune"},
		{"id": 7, "title": "Dune"},
		{"id": 7, "title": "Dune"},
	}

	out := dedupeRows(entity, rows)
	assert.Len(t, out, 1)
}

func TestDedupeRowsFullRowFallback(t *testing.T) {
	entity := entityWithoutPK(t)
	rows := []map[string]interface{}{
		{"message": "started", "level": "info"},
		{"message": "started", "level": "info"},
		{"message": "started", "level": "warn"},
	}

	out := dedupeRows(entity, rows)
	require.Len(t, out, 2)
	assert.Equal(t, "info", out[0]["level"])
	assert.Equal(t, "warn", out[1]["level"])
}

func TestDedupeRowsNoDuplicates(t *testing.T) {
	entity := entityWithPK(t)
	rows := []map[string]interface{}{
		{"id": 1, "title": "a"},
		{"id": 2, "title": "b"},
	}

	out := dedupeRows(entity, rows)
	assert.Len(t, out, 2)
}

func TestDedupeRowsEmpty(t *testing.T) {
	entity := entityWithPK(t)
	assert.Empty(t, dedupeRows(entity, nil))
}

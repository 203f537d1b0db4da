package metamodel

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphql-pagequery/internal/dbexec"
	"graphql-pagequery/internal/sqltype"
)

func TestLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM INFORMATION_SCHEMA.TABLES").
		WithArgs("library").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).
			AddRow("authors").
			AddRow("books"))

	// authors
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.COLUMNS").
		WithArgs("library", "authors").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "IS_NULLABLE"}).
			AddRow("id", "bigint", "NO").
			AddRow("full_name", "varchar", "NO"))
	mock.ExpectQuery("CONSTRAINT_NAME = 'PRIMARY'").
		WithArgs("library", "authors").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id"))
	mock.ExpectQuery("REFERENCED_TABLE_NAME IS NOT NULL").
		WithArgs("library", "authors").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME", "CONSTRAINT_NAME"}))

	// books
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.COLUMNS").
		WithArgs("library", "books").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "IS_NULLABLE"}).
			AddRow("id", "bigint", "NO").
			AddRow("title", "varchar", "NO").
			AddRow("author_id", "bigint", "YES"))
	mock.ExpectQuery("CONSTRAINT_NAME = 'PRIMARY'").
		WithArgs("library", "books").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id"))
	mock.ExpectQuery("REFERENCED_TABLE_NAME IS NOT NULL").
		WithArgs("library", "books").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME", "CONSTRAINT_NAME"}).
			AddRow("author_id", "authors", "id", "books_ibfk_1"))

	model, err := Load(context.Background(), dbexec.NewStandardExecutor(db), "library")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, model.Entities, 2)

	authors, ok := model.EntityByTable("authors")
	require.True(t, ok)
	assert.Equal(t, "Author", authors.TypeName)
	assert.Equal(t, "authors", authors.QueryFieldName)

	name, ok := authors.AttributeByField("fullName")
	require.True(t, ok)
	assert.Equal(t, "full_name", name.Column)
	assert.Equal(t, sqltype.KindString, name.Kind)
	assert.False(t, name.IsPrimaryKey)

	pk := authors.PrimaryKey()
	require.Len(t, pk, 1)
	assert.Equal(t, "id", pk[0].Column)

	books, ok := model.EntityByTable("books")
	require.True(t, ok)
	assert.Equal(t, "Book", books.TypeName)

	author, ok := books.RelationshipByField("author")
	require.True(t, ok)
	assert.True(t, author.IsManyToOne)
	assert.Equal(t, "authors", author.RemoteTable)
	assert.Equal(t, []string{"author_id"}, author.LocalColumns)
	assert.Equal(t, []string{"id"}, author.RemoteColumns)

	reverse, ok := authors.RelationshipByField("books")
	require.True(t, ok)
	assert.True(t, reverse.IsOneToMany)
	assert.Equal(t, "books", reverse.RemoteTable)
	assert.Equal(t, []string{"id"}, reverse.LocalColumns)
	assert.Equal(t, []string{"author_id"}, reverse.RemoteColumns)
}

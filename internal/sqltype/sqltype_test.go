package sqltype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	tests := []struct {
		sqlType string
		want    Kind
	}{
		{"int", KindInt},
		{"BIGINT", KindInt},
		{"tinyint(1)", KindInt},
		{"decimal(10,2)", KindFloat},
		{"double", KindFloat},
		{"boolean", KindBoolean},
		{"json", KindJSON},
		{"varchar(255)", KindString},
		{"datetime", KindString},
		{"geometry", KindString},
	}

	for _, tt := range tests {
		t.Run(tt.sqlType, func(t *testing.T) {
			assert.Equal(t, tt.want, Map(tt.sqlType))
		})
	}
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "Int", KindInt.String())
	assert.Equal(t, "JSON", KindJSON.String())
	assert.Equal(t, "StringFilter", KindString.FilterTypeName())
	assert.Equal(t, "BooleanFilter", KindBoolean.FilterTypeName())
}

package reserved

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	names := Defaults()

	tests := []struct {
		arg  string
		want Kind
	}{
		{"page", KindPage},
		{"distinct", KindDistinct},
		{"where", KindWhere},
		{"AND", KindLogical},
		{"OR", KindLogical},
		{"NOT", KindLogical},
		{"title", KindFieldFilter},
		{"Page", KindFieldFilter},
		{"and", KindFieldFilter},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, names.Classify(tt.arg))
		})
	}
}

func TestClassifyOverriddenNames(t *testing.T) {
	names := Defaults()
	names.Page = "paging"
	names.Distinct = "dedupe"

	assert.Equal(t, KindPage, names.Classify("paging"))
	assert.Equal(t, KindDistinct, names.Classify("dedupe"))
	assert.Equal(t, KindFieldFilter, names.Classify("page"))
	assert.Equal(t, KindFieldFilter, names.Classify("distinct"))
}

package sqlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "users", "`users`"},
		{"mixed case", "userAccounts", "`userAccounts`"},
		{"embedded backtick", "odd`name", "`odd``name`"},
		{"empty", "", "``"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdentifier(tt.input))
		})
	}
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "`t0`.`id`", Qualify("t0", "id"))
	assert.Equal(t, "`id`", Qualify("", "id"))
}

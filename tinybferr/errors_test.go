package tinybferr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"parse", &ParseError{Msg: "bad token", Line: 3}},
		{"semantic", &SemanticError{Msg: "undeclared variable", Line: 7}},
		{"unbalanced", &UnbalancedBrackets{Msg: "unmatched '['", Offset: 4}},
		{"pointer", &PointerOutOfRange{Pointer: -1, Direction: '<'}},
		{"step limit", &StepLimitExceeded{Limit: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

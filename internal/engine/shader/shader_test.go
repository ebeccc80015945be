package shader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanLog(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"nul terminated", []byte("0:3: error\n\x00\x00"), "0:3: error"},
		{"no terminator", []byte("  link failed  "), "link failed"},
		{"empty", []byte{0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanLog(tt.in))
		})
	}
}

func TestCompileError(t *testing.T) {
	var err error = &CompileError{Program: "terrain", Stage: StageFragment, Log: "0:12: undeclared identifier"}
	assert.Equal(t, "terrain program: fragment: 0:12: undeclared identifier", err.Error())

	var ce *CompileError
	wrapped := errors.Join(errors.New("scene"), err)
	assert.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, StageFragment, ce.Stage)
}

func TestDeleteNil(t *testing.T) {
	var p *Program
	assert.NotPanics(t, p.Delete)
	assert.NotPanics(t, (&Program{}).Delete)
}

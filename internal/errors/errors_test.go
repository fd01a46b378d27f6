package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := Validation("title is required")

	assert.True(t, Is(err, ErrValidation))
	assert.False(t, Is(err, ErrMalformed))
}

func TestError_WrappedChain(t *testing.T) {
	inner := Malformed(io.ErrUnexpectedEOF, "decode %s", "library_db.json")
	err := fmt.Errorf("load books: %w", inner)

	assert.True(t, Is(err, ErrMalformed))
	assert.True(t, Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, CodeMalformed, CodeOf(err))
	assert.Equal(t, "decode library_db.json: unexpected EOF", inner.Error())
}

func TestError_WithDetails(t *testing.T) {
	details := map[string]string{"title": "is required"}
	err := ErrValidation.WithDetails(details)

	assert.Equal(t, details, err.Details)
	assert.Nil(t, ErrValidation.Details)
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(io.EOF))
}

func TestCode_ExitCode(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, 2},
		{CodeNotFound, 3},
		{CodeMalformed, 4},
		{CodeInternal, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.ExitCode())
		})
	}
}

package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"provider", Provider("fetch transcript", cause), KindProvider},
		{"wrapped with fmt", fmt.Errorf("summarize: %w", Generation("ollama", cause)), KindGeneration},
		{"plain error", cause, KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrapKeepsExistingKind(t *testing.T) {
	inner := Auth("missing bearer token", nil)
	err := Wrap(inner, KindInternal, "resolve identity")

	assert.True(t, Is(err, KindAuth))
	assert.Equal(t, "resolve identity: missing bearer token", err.Error())
	assert.Nil(t, Wrap(nil, KindAuth, "noop"))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Persistence("insert summary", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert summary: disk full", err.Error())
	assert.Equal(t, "no videos", NotFound("no videos", nil).Error())
}

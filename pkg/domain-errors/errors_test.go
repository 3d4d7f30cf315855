package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches the outermost code", func(t *testing.T) {
		err := New(CodeNotFound, "city not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches a wrapped code", func(t *testing.T) {
		inner := New(CodeConflict, "duplicate")
		err := Wrap(inner, CodeInternal, "failed to save")
		assert.True(t, HasCode(err, CodeInternal))
		assert.True(t, HasCode(err, CodeConflict))
	})

	t.Run("follows fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeTimeout, "slow"))
		assert.True(t, Is(err, CodeTimeout))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "failed to load region")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load region: connection reset", err.Error())
	assert.Nil(t, Wrap(nil, CodeInternal, "unused"))
}

func TestKeyOf(t *testing.T) {
	err := NewKeyed(CodeBadRequest, KeyIDInvalid, "Invalid ID")
	assert.Equal(t, KeyIDInvalid, KeyOf(err))
	assert.Equal(t, "", KeyOf(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeValidation:   http.StatusBadRequest,
		CodeInvalidInput: http.StatusBadRequest,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeTimeout:      http.StatusGatewayTimeout,
		CodeInternal:     http.StatusInternalServerError,
		Code("unknown"):  http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}

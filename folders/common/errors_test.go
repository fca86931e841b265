package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	assert.ErrorIs(t, FromStatus("op", http.StatusServiceUnavailable, ""), ErrRemoteUnavailable)
	assert.ErrorIs(t, FromStatus("op", http.StatusGatewayTimeout, ""), ErrRemoteUnavailable)
	assert.ErrorIs(t, FromStatus("op", http.StatusBadRequest, ""), ErrRemoteRejected)
	assert.ErrorIs(t, FromStatus("op", http.StatusInternalServerError, ""), ErrRemoteRejected)
}

func TestRemoteErrorMessage(t *testing.T) {
	err := Rejected("delete a.jpg", http.StatusNotFound, "File not found")
	assert.Equal(t, "delete a.jpg: remote rejected the request (status 404): File not found", err.Error())

	cause := errors.New("dial tcp: connection refused")
	un := Unavailable("list uploads", cause)
	assert.Equal(t, "list uploads: remote unavailable: dial tcp: connection refused", un.Error())
	assert.ErrorIs(t, un, cause)
	assert.True(t, IsRemote(un))
	assert.False(t, IsRemote(ErrNotFound))
}

func TestErrorUtils(t *testing.T) {
	eu := NewErrorUtils(zerolog.Nop())
	assert.Nil(t, eu.WrapError(nil, "x"))
	assert.Nil(t, eu.LogAndWrapError(nil, zerolog.WarnLevel, "x"))

	err := eu.LogAndWrapError(ErrNotFound, zerolog.WarnLevel, "open group %d", 3)
	assert.EqualError(t, err, "open group 3: not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, eu.WrapError(ErrNotConfirmed, "cleanup"), "cleanup: operation not confirmed")
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportErrorHidesDetail(t *testing.T) {
	underlying := fmt.Errorf("dial tcp 10.0.0.5:5000: connection refused")
	err := NewTransport(underlying, "getVideo")

	// The message must never expose the raw transport error
	assert.Equal(t, "backend transport failure", err.Error())
	assert.NotContains(t, err.Error(), "10.0.0.5")

	// The underlying error stays reachable for logging
	assert.True(t, errors.Is(err, underlying))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "getVideo", te.Extensions()["operation"])
	assert.Equal(t, "TRANSPORT_ERROR", te.Extensions()["code"])
}

func TestNewTransportNil(t *testing.T) {
	assert.NoError(t, NewTransport(nil, "getVideo"))
}

func TestBackendErrorExtensions(t *testing.T) {
	aux := "tag does not exist"
	tests := []struct {
		name    string
		err     *BackendError
		wantMsg string
		wantExt map[string]interface{}
	}{
		{
			name:    "code only",
			err:     &BackendError{Code: "VIDEO_NOT_EXIST"},
			wantMsg: "VIDEO_NOT_EXIST",
			wantExt: map[string]interface{}{"code": "VIDEO_NOT_EXIST"},
		},
		{
			name:    "code with reason and aux",
			err:     &BackendError{Code: "TAG_NOT_EXIST", Reason: "unknown tag", Aux: &aux},
			wantMsg: "TAG_NOT_EXIST: unknown tag",
			wantExt: map[string]interface{}{
				"code":   "TAG_NOT_EXIST",
				"reason": "unknown tag",
				"aux":    aux,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.wantExt, tt.err.Extensions())
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"backend", NewBackend("FAILED", "", nil), ErrorBackend},
		{"invalid", NewInvalid("at least one of pid or vid must be set"), ErrorInvalid},
		{"malformed", NewMalformed("listNotifications", "missing field %q", "cid"), ErrorMalformed},
		{"transport", NewTransport(errors.New("timeout"), "getVideo"), ErrorTransport},
		{"unknown defaults to transport", errors.New("boom"), ErrorTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	wrapped := fmt.Errorf("resolver: %w", NewBackend("RATE_LIMITED", "slow down", nil))
	assert.True(t, IsBackend(wrapped))
	assert.False(t, IsInvalid(wrapped))
	assert.False(t, IsTransport(wrapped))
	assert.False(t, IsMalformed(wrapped))
	assert.Equal(t, "RATE_LIMITED", BackendCode(wrapped))
	assert.Equal(t, "", BackendCode(errors.New("plain")))
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "transport", ErrorTransport.String())
	assert.Equal(t, "backend", ErrorBackend.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "malformed", ErrorMalformed.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}

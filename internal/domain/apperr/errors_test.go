package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestFailed_FallsBackToGenericMessage(t *testing.T) {
	err := NewRequestFailed("", 500)

	assert.Equal(t, DefaultFailureMessage, err.Message)
	assert.Equal(t, 500, err.StatusCode)
}

func TestTransportError_Error(t *testing.T) {
	withStatus := &TransportError{Method: "GET", Path: "/customers", StatusCode: 502, Err: ErrUnexpectedStatus}
	assert.Equal(t, "GET /customers 502: unexpected http status", withStatus.Error())

	noResponse := &TransportError{Method: "POST", Path: "/login", Err: errors.New("connection refused")}
	assert.Equal(t, "POST /login: connection refused", noResponse.Error())
	assert.ErrorIs(t, withStatus, ErrUnexpectedStatus)
}

func TestClassifiers_SeeThroughWrapping(t *testing.T) {
	transport := fmt.Errorf("list customers: %w", &TransportError{Method: "GET", Path: "/customers", Err: ErrNotEnvelope})
	failed := fmt.Errorf("create: %w", NewRequestFailed("该客户已经是违约状态", 500))
	invalid := fmt.Errorf("create: %w", NewValidation("customerId", "请选择客户"))

	assert.True(t, IsTransport(transport))
	assert.False(t, IsRequestFailed(transport))

	assert.True(t, IsRequestFailed(failed))
	assert.False(t, IsValidation(failed))

	assert.True(t, IsValidation(invalid))
	assert.False(t, IsTransport(invalid))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", NewValidation("severity", "请选择严重性"), "请选择严重性"},
		{"request failed verbatim", NewRequestFailed("该客户已经是违约状态", 200), "该客户已经是违约状态"},
		{"transport", &TransportError{Method: "GET", Path: "/x", StatusCode: 503, Err: ErrUnexpectedStatus}, TransportFailureMessage},
		{"unknown error", errors.New("boom"), TransportFailureMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

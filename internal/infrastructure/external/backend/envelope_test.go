package backend

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Success(t *testing.T) {
	raw := []byte(`{"success":true,"data":[1,2,3]}`)

	got, err := Decode[[]int](raw)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestDecode_SuccessWithoutData(t *testing.T) {
	got, err := Decode[[]int]([]byte(`{"success":true,"message":"ok"}`))

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecode_FailureKeepsMessageVerbatim(t *testing.T) {
	_, err := Decode[[]int]([]byte(`{"success":false,"message":"该客户已经是违约状态"}`))

	var rf *apperr.RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, "该客户已经是违约状态", rf.Message)
}

func TestDecode_FailureWithoutMessage(t *testing.T) {
	_, err := Decode[[]int]([]byte(`{"success":false}`))

	var rf *apperr.RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, apperr.DefaultFailureMessage, rf.Message)
}

func TestDecode_NotAnEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"html", "<html>502 Bad Gateway</html>"},
		{"no success field", `{"code":200,"data":[]}`},
		{"array", `[1,2]`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[[]int]([]byte(tt.body))
			assert.ErrorIs(t, err, apperr.ErrNotEnvelope)
		})
	}
}

func TestDecode_TolerantSuccessFlag(t *testing.T) {
	got, err := Decode[string]([]byte(`{"success":1,"data":"x"}`))

	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestDecodeAck(t *testing.T) {
	ack, err := DecodeAck([]byte(`{"success":true,"message":"违约认定申请提交成功"}`))
	require.NoError(t, err)
	assert.True(t, ack.Success)
	assert.Equal(t, "违约认定申请提交成功", ack.Message)

	_, err = DecodeAck([]byte(`{"success":false,"message":"审核失败"}`))
	assert.True(t, apperr.IsRequestFailed(err))
}

func TestEnvelope_MarshalsWireShape(t *testing.T) {
	raw, err := json.Marshal(Envelope[[]CustomerRecord]{Success: true, Data: []CustomerRecord{}})
	require.NoError(t, err)

	got, err := Decode[[]CustomerRecord](raw)
	require.NoError(t, err)
	assert.Empty(t, got)
}

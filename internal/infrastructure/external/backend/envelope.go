package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/domain/entity"
)

// Envelope is the {success, data, message} wrapper around every /api response
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

type rawEnvelope struct {
	Success *Flag           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func parseEnvelope(raw []byte) (*rawEnvelope, error) {
	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrNotEnvelope, err)
	}
	if env.Success == nil {
		return nil, apperr.ErrNotEnvelope
	}
	return &env, nil
}

// Decode unwraps an envelope body. success:true yields data (the zero value when absent),
// success:false yields *apperr.RequestFailedError carrying the server message, and a body
// that is not an envelope yields an error wrapping apperr.ErrNotEnvelope.
func Decode[T any](raw []byte) (T, error) {
	var zero T

	env, err := parseEnvelope(raw)
	if err != nil {
		return zero, err
	}

	if !*env.Success {
		return zero, apperr.NewRequestFailed(env.Message, 0)
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("%w: data: %v", apperr.ErrNotEnvelope, err)
	}
	return out, nil
}

// DecodeAck unwraps a mutation response into its acknowledgment
func DecodeAck(raw []byte) (entity.Ack, error) {
	env, err := parseEnvelope(raw)
	if err != nil {
		return entity.Ack{}, err
	}

	if !*env.Success {
		return entity.Ack{}, apperr.NewRequestFailed(env.Message, 0)
	}
	return entity.Ack{Success: true, Message: env.Message}, nil
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/domain/entity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultAPIPrefix is prepended to every path except the health check
const DefaultAPIPrefix = "/api"

// maxBodySize caps how much of a response is read
const maxBodySize = 8 << 20

// Config holds backend connection settings
type Config struct {
	BaseURL    string
	APIPrefix  string
	Timeout    time.Duration // zero means no client-side timeout
	HTTPClient *http.Client
}

// Transport performs HTTP calls against the backend and classifies failures
type Transport struct {
	baseURL    string
	apiPrefix  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewTransport creates a transport for the given backend
func NewTransport(cfg Config, logger *zap.Logger) *Transport {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}

	return &Transport{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiPrefix:  "/" + strings.Trim(prefix, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// request describes one backend call
type request struct {
	method   string
	path     string
	query    url.Values
	body     interface{}
	noPrefix bool
}

// response is a received HTTP response with its body fully read
type response struct {
	statusCode int
	body       []byte
}

func (r *response) ok() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// do sends the request. Only failures to get any response are returned as errors;
// status classification is left to the caller.
func (t *Transport) do(ctx context.Context, req request) (*response, error) {
	path := req.path
	if !req.noPrefix {
		path = t.apiPrefix + path
	}

	target := t.baseURL + path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, t.transportError(req, 0, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		t.logger.Warn("Backend request failed",
			zap.String("method", req.method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, t.transportError(req, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, t.transportError(req, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}

	t.logger.Debug("Backend request",
		zap.String("method", req.method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", requestID))

	return &response{statusCode: resp.StatusCode, body: raw}, nil
}

func (t *Transport) transportError(req request, status int, err error) *apperr.TransportError {
	path := req.path
	if !req.noPrefix {
		path = t.apiPrefix + path
	}
	return &apperr.TransportError{
		Method:     req.method,
		Path:       path,
		StatusCode: status,
		Err:        err,
	}
}

// classify turns a non-2xx response into an error. A success:false envelope with a
// message is the backend rejecting the request, anything else is a transport failure.
func (t *Transport) classify(req request, resp *response) error {
	if env, err := parseEnvelope(resp.body); err == nil && !bool(*env.Success) && env.Message != "" {
		t.logger.Warn("Backend rejected request",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Int("status", resp.statusCode),
			zap.String("message", env.Message))
		return apperr.NewRequestFailed(env.Message, resp.statusCode)
	}

	t.logger.Warn("Backend returned unexpected status",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.statusCode))
	return t.transportError(req, resp.statusCode, apperr.ErrUnexpectedStatus)
}

// decodeError annotates envelope decode failures with the request that produced them
func (t *Transport) decodeError(req request, resp *response, err error) error {
	var rf *apperr.RequestFailedError
	if errors.As(err, &rf) {
		rf.StatusCode = resp.statusCode
		return rf
	}
	if errors.Is(err, apperr.ErrNotEnvelope) {
		return t.transportError(req, resp.statusCode, err)
	}
	return err
}

// call performs a request and decodes the envelope data into T
func call[T any](ctx context.Context, t *Transport, req request) (T, error) {
	var zero T

	resp, err := t.do(ctx, req)
	if err != nil {
		return zero, err
	}
	if !resp.ok() {
		return zero, t.classify(req, resp)
	}

	out, err := Decode[T](resp.body)
	if err != nil {
		return zero, t.decodeError(req, resp, err)
	}
	return out, nil
}

// callAck performs a mutation and returns its acknowledgment
func (t *Transport) callAck(ctx context.Context, req request) (entity.Ack, error) {
	resp, err := t.do(ctx, req)
	if err != nil {
		return entity.Ack{}, err
	}
	if !resp.ok() {
		return entity.Ack{}, t.classify(req, resp)
	}

	ack, err := DecodeAck(resp.body)
	if err != nil {
		return entity.Ack{}, t.decodeError(req, resp, err)
	}
	return ack, nil
}

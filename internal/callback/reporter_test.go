package callback

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/savaki/static-publisher/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	ContentType   []string
	ContentLength int64
	Body          []byte
}

func TestReporter_Report(t *testing.T) {
	var (
		calls    atomic.Int32
		captured = make(chan capturedRequest, 1)
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		captured <- capturedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			ContentType:   r.Header["Content-Type"],
			ContentLength: r.ContentLength,
			Body:          body,
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	env := NewEnvelope(testEvent(), cfn.StatusSuccess, "stream")
	delivery := NewReporter(server.Client()).Report(context.Background(), server.URL+"/signed?X-Amz-Signature=abc", env)

	assert.Equal(t, StateDelivered, delivery.State)
	assert.Equal(t, http.StatusOK, delivery.StatusCode)
	assert.NoError(t, delivery.Err)
	assert.Equal(t, int32(1), calls.Load())

	got := <-captured
	want, err := env.Marshal()
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/signed", got.Path)
	assert.Equal(t, "X-Amz-Signature=abc", got.RawQuery)
	assert.Equal(t, []string{""}, got.ContentType, "content-type must be sent with an empty value")
	assert.Equal(t, int64(len(want)), got.ContentLength)
	assert.Equal(t, want, got.Body)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(got.Body, &decoded))
	assert.Equal(t, env, decoded)
}

func TestReporter_NonSuccessStatusIsDelivered(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	env := NewEnvelope(testEvent(), cfn.StatusFailed, "stream")
	delivery := NewReporter(server.Client()).Report(context.Background(), server.URL, env)

	assert.Equal(t, StateDelivered, delivery.State)
	assert.Equal(t, http.StatusForbidden, delivery.StatusCode)
	assert.NoError(t, delivery.Err)
	assert.Equal(t, int32(1), calls.Load(), "delivery must not be retried")
}

func TestReporter_ConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "http://" + listener.Addr().String()
	require.NoError(t, listener.Close())

	env := NewEnvelope(testEvent(), cfn.StatusSuccess, "stream")
	delivery := NewReporter(nil).Report(context.Background(), url, env)

	assert.Equal(t, StateDeliveryFailed, delivery.State)
	assert.Zero(t, delivery.StatusCode)
	assert.ErrorIs(t, delivery.Err, errors.ErrDelivery)
}

func TestReporter_InvalidURL(t *testing.T) {
	env := NewEnvelope(testEvent(), cfn.StatusSuccess, "stream")
	delivery := NewReporter(nil).Report(context.Background(), "://bad url", env)

	assert.Equal(t, StateDeliveryFailed, delivery.State)
	assert.ErrorIs(t, delivery.Err, errors.ErrDelivery)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "Sending", StateSending.String())
	assert.Equal(t, "Delivered", StateDelivered.String())
	assert.Equal(t, "DeliveryFailed", StateDeliveryFailed.String())
	assert.Equal(t, "Done", StateDone.String())
	assert.Equal(t, "State(9)", State(9).String())
}

package commands

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/rs/zerolog"
	"github.com/savaki/static-publisher/internal/callback"
	"github.com/savaki/static-publisher/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runRespond(t *testing.T, args ...string) error {
	logger := zerolog.New(io.Discard)
	app := &cli.App{
		Name:     "static-publisher",
		Commands: []*cli.Command{RespondCommand(&logger)},
	}
	return app.Run(append([]string{"static-publisher", "respond"}, args...))
}

func TestRespondCommand(t *testing.T) {
	bodies := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- body
	}))
	defer server.Close()

	err := runRespond(t,
		"--response-url", server.URL,
		"--status", "failed",
		"--stack-id", "stack",
		"--request-id", "request",
		"--logical-resource-id", "SiteContent",
		"--log-stream-name", "stream",
	)
	require.NoError(t, err)

	var env callback.Envelope
	require.NoError(t, json.Unmarshal(<-bodies, &env))
	assert.Equal(t, cfn.StatusFailed, env.Status)
	assert.Equal(t, "stack", env.StackID)
	assert.Equal(t, "request", env.RequestID)
	assert.Equal(t, "SiteContent", env.LogicalResourceID)
	assert.Equal(t, "stream", env.PhysicalResourceID)
}

func TestRespondCommand_InvalidStatus(t *testing.T) {
	err := runRespond(t,
		"--response-url", "http://127.0.0.1:1",
		"--status", "maybe",
		"--stack-id", "stack",
		"--request-id", "request",
		"--logical-resource-id", "SiteContent",
	)
	assert.ErrorIs(t, err, errors.ErrInvalidStatus)
}

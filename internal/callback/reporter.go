package callback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/savaki/static-publisher/internal/errors"
)

// State tracks the progress of a single response delivery.
type State int

const (
	StateIdle State = iota
	StateSending
	StateDelivered
	StateDeliveryFailed
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSending:
		return "Sending"
	case StateDelivered:
		return "Delivered"
	case StateDeliveryFailed:
		return "DeliveryFailed"
	case StateDone:
		return "Done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Delivery is the outcome of Report. StatusCode is only set once a
// response was received; Err is only set when State is
// StateDeliveryFailed.
type Delivery struct {
	State      State
	StatusCode int
	Err        error
}

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Reporter sends envelopes to response urls, once each.
type Reporter struct {
	client Doer
}

func NewReporter(client Doer) *Reporter {
	if client == nil {
		client = &http.Client{}
	}
	return &Reporter{client: client}
}

// Report makes exactly one PUT of envelope to responseURL. Any HTTP
// response, whatever its status, counts as delivered; only a failure to
// obtain a response is a failed delivery. Report never retries.
func (r *Reporter) Report(ctx context.Context, responseURL string, envelope Envelope) Delivery {
	logger := zerolog.Ctx(ctx)

	state := StateIdle
	transition := func(next State) {
		logger.Debug().Stringer("from", state).Stringer("to", next).Msg("Response delivery")
		state = next
	}

	body, err := envelope.Marshal()
	if err != nil {
		transition(StateDeliveryFailed)
		return Delivery{State: state, Err: fmt.Errorf("%w: %w", errors.ErrDelivery, err)}
	}

	logger.Info().RawJSON("body", body).Msg("Response body")

	transition(StateSending)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, responseURL, bytes.NewReader(body))
	if err != nil {
		transition(StateDeliveryFailed)
		return Delivery{State: state, Err: fmt.Errorf("%w: %w", errors.ErrDelivery, err)}
	}
	// the pre-signed url is signed with an empty content type
	req.Header["Content-Type"] = []string{""}
	req.ContentLength = int64(len(body))

	resp, err := r.client.Do(req)
	if err != nil {
		transition(StateDeliveryFailed)
		err = fmt.Errorf("%w: %w", errors.ErrDelivery, err)
		logger.Error().Err(err).Msg("Failed to send response")
		return Delivery{State: state, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	transition(StateDelivered)
	logger.Info().
		Int("status_code", resp.StatusCode).
		Str("status", resp.Status).
		Msg("Response delivered")

	return Delivery{State: state, StatusCode: resp.StatusCode}
}

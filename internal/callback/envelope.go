// Package callback delivers custom resource responses to CloudFormation.
package callback

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/savaki/static-publisher/internal/errors"
)

// ReasonPrefix precedes the log stream name in every response reason.
const ReasonPrefix = "See the details in CloudWatch Log Stream: "

// Envelope is the response document CloudFormation expects at the
// pre-signed response url. Field order and names are part of the wire
// contract.
type Envelope struct {
	Status             cfn.StatusType         `json:"Status"`
	Reason             string                 `json:"Reason"`
	PhysicalResourceID string                 `json:"PhysicalResourceId"`
	StackID            string                 `json:"StackId"`
	RequestID          string                 `json:"RequestId"`
	LogicalResourceID  string                 `json:"LogicalResourceId"`
	NoEcho             bool                   `json:"NoEcho"`
	Data               map[string]interface{} `json:"Data"`
}

// NewEnvelope builds the response for event. The physical resource id
// defaults to logStreamName when the event carries none.
func NewEnvelope(event cfn.Event, status cfn.StatusType, logStreamName string) Envelope {
	physicalResourceID := event.PhysicalResourceID
	if physicalResourceID == "" {
		physicalResourceID = logStreamName
	}

	return Envelope{
		Status:             status,
		Reason:             ReasonPrefix + logStreamName,
		PhysicalResourceID: physicalResourceID,
		StackID:            event.StackID,
		RequestID:          event.RequestID,
		LogicalResourceID:  event.LogicalResourceID,
		Data:               map[string]interface{}{},
	}
}

// Validate reports whether the envelope carries a status CloudFormation
// accepts.
func (e Envelope) Validate() error {
	switch e.Status {
	case cfn.StatusSuccess, cfn.StatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: %q", errors.ErrInvalidStatus, e.Status)
	}
}

// Marshal returns the compact JSON body of the envelope.
func (e Envelope) Marshal() ([]byte, error) {
	if e.Data == nil {
		e.Data = map[string]interface{}{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

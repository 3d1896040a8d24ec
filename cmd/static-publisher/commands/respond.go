package commands

import (
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/rs/zerolog"
	"github.com/savaki/static-publisher/internal/callback"
	"github.com/urfave/cli/v2"
)

// RespondCommand returns the respond command for sending a custom resource response by hand
func RespondCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "respond",
		Usage: "Send a single custom resource response to a pre-signed url",
		Description: `Sends one response document to --response-url, the way the publish-assets
function does at the end of an invocation. Useful when a stack is stuck waiting
on a response that was never delivered. The values must be copied verbatim from
the original request, which is logged by the function.

Example:
  static-publisher respond --status SUCCESS \
    --response-url 'https://cloudformation-custom-resource-response-useast1.s3.amazonaws.com/...' \
    --stack-id 'arn:aws:cloudformation:us-east-1:123456789012:stack/site/...' \
    --request-id 5ad2e4e1-... \
    --logical-resource-id SiteContent \
    --physical-resource-id '2024/01/01/[$LATEST]abcdef'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "response-url",
				Usage:    "Pre-signed response url from the request",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "SUCCESS or FAILED",
				Value: string(cfn.StatusSuccess),
			},
			&cli.StringFlag{
				Name:     "stack-id",
				Usage:    "StackId from the request",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "request-id",
				Usage:    "RequestId from the request",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "logical-resource-id",
				Usage:    "LogicalResourceId from the request",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "physical-resource-id",
				Usage: "PhysicalResourceId to report; defaults to --log-stream-name",
			},
			&cli.StringFlag{
				Name:  "log-stream-name",
				Usage: "Log stream referenced in the response reason",
				Value: "manual",
			},
		},
		Action: func(c *cli.Context) error {
			event := cfn.Event{
				RequestID:          c.String("request-id"),
				ResponseURL:        c.String("response-url"),
				PhysicalResourceID: c.String("physical-resource-id"),
				LogicalResourceID:  c.String("logical-resource-id"),
				StackID:            c.String("stack-id"),
			}

			status := cfn.StatusType(strings.ToUpper(c.String("status")))
			envelope := callback.NewEnvelope(event, status, c.String("log-stream-name"))
			if err := envelope.Validate(); err != nil {
				return err
			}

			delivery := callback.NewReporter(nil).Report(logger.WithContext(c.Context), event.ResponseURL, envelope)
			if delivery.Err != nil {
				return delivery.Err
			}

			fmt.Printf("%s: HTTP %d\n", delivery.State, delivery.StatusCode)
			return nil
		},
	}
}

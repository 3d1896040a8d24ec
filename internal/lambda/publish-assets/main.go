package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
	"github.com/savaki/static-publisher/internal/callback"
	"github.com/savaki/static-publisher/internal/di"
	"github.com/savaki/static-publisher/internal/publisher"
	"github.com/savaki/static-publisher/internal/services"
	"github.com/savaki/static-publisher/internal/walker"
	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"
)

type Handler struct {
	config        *services.Config
	assets        fs.FS
	publisher     *publisher.Publisher
	reporter      *callback.Reporter
	logStreamName string
}

// Result is returned once the response for an invocation has been sent, or
// has failed to send.
type Result struct {
	Status     cfn.StatusType `json:"status"`
	Files      int            `json:"files"`
	Error      string         `json:"error,omitempty"`
	Delivery   string         `json:"delivery"`
	StatusCode int            `json:"status_code,omitempty"`
}

func NewHandler(container di.Container, logStreamName string) (*Handler, error) {
	var handler *Handler
	err := container.Invoke(func(config *services.Config, p *publisher.Publisher, reporter *callback.Reporter) {
		handler = &Handler{
			config:        config,
			assets:        os.DirFS(config.AssetRoot),
			publisher:     p,
			reporter:      reporter,
			logStreamName: logStreamName,
		}
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}

// newUnconfiguredHandler answers every request without publishing anything.
// Create and Update fail on the missing bucket, so the stack is told instead
// of waiting for a response that never comes.
func newUnconfiguredHandler(logStreamName string) *Handler {
	return &Handler{
		config:        &services.Config{},
		reporter:      callback.NewReporter(nil),
		logStreamName: logStreamName,
	}
}

// Handle publishes the asset tree for Create and Update requests and then
// sends exactly one response to event.ResponseURL. Handle always returns,
// whether or not the response could be delivered.
func (h *Handler) Handle(ctx context.Context, event cfn.Event) Result {
	logger := zerolog.Ctx(ctx).With().
		Str("request_type", string(event.RequestType)).
		Str("request_id", event.RequestID).
		Str("stack_id", event.StackID).
		Str("logical_resource_id", event.LogicalResourceID).
		Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Msg("Handling custom resource request")

	status := cfn.StatusSuccess
	files, err := h.publish(ctx, event)
	if err != nil {
		status = cfn.StatusFailed
		logger.Error().Err(err).Msg("Failed to publish assets")
	}

	envelope := callback.NewEnvelope(event, status, h.logStreamName)
	delivery := h.reporter.Report(ctx, event.ResponseURL, envelope)

	result := Result{
		Status:     status,
		Files:      files,
		Delivery:   delivery.State.String(),
		StatusCode: delivery.StatusCode,
	}
	if err != nil {
		result.Error = err.Error()
	}

	logger.Info().
		Str("status", string(result.Status)).
		Int("files", result.Files).
		Str("delivery", result.Delivery).
		Msg("Custom resource request done")

	return result
}

func (h *Handler) publish(ctx context.Context, event cfn.Event) (files int, err error) {
	logger := zerolog.Ctx(ctx)

	switch event.RequestType {
	case cfn.RequestCreate, cfn.RequestUpdate:
	default:
		logger.Info().Msg("Nothing to publish")
		return 0, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publish panicked: %v", r)
		}
	}()

	if err := h.config.Validate(); err != nil {
		return 0, err
	}

	keys, err := walker.Walk(h.assets)
	if err != nil {
		return 0, err
	}

	logger.Info().
		Str("bucket", h.config.Bucket).
		Str("asset_root", h.config.AssetRoot).
		Int("files", len(keys)).
		Msg("Publishing assets")

	if err := h.publisher.Publish(ctx, h.assets, h.config.Bucket, keys); err != nil {
		return len(keys), err
	}

	return len(keys), nil
}

// lambdaHandler adapts Handle to the Lambda runtime. It never returns an
// error: the response has already been sent, and an error would only make
// the runtime retry the request.
func lambdaHandler(logger zerolog.Logger, handler *Handler) func(context.Context, cfn.Event) (Result, error) {
	return func(ctx context.Context, event cfn.Event) (Result, error) {
		invocationLogger := logger
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			invocationLogger = logger.With().Str("aws_request_id", lc.AwsRequestID).Logger()
		}
		ctx = invocationLogger.WithContext(ctx)

		return handler.Handle(ctx, event), nil
	}
}

func invokeAction(c *cli.Context) error {
	logger := di.ProvideLogger().With().Str("lambda", "publish-assets").Logger()
	ctx := logger.WithContext(c.Context)

	container, err := di.New("",
		di.WithConfig(&services.Config{
			Bucket:            c.String("bucket"),
			AssetRoot:         c.String("root"),
			UploadConcurrency: c.Int("concurrency"),
			S3EndpointURL:     c.String("s3-endpoint-url"),
			S3ForcePathStyle:  c.Bool("s3-force-path-style"),
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to setup DI container: %w", err)
	}

	handler, err := NewHandler(container, c.String("log-stream-name"))
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	event := cfn.Event{
		RequestType:        cfn.RequestType(c.String("request-type")),
		RequestID:          ksuid.New().String(),
		ResponseURL:        c.String("response-url"),
		ResourceType:       "Custom::StaticAssets",
		PhysicalResourceID: c.String("physical-resource-id"),
		LogicalResourceID:  c.String("logical-resource-id"),
		StackID:            c.String("stack-id"),
	}

	result := handler.Handle(ctx, event)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(data))

	if result.Status != cfn.StatusSuccess {
		return fmt.Errorf("invocation failed: %s", result.Error)
	}
	return nil
}

func main() {
	logger := di.ProvideLogger().With().Str("lambda", "publish-assets").Logger()

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		env := os.Getenv("ENV")
		if env == "" {
			env = os.Getenv("ENVIRONMENT")
		}

		container, err := di.New(env)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to setup DI container")
			os.Exit(1)
		}

		handler, err := NewHandler(container, lambdacontext.LogStreamName)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create handler, Create and Update requests will fail")
			handler = newUnconfiguredHandler(lambdacontext.LogStreamName)
		}
		lambda.Start(lambdaHandler(logger, handler))
		return
	}

	// CLI mode for local testing
	app := &cli.App{
		Name:  "publish-assets",
		Usage: "CloudFormation custom resource that publishes static assets to S3",
		Commands: []*cli.Command{
			{
				Name:  "invoke",
				Usage: "Run a single custom resource request locally",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "Target S3 bucket",
						EnvVars:  []string{services.EnvBucket},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "root",
						Usage:   "Directory to publish",
						EnvVars: []string{services.EnvAssetRoot},
						Value:   services.DefaultAssetRoot,
					},
					&cli.IntFlag{
						Name:    "concurrency",
						Usage:   "Maximum concurrent uploads (0 for unlimited)",
						EnvVars: []string{services.EnvUploadConcurrency},
						Value:   publisher.DefaultConcurrency,
					},
					&cli.StringFlag{
						Name:    "s3-endpoint-url",
						Usage:   "S3 compatible endpoint",
						EnvVars: []string{services.EnvS3EndpointURL},
					},
					&cli.BoolFlag{
						Name:    "s3-force-path-style",
						Usage:   "Use path style S3 addressing",
						EnvVars: []string{services.EnvS3ForcePathStyle},
					},
					&cli.StringFlag{
						Name:     "response-url",
						Usage:    "Pre-signed url the response is sent to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "request-type",
						Usage: "Create, Update or Delete",
						Value: string(cfn.RequestCreate),
					},
					&cli.StringFlag{
						Name:  "stack-id",
						Usage: "Stack id echoed in the response",
						Value: "local-stack",
					},
					&cli.StringFlag{
						Name:  "logical-resource-id",
						Usage: "Logical resource id echoed in the response",
						Value: "StaticAssets",
					},
					&cli.StringFlag{
						Name:  "physical-resource-id",
						Usage: "Physical resource id of an existing resource",
					},
					&cli.StringFlag{
						Name:  "log-stream-name",
						Usage: "Log stream referenced by the response",
						Value: fmt.Sprintf("local/%s", time.Now().UTC().Format("2006/01/02")),
					},
				},
				Action: invokeAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}

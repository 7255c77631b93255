package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tether-news-scraper/internal/app"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Serve the pipeline as an AWS Lambda function",
	Long: `Start the AWS Lambda runtime loop. Each invocation prunes old
notifications, runs the pipeline and returns {statusCode, body}.
The incoming event payload is ignored.`,
	RunE: runLambda,
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}

func runLambda(cmd *cobra.Command, args []string) error {
	svc, err := app.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeService(svc)

	lambda.Start(func(ctx context.Context, _ json.RawMessage) (app.Response, error) {
		return svc.Handler.Handle(ctx, requestID(ctx)), nil
	})
	return nil
}

// requestID берёт id вызова из Lambda context, вне Lambda генерирует новый
func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}

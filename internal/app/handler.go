package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tether-news-scraper/internal/observability"
	"tether-news-scraper/internal/outcome"
)

type Runner interface {
	Run(ctx context.Context) (*RunReport, error)
}

type Pruner interface {
	Prune(ctx context.Context) (int, outcome.Result)
}

// Response: ответ точки входа в формате Lambda proxy
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type responseBody struct {
	Message       string `json:"message"`
	Error         string `json:"error,omitempty"`
	RequestID     string `json:"requestId"`
	ArticlesCount *int   `json:"articlesCount,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// Handler обслуживает вызов: сначала чистка канала, затем прогон пайплайна
type Handler struct {
	runner          Runner
	pruner          Pruner
	pruneSkipReason string
	logger          *observability.Logger
	now             func() time.Time
}

// NewHandler. pruner может быть nil, тогда чистка пропускается с pruneSkipReason
func NewHandler(runner Runner, pruner Pruner, pruneSkipReason string, logger *observability.Logger) *Handler {
	return &Handler{
		runner:          runner,
		pruner:          pruner,
		pruneSkipReason: pruneSkipReason,
		logger:          logger,
		now:             time.Now,
	}
}

// Handle никогда не возвращает ошибку: любой сбой превращается в 500
func (h *Handler) Handle(ctx context.Context, requestID string) Response {
	logger := h.logger.With("request_id", requestID)
	logger.Info("Invocation started")

	// Ошибки чистки не влияют на прогон
	if h.pruner != nil {
		deleted, res := h.pruner.Prune(ctx)
		res.Log(logger, "prune", "deleted", deleted)
	} else {
		outcome.Skipped(h.pruneSkipReason).Log(logger, "prune")
	}

	report, err := h.runner.Run(ctx)

	body := responseBody{
		RequestID: requestID,
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	}
	status := http.StatusOK

	if err != nil {
		status = http.StatusInternalServerError
		body.Message = "News scraping failed"
		body.Error = err.Error()
	} else {
		count := len(report.Articles)
		body.Message = "News scraping completed successfully"
		body.ArticlesCount = &count
	}

	encoded, mErr := json.Marshal(body)
	if mErr != nil {
		logger.Error("Failed to encode response", "error", mErr.Error())
		return Response{StatusCode: http.StatusInternalServerError, Body: `{"message":"News scraping failed"}`}
	}

	logger.Info("Invocation finished", "status", status)
	return Response{StatusCode: status, Body: string(encoded)}
}

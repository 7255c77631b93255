package outcome

import (
	"tether-news-scraper/internal/observability"
)

type Kind int

const (
	KindOK Kind = iota
	KindSkipped
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindSkipped:
		return "skipped"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result: итог вспомогательной стадии. Сбой такой стадии не прерывает прогон
type Result struct {
	Kind   Kind
	Reason string
	Err    error
}

func OK() Result {
	return Result{Kind: KindOK}
}

func Skipped(reason string) Result {
	return Result{Kind: KindSkipped, Reason: reason}
}

func Failed(err error) Result {
	return Result{Kind: KindFailed, Err: err}
}

func (r Result) IsOK() bool      { return r.Kind == KindOK }
func (r Result) IsSkipped() bool { return r.Kind == KindSkipped }
func (r Result) IsFailed() bool  { return r.Kind == KindFailed }

func (r Result) String() string {
	switch r.Kind {
	case KindSkipped:
		return "skipped: " + r.Reason
	case KindFailed:
		if r.Err != nil {
			return "failed: " + r.Err.Error()
		}
		return "failed"
	default:
		return r.Kind.String()
	}
}

// Log пишет результат с уровнем по его виду
func (r Result) Log(logger *observability.Logger, stage string, fields ...any) {
	fields = append([]any{"stage", stage, "outcome", r.Kind.String()}, fields...)

	switch r.Kind {
	case KindOK:
		logger.Info("Stage completed", fields...)
	case KindSkipped:
		logger.Info("Stage skipped", append(fields, "reason", r.Reason)...)
	case KindFailed:
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		logger.Warn("Stage failed", append(fields, "error", errText)...)
	}
}

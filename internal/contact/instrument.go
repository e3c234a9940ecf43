package contact

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"snix.ai/snix-web/internal/observability"
)

type instrumented struct {
	next    Submitter
	via     string
	logger  *zap.Logger
	counter *prometheus.CounterVec
}

// Instrument wraps next with a span, a submission counter labelled by via and outcome,
// and a log line per attempt. A nil counter or logger is skipped.
func Instrument(next Submitter, via string, logger *zap.Logger, counter *prometheus.CounterVec) Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumented{next: next, via: via, logger: logger, counter: counter}
}

func (i *instrumented) Submit(ctx context.Context, s Submission) (Receipt, error) {
	ctx, span := observability.StartSpan(ctx, "contact.submit",
		attribute.String("contact.via", i.via),
		attribute.String("contact.submission_id", s.ID),
	)
	start := time.Now()
	receipt, err := i.next.Submit(ctx, s)
	observability.EndSpan(span, err)

	outcome := "ok"
	fields := []zap.Field{
		zap.String("submission_id", s.ID),
		zap.String("via", i.via),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		outcome = "error"
		i.logger.Warn("contact submission failed", append(fields, zap.Error(err))...)
	} else {
		i.logger.Info("contact submission accepted", append(fields, zap.String("ref", receipt.Ref))...)
	}
	if i.counter != nil {
		i.counter.WithLabelValues(i.via, outcome).Inc()
	}
	return receipt, err
}

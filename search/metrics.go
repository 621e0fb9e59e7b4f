package search

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/poiesic/memsearch/search"

type metrics struct {
	steps        metric.Int64Counter
	matches      metric.Int64Counter
	reads        metric.Int64Counter
	replacements metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	var (
		m   metrics
		err error
	)
	if m.steps, err = meter.Int64Counter("memsearch.scan.steps",
		metric.WithDescription("Scan positions tested")); err != nil {
		return nil, err
	}
	if m.matches, err = meter.Int64Counter("memsearch.scan.matches",
		metric.WithDescription("Matches reported")); err != nil {
		return nil, err
	}
	if m.reads, err = meter.Int64Counter("memsearch.provider.reads",
		metric.WithDescription("Provider reads issued by the prefetch cache")); err != nil {
		return nil, err
	}
	if m.replacements, err = meter.Int64Counter("memsearch.replacements",
		metric.WithDescription("Matches overwritten with replacement data")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *metrics) record(ctx context.Context, req Request, res *Result) {
	ctx = context.WithoutCancel(ctx)
	attrs := metric.WithAttributes(
		attribute.String("mode", req.Mode.String()),
		attribute.String("direction", req.Direction.String()),
	)
	m.steps.Add(ctx, int64(res.Steps), attrs)
	m.matches.Add(ctx, int64(len(res.Matches)), attrs)
	m.reads.Add(ctx, int64(res.Reads), attrs)
	m.replacements.Add(ctx, int64(len(res.Replacements)), attrs)
}

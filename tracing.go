package orbgo

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names of the lifecycle operations.
const (
	spanLoad        = "orbgo.Load"
	spanSwap        = "orbgo.Swap"
	spanMetaProcess = "orbgo.MetaAlmanac.Process"
)

func (a *Almanac) startSpan(ctx context.Context, name, alias string) (context.Context, trace.Span) {
	return a.opts.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("orbgo.alias", alias)))
}

func endSpan(span trace.Span, p payload, err error) {
	if p.kind != contentUnknown {
		span.SetAttributes(
			attribute.String("orbgo.kind", p.kind.String()),
			attribute.Int64("orbgo.bytes", p.size),
			attribute.Bool("orbgo.mapped", p.mapped),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"essay-mentor/internal/common/config"
	"essay-mentor/internal/common/logger"
)

func TestNew_RecordsSpansAndMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	exp := tracetest.NewInMemoryExporter()
	obs := New(config.TracingConfig{ServiceName: "essay-test", SampleRatio: 1}, logger.NewTestLogger(t),
		WithRegisterer(reg), WithSpanExporter(exp), WithoutGlobal())

	ctx, span := obs.StartSpan(context.Background(), "essay.analyze")
	obs.RecordStage(ctx, "extract", 3*time.Millisecond)
	obs.RecordScore(ctx, 72, "leadership", "mid")
	obs.RecordJobProcessed(ctx, "completed")
	obs.RecordJobDuration(ctx, 10*time.Millisecond, "completed")
	span.End()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["essay_analyzer_score"])
	assert.True(t, names["jobs_processed_total"])

	require.NoError(t, obs.tracerProvider.ForceFlush(context.Background()))
	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "essay.analyze", spans[0].Name)
	obs.Shutdown(context.Background())
}

func TestNew_NoTracingWithoutEndpoint(t *testing.T) {
	obs := New(config.TracingConfig{ServiceName: "essay-test"}, nil,
		WithRegisterer(promclient.NewRegistry()), WithoutGlobal())

	assert.Nil(t, obs.tracerProvider)
	_, span := obs.StartSpan(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	obs.Shutdown(context.Background())
}

func TestNoop_IsSafe(t *testing.T) {
	obs := Noop()
	ctx, span := obs.StartSpan(context.Background(), "x")
	obs.RecordScore(ctx, 50, "motivational", "low")
	obs.RecordStage(ctx, "score", time.Millisecond)
	span.End()
	obs.Shutdown(ctx)

	var nilObs *Observability
	_, span = nilObs.StartSpan(context.Background(), "x")
	span.End()
	nilObs.RecordJobProcessed(context.Background(), "failed")
	nilObs.Shutdown(context.Background())
}

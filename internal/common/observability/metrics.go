package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"essay-mentor/internal/common/config"
	"essay-mentor/internal/common/logger"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	stageDuration  otelmetric.Float64Histogram
	scoreHistogram otelmetric.Int64Histogram
	log            logger.Logger
}

type options struct {
	registerer   promclient.Registerer
	spanExporter sdktrace.SpanExporter
	setGlobal    bool
}

type Option func(*options)

// WithRegisterer sends OpenTelemetry metrics to reg instead of the default Prometheus registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSpanExporter overrides the exporter built from the tracing config.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) { o.spanExporter = exp }
}

// WithoutGlobal keeps the providers out of the otel globals.
func WithoutGlobal() Option {
	return func(o *options) { o.setGlobal = false }
}

// New wires a Prometheus-backed meter and a tracer. Failures degrade to no-op instruments;
// observability never stops the service from starting.
func New(cfg config.TracingConfig, log logger.Logger, opts ...Option) *Observability {
	o := options{setGlobal: true}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = logger.Component(log, "observability")

	obs := &Observability{log: log, tracer: noop.NewTracerProvider().Tracer(cfg.ServiceName)}

	var promOpts []prometheus.Option
	if o.registerer != nil {
		promOpts = append(promOpts, prometheus.WithRegisterer(o.registerer))
	}
	exporter, err := prometheus.New(promOpts...)
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
	} else {
		obs.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
		if o.setGlobal {
			otel.SetMeterProvider(obs.meterProvider)
		}
		obs.meter = obs.meterProvider.Meter(cfg.ServiceName)
		obs.initInstruments()
	}

	tp, err := newTracerProvider(cfg, o.spanExporter)
	if err != nil {
		log.Warn("Tracing disabled", map[string]interface{}{"error": err.Error()})
	} else if tp != nil {
		obs.tracerProvider = tp
		if o.setGlobal {
			otel.SetTracerProvider(tp)
		}
		obs.tracer = tp.Tracer(cfg.ServiceName)
	}

	return obs
}

// Noop returns an Observability that records nothing. Useful in tests and tools.
func Noop() *Observability {
	return &Observability{
		tracer: noop.NewTracerProvider().Tracer("noop"),
		log:    logger.NewNoOpLogger(),
	}
}

func (o *Observability) initInstruments() {
	o.jobCounter, _ = o.meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = o.meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.stageDuration, _ = o.meter.Float64Histogram(
		"essay.stage.duration",
		otelmetric.WithDescription("Duration of a single analysis stage"),
		otelmetric.WithUnit("ms"),
	)
	o.scoreHistogram, _ = o.meter.Int64Histogram(
		"essay.analyzer.score",
		otelmetric.WithDescription("Readiness scores produced by the analyzer"),
	)
}

// StartSpan opens a span named name as a child of any span in ctx.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordJobProcessed(ctx context.Context, status string) {
	if o != nil && o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, duration time.Duration, status string) {
	if o != nil && o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordStage(ctx context.Context, stage string, duration time.Duration) {
	if o != nil && o.stageDuration != nil {
		o.stageDuration.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
			attribute.String("stage", stage),
		))
	}
}

func (o *Observability) RecordScore(ctx context.Context, score int, archetype, tier string) {
	if o != nil && o.scoreHistogram != nil {
		o.scoreHistogram.Record(ctx, int64(score), otelmetric.WithAttributes(
			attribute.String("archetype", archetype),
			attribute.String("tier", tier),
		))
	}
}

func (o *Observability) Shutdown(ctx context.Context) {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			o.log.Warn("Tracer provider shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			o.log.Warn("Meter provider shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// internal/workers/essay/analyze-essay/handler.go
package analyzeessay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"essay-mentor/internal/common/database"
	apperrors "essay-mentor/internal/common/errors"
	"essay-mentor/internal/common/logger"
	"essay-mentor/internal/common/metrics"
	"essay-mentor/internal/common/observability"
	"essay-mentor/internal/common/validation"
	"essay-mentor/internal/essay/pipeline"
	"essay-mentor/internal/models"
)

const (
	TaskType       = "analyze-essay"
	cacheKeyPrefix = "analysis:"
)

type Handler struct {
	config   *Config
	schema   *validation.Schema
	analyzer *pipeline.Analyzer
	cache    *database.RedisClient
	obs      *observability.Observability
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

type HandlerOptions struct {
	Config      *Config
	Analyzer    *pipeline.Analyzer
	InputSchema *validation.Schema
	// Cache is optional; without it every job is computed.
	Cache         *database.RedisClient
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	cfg := opts.Config
	if cfg == nil {
		cfg = LoadConfig(nil)
	}
	schema := opts.InputSchema
	if schema == nil {
		schema = validation.MustCompileJSON(DefaultInputSchema)
	}
	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = pipeline.New(log)
	}
	obs := opts.Observability
	if obs == nil {
		obs = observability.Noop()
	}

	return &Handler{
		config:   cfg,
		schema:   schema,
		analyzer: analyzer,
		cache:    opts.Cache,
		obs:      obs,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.decode(job.Variables)
	if err == nil {
		var output *Output
		if output, err = h.execute(ctx, input); err == nil {
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
			h.obs.RecordJobProcessed(ctx, "completed")
			h.obs.RecordJobDuration(ctx, time.Since(start), "completed")
			return
		}
	}

	if ctx.Err() != nil && !errors.Is(err, apperrors.ErrAnalysisTimeout) {
		err = apperrors.NewAnalysisTimeoutError(ctx.Err())
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.obs.RecordJobProcessed(ctx, "failed")
	h.obs.RecordJobDuration(ctx, time.Since(start), "failed")
	h.errors.HandleJobError(context.Background(), client, job, err)
}

// decode parses the job variables and checks them against the input schema.
func (h *Handler) decode(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewParseError(err)
	}
	if res := h.schema.ValidateJSON([]byte(variables)); !res.Valid {
		return nil, apperrors.NewSchemaValidationError(res.GetErrorMessages())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sub := input.submission()
	if err := h.analyzer.CheckPrompt(sub.Prompt); err != nil {
		return nil, err
	}
	if err := h.analyzer.CheckEssay(sub.Essay); err != nil {
		return nil, err
	}

	key := h.cacheKey(sub)
	if out, ok := h.lookup(ctx, key); ok {
		return out, nil
	}

	runID := input.RequestID
	if runID == "" {
		runID = uuid.NewString()
	}
	res, err := h.analyzer.AnalyzeRun(ctx, runID, sub)
	if err != nil {
		return nil, err
	}

	out := &Output{
		ReadinessScore:  res.Bundle.ReadinessScore,
		Tier:            res.Bundle.Tier,
		ReadinessLabel:  res.Bundle.ReadinessLabel,
		PromptArchetype: res.Archetype,
		Features:        res.Features,
		ScoreBreakdown:  res.Breakdown,
		Feedback:        res.Bundle,
	}

	h.logger.Info("essay analyzed", map[string]interface{}{
		"runId":          runID,
		"readinessScore": out.ReadinessScore,
		"tier":           out.Tier,
	})

	h.store(ctx, key, out)
	return out, nil
}

func (h *Handler) cachingEnabled() bool {
	return h.cache != nil && h.config.CacheTTL > 0
}

// cacheKey hashes the analyzer settings with the submission, so a config change never
// serves results computed under different rules.
func (h *Handler) cacheKey(sub models.EssaySubmission) string {
	sum := sha256.New()
	for _, part := range []string{h.analyzer.Settings(), sub.Prompt, sub.WordLimitHint, sub.Essay} {
		sum.Write([]byte(part))
		sum.Write([]byte{0})
	}
	return cacheKeyPrefix + hex.EncodeToString(sum.Sum(nil))
}

func (h *Handler) lookup(ctx context.Context, key string) (*Output, bool) {
	if !h.cachingEnabled() {
		return nil, false
	}
	var out Output
	err := h.cache.GetJSON(ctx, key, &out)
	switch {
	case err == nil:
		metrics.EssayCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		h.logger.Debug("cache hit", map[string]interface{}{"key": key})
		return &out, true
	case errors.Is(err, database.ErrCacheMiss):
		metrics.EssayCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		metrics.EssayCacheLookups.WithLabelValues(metrics.CacheError).Inc()
		h.logger.WithError(apperrors.NewCacheUnavailableError("read", err)).Warn("cache bypassed", map[string]interface{}{"key": key})
	}
	return nil, false
}

func (h *Handler) store(ctx context.Context, key string, out *Output) {
	if !h.cachingEnabled() {
		return
	}
	if err := h.cache.SetJSON(ctx, key, out, h.config.CacheTTL); err != nil {
		h.logger.WithError(apperrors.NewCacheUnavailableError("write", err)).Warn("cache write failed", map[string]interface{}{"key": key})
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Decode exposes decode for tests and callers that receive raw variables.
func (h *Handler) Decode(variables string) (*Input, error) {
	return h.decode(variables)
}

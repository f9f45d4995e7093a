// internal/workers/essay/classify-prompt/handler.go
package classifyprompt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "essay-mentor/internal/common/errors"
	"essay-mentor/internal/common/logger"
	"essay-mentor/internal/common/metrics"
	"essay-mentor/internal/common/observability"
	"essay-mentor/internal/common/validation"
	"essay-mentor/internal/essay/pipeline"
	"essay-mentor/internal/essay/prompt"
)

const TaskType = "classify-prompt"

type Handler struct {
	config   *Config
	schema   *validation.Schema
	analyzer *pipeline.Analyzer
	obs      *observability.Observability
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Analyzer      *pipeline.Analyzer
	InputSchema   *validation.Schema
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

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.obs.RecordJobProcessed(ctx, "failed")
	h.errors.HandleJobError(ctx, client, job, err)
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
	archetype := h.analyzer.Classify(ctx, input.Prompt)
	h.logger.Debug("prompt classified", map[string]interface{}{"archetype": archetype})
	return &Output{
		PromptArchetype: archetype,
		PromptLabel:     prompt.Label(archetype),
	}, nil
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

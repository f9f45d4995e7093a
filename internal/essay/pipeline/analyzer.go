// Package pipeline runs classify, extract, score and compose as a single analysis.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	apperrors "essay-mentor/internal/common/errors"
	"essay-mentor/internal/common/logger"
	"essay-mentor/internal/common/metrics"
	"essay-mentor/internal/common/observability"
	"essay-mentor/internal/essay/features"
	"essay-mentor/internal/essay/feedback"
	"essay-mentor/internal/essay/prompt"
	"essay-mentor/internal/essay/scoring"
	"essay-mentor/internal/models"
)

// DefaultMinEssayLength is the character count an essay needs before it is analyzed.
const DefaultMinEssayLength = 100

// Analyzer is safe for concurrent use; it holds no per-run state.
type Analyzer struct {
	log            logger.Logger
	obs            *observability.Observability
	minEssayLength int
	feedbackOpts   feedback.Options
}

type Option func(*Analyzer)

func WithObservability(obs *observability.Observability) Option {
	return func(a *Analyzer) { a.obs = obs }
}

func WithMinEssayLength(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.minEssayLength = n
		}
	}
}

// WithDefaultTargetWords sets the length assumed when a submission has no usable word limit.
func WithDefaultTargetWords(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.feedbackOpts.DefaultTargetWords = n
		}
	}
}

func WithPersonalizedFeedback(on bool) Option {
	return func(a *Analyzer) { a.feedbackOpts.Personalize = on }
}

func New(log logger.Logger, opts ...Option) *Analyzer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	a := &Analyzer{
		log:            logger.Component(log, "analyzer"),
		obs:            observability.Noop(),
		minEssayLength: DefaultMinEssayLength,
		feedbackOpts:   feedback.Options{DefaultTargetWords: scoring.DefaultTargetWords},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MinEssayLength reports the configured essay guard.
func (a *Analyzer) MinEssayLength() int {
	return a.minEssayLength
}

// Settings identifies the options that change an analysis result, for use in cache keys.
func (a *Analyzer) Settings() string {
	return fmt.Sprintf("min=%d,target=%d,personalize=%t",
		a.minEssayLength, a.feedbackOpts.DefaultTargetWords, a.feedbackOpts.Personalize)
}

// CheckPrompt rejects a prompt that is blank after trimming.
func (a *Analyzer) CheckPrompt(text string) error {
	if strings.TrimSpace(text) == "" {
		metrics.EssayGuardRejections.WithLabelValues(string(apperrors.ErrCodePromptEmpty)).Inc()
		return apperrors.NewPromptEmptyError()
	}
	return nil
}

// CheckEssay rejects an essay shorter than the minimum character count.
func (a *Analyzer) CheckEssay(text string) error {
	if n := utf8.RuneCountInString(text); n < a.minEssayLength {
		metrics.EssayGuardRejections.WithLabelValues(string(apperrors.ErrCodeEssayTooShort)).Inc()
		return apperrors.NewEssayTooShortError(n, a.minEssayLength)
	}
	return nil
}

// Classify wraps prompt.Classify in a span.
func (a *Analyzer) Classify(ctx context.Context, promptText string) models.PromptArchetype {
	_, span := a.obs.StartSpan(ctx, "essay.classify")
	defer span.End()

	archetype := prompt.Classify(promptText)
	span.SetAttributes(attribute.String("essay.archetype", string(archetype)))
	return archetype
}

// Analyze validates sub and runs the full pipeline under a fresh run ID.
func (a *Analyzer) Analyze(ctx context.Context, sub models.EssaySubmission) (*models.AnalysisResult, error) {
	return a.AnalyzeRun(ctx, uuid.NewString(), sub)
}

// AnalyzeRun is Analyze with a caller-chosen run ID. Guard failures are returned as
// INVALID_INPUT-category errors; nothing after the guards can fail except cancellation.
func (a *Analyzer) AnalyzeRun(ctx context.Context, runID string, sub models.EssaySubmission) (*models.AnalysisResult, error) {
	if err := a.CheckPrompt(sub.Prompt); err != nil {
		return nil, err
	}
	if err := a.CheckEssay(sub.Essay); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewAnalysisTimeoutError(err)
	}

	ctx, span := a.obs.StartSpan(ctx, "essay.analyze", attribute.String("essay.run_id", runID))
	defer span.End()
	log := a.log.With(map[string]interface{}{"runId": runID})

	start := time.Now()
	archetype := a.Classify(ctx, sub.Prompt)

	stageStart := time.Now()
	fv := features.Extract(sub.Essay)
	a.obs.RecordStage(ctx, "extract", time.Since(stageStart))

	stageStart = time.Now()
	breakdown := scoring.Breakdown(fv, scoring.TargetWordCountOr(sub.WordLimitHint, a.feedbackOpts.DefaultTargetWords))
	a.obs.RecordStage(ctx, "score", time.Since(stageStart))

	stageStart = time.Now()
	bundle := feedback.ComposeWithOptions(breakdown.ReadinessScore, fv, archetype, sub.WordLimitHint, a.feedbackOpts)
	a.obs.RecordStage(ctx, "compose", time.Since(stageStart))

	span.SetAttributes(
		attribute.Int("essay.score", breakdown.ReadinessScore),
		attribute.String("essay.tier", string(bundle.Tier)),
	)
	metrics.EssayAnalyses.WithLabelValues(string(archetype), string(bundle.Tier)).Inc()
	metrics.EssayReadinessScore.Observe(float64(breakdown.ReadinessScore))
	a.obs.RecordScore(ctx, breakdown.ReadinessScore, string(archetype), string(bundle.Tier))

	log.Debug("Essay analyzed", map[string]interface{}{
		"archetype":      archetype,
		"wordCount":      fv.WordCount,
		"readinessScore": breakdown.ReadinessScore,
		"tier":           bundle.Tier,
		"durationMs":     time.Since(start).Milliseconds(),
	})

	return &models.AnalysisResult{
		RunID:      runID,
		Submission: sub,
		Archetype:  archetype,
		Features:   fv,
		Breakdown:  breakdown,
		Bundle:     bundle,
	}, nil
}

// Package session gates the essay workflow: prompt, essay, analysis, feedback.
//
// Guard violations are no-ops: the returned Snapshot has Changed=false and the state is untouched.
// At most one analysis runs per Flow. Reset abandons an in-flight run and its late result is dropped.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "essay-mentor/internal/common/errors"
	"essay-mentor/internal/common/logger"
	"essay-mentor/internal/common/metrics"
	"essay-mentor/internal/essay/pipeline"
	"essay-mentor/internal/models"
)

type State string

const (
	AwaitingPrompt  State = "awaiting_prompt"
	AwaitingEssay   State = "awaiting_essay"
	Analyzing       State = "analyzing"
	ShowingFeedback State = "showing_feedback"
)

// Snapshot is a copy of the flow's observable state after an operation.
type Snapshot struct {
	State         State                  `json:"state"`
	Prompt        string                 `json:"prompt,omitempty"`
	WordLimitHint string                 `json:"wordLimitHint,omitempty"`
	Essay         string                 `json:"essay,omitempty"`
	Archetype     models.PromptArchetype `json:"promptArchetype,omitempty"`
	RunID         string                 `json:"runId,omitempty"`
	Result        *models.AnalysisResult `json:"result,omitempty"`
	Changed       bool                   `json:"changed"`
}

// LatencyFunc is the suspend point before an analysis completes. It must return
// promptly with ctx.Err() once ctx is cancelled if it wants the run to stop early.
type LatencyFunc func(ctx context.Context) error

// FixedLatency waits d or until ctx is done.
func FixedLatency(d time.Duration) LatencyFunc {
	return func(ctx context.Context) error {
		if d <= 0 {
			return ctx.Err()
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// NoLatency completes as soon as the run starts.
func NoLatency(ctx context.Context) error { return ctx.Err() }

type run struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

type Flow struct {
	analyzer *pipeline.Analyzer
	latency  LatencyFunc
	log      logger.Logger
	baseCtx  context.Context

	mu        sync.Mutex
	state     State
	prompt    string
	hint      string
	essay     string
	archetype models.PromptArchetype
	run       *run
	result    *models.AnalysisResult

	wg sync.WaitGroup
}

type Option func(*Flow)

func WithLatency(fn LatencyFunc) Option {
	return func(f *Flow) {
		if fn != nil {
			f.latency = fn
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.log = l
		}
	}
}

// WithBaseContext parents every run's context on ctx, so cancelling it stops all runs.
func WithBaseContext(ctx context.Context) Option {
	return func(f *Flow) { f.baseCtx = ctx }
}

func New(analyzer *pipeline.Analyzer, opts ...Option) *Flow {
	f := &Flow{
		analyzer: analyzer,
		latency:  NoLatency,
		log:      logger.NewNoOpLogger(),
		baseCtx:  context.Background(),
		state:    AwaitingPrompt,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.analyzer == nil {
		f.analyzer = pipeline.New(f.log)
	}
	f.log = logger.Component(f.log, "session")
	return f
}

// Snapshot returns the current state without changing it.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked(false)
}

// SubmitPrompt classifies a non-blank prompt and moves to AwaitingEssay.
func (f *Flow) SubmitPrompt(text, wordLimitHint string) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != AwaitingPrompt {
		return f.rejectLocked("submit_prompt", nil)
	}
	if err := f.analyzer.CheckPrompt(text); err != nil {
		return f.rejectLocked("submit_prompt", err)
	}

	f.prompt = text
	f.hint = wordLimitHint
	f.archetype = f.analyzer.Classify(f.baseCtx, text)
	f.state = AwaitingEssay
	f.log.Debug("Prompt accepted", map[string]interface{}{"archetype": f.archetype})
	return f.snapshotLocked(true)
}

// EditEssay records draft essay text without submitting it. Allowed before analysis starts.
func (f *Flow) EditEssay(text string) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != AwaitingPrompt && f.state != AwaitingEssay {
		return f.rejectLocked("edit_essay", nil)
	}
	f.essay = text
	return f.snapshotLocked(true)
}

// SubmitEssay starts an analysis when the essay meets the minimum length.
// A submission while a run is in flight is a no-op, logged as ANALYSIS_IN_PROGRESS.
func (f *Flow) SubmitEssay(text string) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != AwaitingEssay {
		var err error
		if f.run != nil {
			err = apperrors.NewAnalysisInProgressError(f.run.id)
		}
		return f.rejectLocked("submit_essay", err)
	}
	if err := f.analyzer.CheckEssay(text); err != nil {
		return f.rejectLocked("submit_essay", err)
	}

	f.essay = text
	sub := models.EssaySubmission{Prompt: f.prompt, WordLimitHint: f.hint, Essay: text}

	ctx, cancel := context.WithCancel(f.baseCtx)
	r := &run{id: uuid.NewString(), cancel: cancel, done: make(chan struct{})}
	f.run = r
	f.state = Analyzing

	f.wg.Add(1)
	go f.execute(ctx, r, sub)

	f.log.Info("Analysis started", map[string]interface{}{"runId": r.id})
	return f.snapshotLocked(true)
}

func (f *Flow) execute(ctx context.Context, r *run, sub models.EssaySubmission) {
	defer f.wg.Done()
	defer close(r.done)
	defer r.cancel()

	var res *models.AnalysisResult
	err := f.latency(ctx)
	if err == nil {
		res, err = f.analyzer.AnalyzeRun(ctx, r.id, sub)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.run != r {
		r.err = apperrors.NewAnalysisAbandonedError(r.id)
		f.log.Debug("Discarding result of abandoned run", map[string]interface{}{"runId": r.id})
		return
	}
	f.run = nil

	if err != nil {
		r.err = err
		f.state = AwaitingEssay
		f.log.Warn("Analysis failed", map[string]interface{}{"runId": r.id, "error": err.Error()})
		return
	}

	f.result = res
	f.state = ShowingFeedback
	f.log.Info("Analysis completed", map[string]interface{}{
		"runId":          r.id,
		"readinessScore": res.Breakdown.ReadinessScore,
		"tier":           res.Bundle.Tier,
	})
}

// ChangePrompt returns to AwaitingPrompt, dropping the classification but keeping draft text.
func (f *Flow) ChangePrompt() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != AwaitingEssay {
		return f.rejectLocked("change_prompt", nil)
	}
	f.archetype = ""
	f.state = AwaitingPrompt
	return f.snapshotLocked(true)
}

// Reset returns to AwaitingPrompt from any state, discarding the submission and result.
// An in-flight run is cancelled and will never be applied.
func (f *Flow) Reset() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	changed := f.state != AwaitingPrompt || f.prompt != "" || f.hint != "" || f.essay != "" || f.result != nil
	if f.run != nil {
		f.run.cancel()
		metrics.EssayRunsAbandoned.Inc()
		f.log.Info("Analysis abandoned", map[string]interface{}{"runId": f.run.id})
		f.run = nil
	}

	f.state = AwaitingPrompt
	f.prompt = ""
	f.hint = ""
	f.essay = ""
	f.archetype = ""
	f.result = nil
	return f.snapshotLocked(changed)
}

// Wait blocks until the in-flight run resolves or ctx ends. With nothing in flight it returns
// the held result, or a NO_ANALYSIS error when there is none.
func (f *Flow) Wait(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	r := f.run
	if r == nil {
		defer f.mu.Unlock()
		if f.result == nil {
			return f.snapshotLocked(false), apperrors.NewNoAnalysisError()
		}
		return f.snapshotLocked(false), nil
	}
	f.mu.Unlock()

	select {
	case <-r.done:
	case <-ctx.Done():
		return f.Snapshot(), apperrors.NewAnalysisTimeoutError(ctx.Err())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked(false), r.err
}

// Close abandons any in-flight run and waits for its goroutine to exit.
func (f *Flow) Close() {
	f.mu.Lock()
	if f.run != nil {
		f.run.cancel()
		metrics.EssayRunsAbandoned.Inc()
		f.log.Info("Analysis abandoned on close", map[string]interface{}{"runId": f.run.id})
		f.run = nil
		if f.state == Analyzing {
			f.state = AwaitingEssay
		}
	}
	f.mu.Unlock()
	f.wg.Wait()
}

func (f *Flow) rejectLocked(op string, err error) Snapshot {
	fields := map[string]interface{}{"operation": op, "state": f.state}
	if err != nil {
		fields["error"] = err.Error()
		fields["errorCode"] = string(apperrors.Normalize(err).Code)
	}
	f.log.Debug("Transition ignored", fields)
	return f.snapshotLocked(false)
}

func (f *Flow) snapshotLocked(changed bool) Snapshot {
	s := Snapshot{
		State:         f.state,
		Prompt:        f.prompt,
		WordLimitHint: f.hint,
		Essay:         f.essay,
		Archetype:     f.archetype,
		Result:        f.result,
		Changed:       changed,
	}
	if f.run != nil {
		s.RunID = f.run.id
	}
	return s
}

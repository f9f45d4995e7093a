package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"essay-mentor/internal/essay/feedback"
	"essay-mentor/internal/essay/pipeline"
	"essay-mentor/internal/essay/prompt"
	"essay-mentor/internal/essay/session"
	"essay-mentor/internal/models"
)

func newClassifyCmd(opts *globalOptions) *cobra.Command {
	var promptFile string

	cmd := &cobra.Command{
		Use:   "classify [prompt]",
		Short: "Classify an essay prompt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inline := ""
			if len(args) == 1 {
				inline = args[0]
			}
			text, err := readText(inline, promptFile)
			if err != nil {
				return err
			}
			a := prompt.Classify(text)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a, prompt.Label(a))
			return nil
		},
	}
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "read the prompt from a file")
	return cmd
}

type analyzeOptions struct {
	prompt      string
	promptFile  string
	essayFile   string
	wordLimit   string
	asJSON      bool
	personalize bool
	delay       time.Duration
	timeout     time.Duration
}

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	ao := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a full review session over a prompt and an essay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts, ao)
		},
	}
	cmd.Flags().StringVar(&ao.prompt, "prompt", "", "essay prompt")
	cmd.Flags().StringVar(&ao.promptFile, "prompt-file", "", "read the prompt from a file")
	cmd.Flags().StringVar(&ao.essayFile, "essay-file", "-", "essay file, - for stdin")
	cmd.Flags().StringVar(&ao.wordLimit, "word-limit", "", `word limit hint, e.g. "650 words"`)
	cmd.Flags().BoolVar(&ao.asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&ao.personalize, "personalize", false, "tailor feedback to the essay text")
	cmd.Flags().DurationVar(&ao.delay, "delay", -1, "simulated analysis latency (config value when negative)")
	cmd.Flags().DurationVar(&ao.timeout, "timeout", 30*time.Second, "give up waiting after this long")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *globalOptions, ao *analyzeOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	promptText, err := readText(ao.prompt, ao.promptFile)
	if err != nil {
		return err
	}
	essay, err := readText("", ao.essayFile)
	if err != nil {
		return err
	}

	log := opts.logger()
	analyzer := pipeline.New(log,
		pipeline.WithMinEssayLength(cfg.Essay.MinEssayLength),
		pipeline.WithDefaultTargetWords(cfg.Essay.DefaultTargetWords),
		pipeline.WithPersonalizedFeedback(cfg.Essay.PersonalizeFeedback || ao.personalize),
	)
	// The flow turns guard failures into no-ops, so check first to report why.
	if err := analyzer.CheckPrompt(promptText); err != nil {
		return err
	}
	if err := analyzer.CheckEssay(essay); err != nil {
		return err
	}

	delay := ao.delay
	if delay < 0 {
		delay = cfg.Essay.AnalysisDelay()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), ao.timeout)
	defer cancel()

	flow := session.New(analyzer,
		session.WithLatency(session.FixedLatency(delay)),
		session.WithLogger(log),
		session.WithBaseContext(ctx),
	)
	defer flow.Close()

	flow.SubmitPrompt(promptText, ao.wordLimit)
	flow.SubmitEssay(essay)
	if !ao.asJSON {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing your essay...")
	}

	snap, err := flow.Wait(ctx)
	if err != nil {
		return err
	}

	if ao.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Result)
	}
	renderResult(cmd.OutOrStdout(), snap.Result)
	return nil
}

func renderResult(w io.Writer, res *models.AnalysisResult) {
	b := res.Bundle
	p := func(format string, a ...interface{}) { _, _ = fmt.Fprintf(w, format, a...) }

	p("Prompt type:     %s\n", prompt.Label(b.PromptArchetype))
	p("Readiness score: %d/100 (%s)\n\n", b.ReadinessScore, b.ReadinessLabel)
	p("%s\n", b.OverallSummary)

	section(w, "Strengths", b.Strengths)
	section(w, "Red flags", b.RedFlags)
	section(w, "Aligned with the prompt", b.PromptAlignment.Aligned)
	section(w, "Not aligned with the prompt", b.PromptAlignment.NotAligned)

	p("\nStructural issues\n")
	for _, s := range b.StructuralIssues {
		p("  [%s] %s\n      -> %s\n", s.Section, s.Issue, s.Suggestion)
	}

	p("\nSuggestions\n")
	for _, s := range b.Suggestions {
		p("  %-11s %s\n", "("+feedback.CategoryStyle(s.Category).Icon+")", s.Explanation)
		p("      - %s\n      + %s\n", s.OriginalText, s.CorrectedText)
	}

	p("\nImprovement plan\n")
	for i, step := range b.ImprovementPlan {
		p("  %d. %s\n", i+1, step)
	}

	p("\nRewrite suggestion\n  %s\n", b.RewriteSuggestion)
	p("\nCompetitive analysis\n  %s\n", b.CompetitiveAnalysis)

	var parts []string
	for _, c := range res.Breakdown.Contributions {
		if c.Points != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", c.Name, c.Points))
		}
	}
	p("\nScore: base %d, %s, raw %d\n", res.Breakdown.Base, strings.Join(parts, ", "), res.Breakdown.Raw)
}

func section(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", title)
	for _, it := range items {
		_, _ = fmt.Fprintf(w, "  - %s\n", it)
	}
}

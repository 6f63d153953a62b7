// Package summary implements the optional, explicitly-invoked LLM-assisted
// session summary: given an already-read EngramData, it asks a configured
// provider (anthropic, openai, or bedrock) to turn the intent and transcript
// into a short human-readable paragraph for display only. It never writes
// back into the stored record and never runs unless both a provider is
// configured and the caller opts in.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/AtticAIInc/engram/internal/config"
	"github.com/AtticAIInc/engram/internal/model"
)

// Unavailable is returned to callers in place of a summary whenever the
// configured provider fails; summarization never fails the underlying
// show/review call.
const Unavailable = "(summary unavailable)"

// Summarize renders a one-paragraph summary of data using cfg's configured
// provider. If summaries are disabled or no provider is configured it
// returns Unavailable with a nil error - callers render it the same as any
// other summary text rather than branching on whether one exists.
func Summarize(ctx context.Context, cfg config.SummaryConfig, data *model.EngramData) (string, error) {
	if !cfg.Enabled || cfg.Provider == "" {
		return Unavailable, nil
	}

	prompt := buildPrompt(data)

	var (
		text string
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		text, err = summarizeAnthropic(ctx, cfg, prompt)
	case "openai":
		text, err = summarizeOpenAI(ctx, cfg, prompt)
	case "bedrock":
		text, err = summarizeBedrock(ctx, cfg, prompt)
	default:
		return Unavailable, fmt.Errorf("summary: unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return Unavailable, err
	}
	if strings.TrimSpace(text) == "" {
		return Unavailable, nil
	}
	return text, nil
}

func buildPrompt(data *model.EngramData) string {
	var b strings.Builder
	b.WriteString("Summarize the following AI coding agent session in one short paragraph for a human reviewer.\n\n")
	fmt.Fprintf(&b, "Request: %s\n", data.Intent.OriginalRequest)
	if data.Intent.InterpretedGoal != nil {
		fmt.Fprintf(&b, "Interpreted goal: %s\n", *data.Intent.InterpretedGoal)
	}
	for _, de := range data.Intent.DeadEnds {
		fmt.Fprintf(&b, "Ruled out %s: %s\n", de.Approach, de.Reason)
	}
	for _, d := range data.Intent.Decisions {
		fmt.Fprintf(&b, "Decided %s: %s\n", d.Description, d.Rationale)
	}
	fmt.Fprintf(&b, "Files touched: %d\n", len(data.Operations.FileChanges))
	return b.String()
}

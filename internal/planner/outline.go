package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tomehq/tome/internal/backend"
	"github.com/tomehq/tome/internal/extract"
	"github.com/tomehq/tome/internal/prompts/outline"
)

// PlanOutline asks the backend for a table of contents proportional to
// totalPages and returns it as an ordered chapter sequence.
//
// If the first response cannot be coerced into a well-formed outline, exactly
// one corrective follow-up is issued asking the backend to re-emit only the
// JSON array from its previous output. Failing that too, the call returns
// *PlanningError.
func (p *Planner) PlanOutline(ctx context.Context, topic string, totalPages int) ([]ChapterDescriptor, error) {
	if topic == "" {
		return nil, &PlanningError{Reason: "topic is empty"}
	}
	if totalPages < 1 {
		return nil, &PlanningError{Reason: fmt.Sprintf("total pages must be positive, got %d", totalPages)}
	}

	raw, err := p.client.Complete(ctx, &backend.CompletionRequest{
		SystemPrompt:   outline.SystemPrompt(),
		UserPrompt:     outline.UserPrompt(topic, totalPages),
		MaxTokens:      outlineTokenBudget,
		Temperature:    p.temperature,
		ResponseFormat: backend.FormatJSON,
	})
	if err != nil {
		return nil, &PlanningError{Reason: "outline request failed", Err: err}
	}

	chapters, parseErr := parseOutline(raw)
	if parseErr == nil {
		p.logger.Info("outline planned", "topic", topic, "chapters", len(chapters))
		return chapters, nil
	}

	// One corrective follow-up before giving up: the backend often buries a
	// valid array inside commentary it refuses to drop on the first try.
	p.logger.Warn("outline parse failed, issuing corrective request", "error", parseErr)
	raw, err = p.client.Complete(ctx, &backend.CompletionRequest{
		SystemPrompt:   outline.SystemPrompt(),
		UserPrompt:     outline.CorrectivePrompt(raw),
		MaxTokens:      outlineTokenBudget,
		Temperature:    p.temperature,
		ResponseFormat: backend.FormatJSON,
	})
	if err != nil {
		return nil, &PlanningError{Reason: "corrective outline request failed", Err: err}
	}

	chapters, parseErr = parseOutline(raw)
	if parseErr != nil {
		return nil, &PlanningError{Reason: "response is not a well-formed outline after corrective retry", Err: parseErr}
	}
	p.logger.Info("outline planned on corrective retry", "topic", topic, "chapters", len(chapters))
	return chapters, nil
}

// parseOutline coerces raw backend output into a validated chapter sequence.
func parseOutline(raw string) ([]ChapterDescriptor, error) {
	res := extract.Structured(raw)
	if !res.Structured {
		return nil, fmt.Errorf("no JSON found in response")
	}
	if err := validateAgainst(outlineSchema, res.Value); err != nil {
		return nil, err
	}

	var chapters []ChapterDescriptor
	if err := json.Unmarshal(res.Value, &chapters); err != nil {
		return nil, fmt.Errorf("decode outline: %w", err)
	}

	// The schema already enforces this; kept as a guard for future schema
	// edits since downstream arithmetic depends on it.
	if len(chapters) == 0 {
		return nil, fmt.Errorf("outline is empty")
	}
	for i, c := range chapters {
		if c.Title == "" {
			return nil, fmt.Errorf("chapter %d has no title", i+1)
		}
		if c.Pages < 1 {
			return nil, fmt.Errorf("chapter %q has non-positive page count %d", c.Title, c.Pages)
		}
	}
	return chapters, nil
}

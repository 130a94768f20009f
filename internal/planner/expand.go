package planner

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tomehq/tome/internal/backend"
	"github.com/tomehq/tome/internal/prompts/chapter"
	"github.com/tomehq/tome/internal/prompts/describe"
)

// ExpandChapter turns a chapter descriptor (plus optional blueprint) into
// full markdown prose sized to its page budget.
//
// A missing description is backfilled first with a short synthesis call; the
// descriptor is mutated once so the caller sees the final value. The returned
// markdown is trusted verbatim: no structural validation is performed, and
// downstream consumers must tolerate stylistic drift.
func (p *Planner) ExpandChapter(ctx context.Context, topic string, d *ChapterDescriptor, bp *ChapterBlueprint) (string, error) {
	if d.Description == "" {
		desc, err := p.describeChapter(ctx, topic, *d)
		if err != nil {
			return "", err
		}
		d.Description = desc
	}

	data := chapter.UserPromptData{
		Title:       d.Title,
		Description: d.Description,
		Pages:       d.Pages,
		Words:       d.Pages * p.wordsPerPage,
	}
	if bp != nil {
		encoded, err := json.MarshalIndent(bp, "", "  ")
		if err != nil {
			return "", &ExpansionError{Chapter: d.Title, Err: err}
		}
		data.BlueprintJSON = string(encoded)
	}

	prose, err := p.client.Complete(ctx, &backend.CompletionRequest{
		SystemPrompt:   chapter.SystemPrompt(),
		UserPrompt:     chapter.UserPrompt(data),
		MaxTokens:      p.TokenBudget(d.Pages),
		Temperature:    p.temperature,
		ResponseFormat: backend.FormatText,
	})
	if err != nil {
		return "", &ExpansionError{Chapter: d.Title, Err: err}
	}

	p.logger.Info("chapter expanded", "chapter", d.Title, "pages", d.Pages, "chars", len(prose))
	return prose, nil
}

// describeChapter synthesizes a two-sentence chapter description.
func (p *Planner) describeChapter(ctx context.Context, topic string, d ChapterDescriptor) (string, error) {
	desc, err := p.client.Complete(ctx, &backend.CompletionRequest{
		SystemPrompt:   describe.SystemPrompt(),
		UserPrompt:     describe.UserPrompt(topic, d.Title, d.Pages),
		MaxTokens:      describeTokenBudget,
		Temperature:    p.temperature,
		ResponseFormat: backend.FormatText,
	})
	if err != nil {
		return "", &ExpansionError{Chapter: d.Title, Err: err}
	}
	return strings.TrimSpace(desc), nil
}

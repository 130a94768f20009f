package planner

import (
	"context"
	"encoding/json"

	"github.com/tomehq/tome/internal/backend"
	"github.com/tomehq/tome/internal/extract"
	"github.com/tomehq/tome/internal/prompts/blueprint"
)

// PlanBlueprint asks the backend for a hierarchical section outline of one
// chapter. Malformed output fails with *BlueprintError rather than degrading
// to an empty blueprint: a chapter expanded without its requested structure
// reads very differently from one that never asked for structure.
func (p *Planner) PlanBlueprint(ctx context.Context, d ChapterDescriptor) (*ChapterBlueprint, error) {
	raw, err := p.client.Complete(ctx, &backend.CompletionRequest{
		SystemPrompt:   blueprint.SystemPrompt(),
		UserPrompt:     blueprint.UserPrompt(d.Title, d.Pages, d.Description),
		MaxTokens:      outlineTokenBudget,
		Temperature:    p.temperature,
		ResponseFormat: backend.FormatJSON,
	})
	if err != nil {
		return nil, &BlueprintError{Chapter: d.Title, Reason: "blueprint request failed", Err: err}
	}

	res := extract.Structured(raw)
	if !res.Structured {
		return nil, &BlueprintError{Chapter: d.Title, Reason: "no JSON found in response"}
	}
	if err := validateAgainst(blueprintSchema, res.Value); err != nil {
		return nil, &BlueprintError{Chapter: d.Title, Reason: "response does not match blueprint shape", Err: err}
	}

	var bp ChapterBlueprint
	if err := json.Unmarshal(res.Value, &bp); err != nil {
		return nil, &BlueprintError{Chapter: d.Title, Reason: "decode blueprint", Err: err}
	}

	p.logger.Info("blueprint planned", "chapter", d.Title, "sections", len(bp.Sections))
	return &bp, nil
}

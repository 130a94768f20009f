package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomehq/tome/internal/backend"
)

func TestExpandChapter(t *testing.T) {
	t.Run("expands with existing description", func(t *testing.T) {
		mock := backend.NewMockClient("## Rooted Trees\n\nProse about trees.")
		p := newTestPlanner(mock)

		d := ChapterDescriptor{Title: "Chapter 2: Trees", Pages: 5, Description: "Spanning trees."}
		prose, err := p.ExpandChapter(context.Background(), "Graph Theory", &d, nil)
		if err != nil {
			t.Fatalf("ExpandChapter() error = %v", err)
		}
		if !strings.Contains(prose, "Rooted Trees") {
			t.Errorf("prose = %q", prose)
		}
		if mock.RequestCount() != 1 {
			t.Errorf("requests = %d, want 1 (no description backfill)", mock.RequestCount())
		}

		req := mock.LastRequest()
		if req.ResponseFormat != backend.FormatText {
			t.Errorf("response format = %q, want text", req.ResponseFormat)
		}
		if !strings.Contains(req.UserPrompt, "1250 words") {
			t.Errorf("prompt missing word target: %q", req.UserPrompt)
		}
	})

	t.Run("backfills missing description first", func(t *testing.T) {
		mock := backend.NewMockClient(
			"This chapter introduces trees. It then covers spanning trees.",
			"Chapter prose.",
		)
		p := newTestPlanner(mock)

		d := ChapterDescriptor{Title: "Chapter 2: Trees", Pages: 3}
		if _, err := p.ExpandChapter(context.Background(), "Graph Theory", &d, nil); err != nil {
			t.Fatalf("ExpandChapter() error = %v", err)
		}
		if mock.RequestCount() != 2 {
			t.Errorf("requests = %d, want 2 (describe + expand)", mock.RequestCount())
		}
		if d.Description == "" {
			t.Error("descriptor description was not backfilled")
		}
		if !strings.Contains(mock.LastRequest().UserPrompt, d.Description) {
			t.Error("expansion prompt does not embed the synthesized description")
		}
	})

	t.Run("embeds blueprint and hierarchy instruction", func(t *testing.T) {
		mock := backend.NewMockClient("prose")
		p := newTestPlanner(mock)

		d := ChapterDescriptor{Title: "Chapter 1", Pages: 2, Description: "Basics."}
		bp := &ChapterBlueprint{Sections: []BlueprintSection{{Heading: "Why Graphs"}}}
		if _, err := p.ExpandChapter(context.Background(), "Graph Theory", &d, bp); err != nil {
			t.Fatalf("ExpandChapter() error = %v", err)
		}

		prompt := mock.LastRequest().UserPrompt
		if !strings.Contains(prompt, "Why Graphs") {
			t.Errorf("prompt missing blueprint heading: %q", prompt)
		}
		if !strings.Contains(prompt, "heading hierarchy") {
			t.Errorf("prompt missing hierarchy instruction: %q", prompt)
		}
	})

	t.Run("token budget scales with pages", func(t *testing.T) {
		mock := backend.NewMockClient("prose")
		p := newTestPlanner(mock)

		prev := 0
		for _, pages := range []int{1, 2, 5, 20, 94, 95, 500} {
			budget := p.TokenBudget(pages)
			if budget < prev {
				t.Errorf("TokenBudget(%d) = %d, decreased from %d", pages, budget, prev)
			}
			if budget < backend.MinCompletionTokens || budget > backend.MaxCompletionTokens {
				t.Errorf("TokenBudget(%d) = %d, outside accepted range", pages, budget)
			}
			prev = budget
		}

		d := ChapterDescriptor{Title: "Big", Pages: 500, Description: "Huge."}
		if _, err := p.ExpandChapter(context.Background(), "Graph Theory", &d, nil); err != nil {
			t.Fatalf("ExpandChapter() error = %v", err)
		}
		if got := mock.LastRequest().MaxTokens; got != backend.MaxCompletionTokens {
			t.Errorf("requested tokens = %d, want clamp at %d", got, backend.MaxCompletionTokens)
		}
	})

	t.Run("backend failure wraps as expansion error", func(t *testing.T) {
		mock := backend.NewMockClient()
		mock.ShouldFail = true
		p := newTestPlanner(mock)

		d := ChapterDescriptor{Title: "Chapter 1", Pages: 2, Description: "Basics."}
		_, err := p.ExpandChapter(context.Background(), "Graph Theory", &d, nil)
		var eerr *ExpansionError
		if !errors.As(err, &eerr) {
			t.Fatalf("error type = %T, want *ExpansionError", err)
		}
		var berr *backend.Error
		if !errors.As(err, &berr) {
			t.Errorf("expansion error should wrap *backend.Error, got %v", err)
		}
	})
}

package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/tomehq/tome/internal/backend"
)

func newTestPlanner(client backend.Client) *Planner {
	return New(client, Options{})
}

func TestPlanOutline(t *testing.T) {
	t.Run("valid outline on first attempt", func(t *testing.T) {
		mock := backend.NewMockClient(`[
			{"title":"Chapter 1: Introduction","pages":5},
			{"title":"Chapter 2: Trees","pages":5,"description":"Spanning trees and forests."}
		]`)
		p := newTestPlanner(mock)

		chapters, err := p.PlanOutline(context.Background(), "Graph Theory", 10)
		if err != nil {
			t.Fatalf("PlanOutline() error = %v", err)
		}
		if len(chapters) != 2 {
			t.Fatalf("chapters = %d, want 2", len(chapters))
		}
		if chapters[0].Title != "Chapter 1: Introduction" || chapters[0].Pages != 5 {
			t.Errorf("first chapter = %+v", chapters[0])
		}
		if chapters[1].Description != "Spanning trees and forests." {
			t.Errorf("description = %q", chapters[1].Description)
		}
		if mock.RequestCount() != 1 {
			t.Errorf("requests = %d, want 1", mock.RequestCount())
		}
	})

	t.Run("corrective retry recovers malformed first response", func(t *testing.T) {
		mock := backend.NewMockClient(
			"Sure! Here is a plan in my own words, chapters one and two.",
			`[{"title":"Chapter 1","pages":4},{"title":"Chapter 2","pages":6}]`,
		)
		p := newTestPlanner(mock)

		chapters, err := p.PlanOutline(context.Background(), "Graph Theory", 10)
		if err != nil {
			t.Fatalf("PlanOutline() error = %v", err)
		}
		if len(chapters) != 2 {
			t.Errorf("chapters = %d, want 2", len(chapters))
		}
		if mock.RequestCount() != 2 {
			t.Errorf("requests = %d, want 2 (original + one corrective)", mock.RequestCount())
		}
	})

	t.Run("fails after single corrective retry", func(t *testing.T) {
		mock := backend.NewMockClient(
			"no json here",
			"still no json here",
		)
		p := newTestPlanner(mock)

		_, err := p.PlanOutline(context.Background(), "Graph Theory", 10)
		var perr *PlanningError
		if !errors.As(err, &perr) {
			t.Fatalf("error type = %T, want *PlanningError", err)
		}
		if mock.RequestCount() != 2 {
			t.Errorf("requests = %d, want exactly 2", mock.RequestCount())
		}
	})

	t.Run("rejects non-positive page counts", func(t *testing.T) {
		bad := `[{"title":"Chapter 1","pages":0}]`
		mock := backend.NewMockClient(bad, bad)
		p := newTestPlanner(mock)

		_, err := p.PlanOutline(context.Background(), "Graph Theory", 10)
		var perr *PlanningError
		if !errors.As(err, &perr) {
			t.Fatalf("error type = %T, want *PlanningError", err)
		}
	})

	t.Run("rejects empty outline", func(t *testing.T) {
		mock := backend.NewMockClient("[]", "[]")
		p := newTestPlanner(mock)

		_, err := p.PlanOutline(context.Background(), "Graph Theory", 10)
		var perr *PlanningError
		if !errors.As(err, &perr) {
			t.Fatalf("error type = %T, want *PlanningError", err)
		}
	})

	t.Run("fenced outline is accepted without retry", func(t *testing.T) {
		mock := backend.NewMockClient("```json\n[{\"title\":\"Chapter 1\",\"pages\":3}]\n```")
		p := newTestPlanner(mock)

		chapters, err := p.PlanOutline(context.Background(), "Graph Theory", 3)
		if err != nil {
			t.Fatalf("PlanOutline() error = %v", err)
		}
		if len(chapters) != 1 || mock.RequestCount() != 1 {
			t.Errorf("chapters = %d requests = %d", len(chapters), mock.RequestCount())
		}
	})

	t.Run("backend failure surfaces as planning error", func(t *testing.T) {
		mock := backend.NewMockClient()
		mock.ShouldFail = true
		p := newTestPlanner(mock)

		_, err := p.PlanOutline(context.Background(), "Graph Theory", 10)
		var perr *PlanningError
		if !errors.As(err, &perr) {
			t.Fatalf("error type = %T, want *PlanningError", err)
		}
		var be *backend.Error
		if !errors.As(err, &be) {
			t.Errorf("planning error should wrap *backend.Error, got %v", err)
		}
	})

	t.Run("validates arguments", func(t *testing.T) {
		p := newTestPlanner(backend.NewMockClient())
		if _, err := p.PlanOutline(context.Background(), "", 10); err == nil {
			t.Error("expected error for empty topic")
		}
		if _, err := p.PlanOutline(context.Background(), "Graph Theory", 0); err == nil {
			t.Error("expected error for zero pages")
		}
	})
}

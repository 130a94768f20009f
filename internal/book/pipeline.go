// Package book runs the generation pipeline: outline, per-chapter expansion,
// assembly, persistence.
package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tomehq/tome/internal/planner"
	"github.com/tomehq/tome/internal/store"
)

// ErrRunInFlight is returned when a generation run is requested while
// another is still executing. Runs are serialized to bound backend load and
// to keep the single stored document from racing between writers.
var ErrRunInFlight = errors.New("a generation run is already in flight")

// GenerationRequest is one top-level invocation of the pipeline.
type GenerationRequest struct {
	Topic      string `json:"topic"`
	TotalPages int    `json:"total_pages"`
}

// Validate rejects requests the pipeline cannot plan for.
func (r GenerationRequest) Validate() error {
	if r.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if r.TotalPages < 1 {
		return fmt.Errorf("total_pages must be positive, got %d", r.TotalPages)
	}
	return nil
}

// Result summarizes a completed run.
type Result struct {
	Chapters int `json:"chapters"`
	Bytes    int `json:"bytes"`
}

// Stage names for pipeline progress.
const (
	StageIdle       = "idle"
	StagePlanning   = "planning"
	StageExpanding  = "expanding"
	StageAssembling = "assembling"
	StageDone       = "done"
	StageFailed     = "failed"
)

// Status is an inspectable snapshot of pipeline progress, exposed over the
// status endpoint so a long synchronous run can be observed from outside.
type Status struct {
	Stage        string    `json:"stage"`
	Topic        string    `json:"topic,omitempty"`
	Chapter      int       `json:"chapter,omitempty"` // 1-indexed, set while expanding
	ChapterCount int       `json:"chapter_count,omitempty"`
	StartedAt    time.Time `json:"started_at,omitempty"`
	FinishedAt   time.Time `json:"finished_at,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Generator owns the sequential generation pipeline. Chapters are expanded
// one at a time in outline order; a single in-flight flag rejects
// overlapping runs.
type Generator struct {
	planner    *planner.Planner
	store      store.DocumentStore
	logger     *slog.Logger
	blueprints bool

	mu      sync.Mutex
	running bool
	status  Status
}

// GeneratorOptions tunes a Generator.
type GeneratorOptions struct {
	Logger *slog.Logger

	// Blueprints enables the optional per-chapter section outline stage.
	Blueprints bool
}

// NewGenerator creates a Generator.
func NewGenerator(p *planner.Planner, st store.DocumentStore, opts GeneratorOptions) *Generator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Generator{
		planner:    p,
		store:      st,
		logger:     opts.Logger,
		blueprints: opts.Blueprints,
		status:     Status{Stage: StageIdle},
	}
}

// Status returns a copy of the current pipeline status.
func (g *Generator) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Generate runs the full pipeline and persists the assembled document.
// It blocks for the duration of the run. On any failure the run aborts and
// nothing is persisted; a previously stored document is left untouched.
func (g *Generator) Generate(ctx context.Context, req GenerationRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return nil, ErrRunInFlight
	}
	g.running = true
	g.status = Status{Stage: StagePlanning, Topic: req.Topic, StartedAt: time.Now()}
	g.mu.Unlock()

	result, err := g.run(ctx, req)

	g.mu.Lock()
	g.running = false
	if err != nil {
		g.status.Stage = StageFailed
		g.status.Error = err.Error()
	} else {
		g.status.Stage = StageDone
		g.status.Chapter = 0
	}
	g.status.FinishedAt = time.Now()
	g.mu.Unlock()

	return result, err
}

func (g *Generator) run(ctx context.Context, req GenerationRequest) (*Result, error) {
	g.logger.Info("generation started", "topic", req.Topic, "total_pages", req.TotalPages)

	chapters, err := g.planner.PlanOutline(ctx, req.Topic, req.TotalPages)
	if err != nil {
		return nil, err
	}
	g.setProgress(StageExpanding, 0, len(chapters))

	texts := make([]string, len(chapters))
	for i := range chapters {
		g.setProgress(StageExpanding, i+1, len(chapters))

		var bp *planner.ChapterBlueprint
		if g.blueprints {
			bp, err = g.planner.PlanBlueprint(ctx, chapters[i])
			if err != nil {
				return nil, err
			}
		}

		texts[i], err = g.planner.ExpandChapter(ctx, req.Topic, &chapters[i], bp)
		if err != nil {
			return nil, err
		}
	}

	g.setProgress(StageAssembling, 0, len(chapters))
	doc := Assemble(req.Topic, chapters, texts)

	if err := g.store.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}

	g.logger.Info("generation complete", "topic", req.Topic, "chapters", len(chapters), "bytes", len(doc))
	return &Result{Chapters: len(chapters), Bytes: len(doc)}, nil
}

func (g *Generator) setProgress(stage string, chapter, count int) {
	g.mu.Lock()
	g.status.Stage = stage
	g.status.Chapter = chapter
	g.status.ChapterCount = count
	g.mu.Unlock()
}

// Package planner turns a topic and page budget into an outline and expands
// each chapter into prose, one backend call at a time.
package planner

import (
	"log/slog"

	"github.com/tomehq/tome/internal/backend"
)

// Defaults for prompt sizing. Both scale requests with the chapter's page
// budget: a printed page is roughly 250 words, and completions need roughly
// 85 tokens per page of prose.
const (
	DefaultWordsPerPage  = 250
	DefaultTokensPerPage = 85

	// outlineTokenBudget bounds the outline and blueprint calls, which
	// return structure rather than prose.
	outlineTokenBudget = 2000

	// describeTokenBudget bounds the two-sentence description call.
	describeTokenBudget = 200

	// DefaultTemperature keeps structural output deterministic.
	DefaultTemperature = 0.2
)

// ChapterDescriptor is one entry of the planned outline, in reading order.
type ChapterDescriptor struct {
	Title       string `json:"title"`
	Pages       int    `json:"pages"`
	Description string `json:"description,omitempty"`
}

// ChapterBlueprint is a hierarchical section outline used to steer a single
// chapter's expansion. It is transient: consumed by ExpandChapter, never
// persisted.
type ChapterBlueprint struct {
	Sections []BlueprintSection `json:"sections"`
}

// BlueprintSection is one planned section of a chapter.
type BlueprintSection struct {
	Heading      string   `json:"heading"`
	Subsections  []string `json:"subsections,omitempty"`
	CodeSnippets []string `json:"code_snippets,omitempty"`
	Datasets     []string `json:"datasets,omitempty"`
	KeyTakeaways []string `json:"key_takeaways,omitempty"`
}

// Planner issues planning and expansion prompts through a backend client.
type Planner struct {
	client        backend.Client
	logger        *slog.Logger
	temperature   float64
	wordsPerPage  int
	tokensPerPage int
}

// Options tunes a Planner. Zero values fall back to the package defaults.
type Options struct {
	Logger        *slog.Logger
	Temperature   float64
	WordsPerPage  int
	TokensPerPage int
}

// New creates a Planner using the given completion client.
func New(client backend.Client, opts Options) *Planner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.WordsPerPage <= 0 {
		opts.WordsPerPage = DefaultWordsPerPage
	}
	if opts.TokensPerPage <= 0 {
		opts.TokensPerPage = DefaultTokensPerPage
	}
	return &Planner{
		client:        client,
		logger:        opts.Logger,
		temperature:   opts.Temperature,
		wordsPerPage:  opts.WordsPerPage,
		tokensPerPage: opts.TokensPerPage,
	}
}

// TokenBudget returns the completion budget for a chapter of the given page
// count, clamped to the backend's accepted range. Monotonically
// non-decreasing in pages.
func (p *Planner) TokenBudget(pages int) int {
	return backend.ClampTokens(pages * p.tokensPerPage)
}

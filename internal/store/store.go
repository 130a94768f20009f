// Package store persists the assembled document in a key-value store.
//
// The document lives under a single fixed key: a new generation run
// overwrites the previous document, and there is no per-run versioning.
// Connection failures are reported as *Error and surfaced to callers as
// service-unavailable; they are never retried here.
package store

import (
	"context"
	"errors"
	"fmt"
)

// DocumentKey is the fixed key the assembled document is stored under.
const DocumentKey = "tome:document:v1"

// ErrNotFound is returned by LoadDocument before any run has completed.
var ErrNotFound = errors.New("document not found")

// Error reports a persistence-layer failure (store unreachable, write
// rejected). Distinct from ErrNotFound, which is an expected state.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// DocumentStore is the persistence interface consumed by the pipeline and
// the HTTP surface.
type DocumentStore interface {
	// SaveDocument stores the assembled markdown under DocumentKey,
	// replacing any previous document.
	SaveDocument(ctx context.Context, markdown string) error

	// LoadDocument returns the stored markdown, or ErrNotFound.
	LoadDocument(ctx context.Context) (string, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// ABOUTME: Search service composing query execution and snippet extraction
// ABOUTME: Validates requests, applies defaults, and shapes ordered results

package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chatvault/chatvault/internal/snippet"
	"github.com/chatvault/chatvault/internal/store"
)

// Request defaults
const (
	DefaultLimit         = 10
	DefaultContextRadius = 2500
)

// ErrStorage wraps storage-level failures. The underlying cause is carried
// for server-side logging and must never reach the caller.
var ErrStorage = errors.New("storage failure")

// ValidationError reports a caller-correctable problem with a request
// field. Field-level detail is safe to surface.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Request is one search over the archive. Zero values for Limit and
// ContextRadius take the defaults; negative values are rejected.
type Request struct {
	Term              string
	AuthorRole        string
	ConversationTitle string
	Limit             int
	ContextRadius     int
}

// Result is one matching message with its context snippet.
type Result struct {
	Timestamp time.Time
	Author    string
	Title     *string
	Content   string
	Truncated bool
}

// Searcher is the storage collaborator the service executes against.
type Searcher interface {
	SearchMessages(ctx context.Context, q store.SearchQuery) ([]store.SearchRow, error)
}

// Service runs the search pipeline: validate, build and execute the query,
// then reduce each body to a bounded snippet.
type Service struct {
	store  Searcher
	logger *slog.Logger
}

// NewService creates a search service backed by the given store.
func NewService(st Searcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  st,
		logger: logger.With("component", "search"),
	}
}

// validate checks request shape and fills in defaults.
func validate(req *Request) error {
	if req.Term == "" {
		return &ValidationError{Field: "search_term", Reason: "must be a non-empty string"}
	}
	if req.Limit < 0 {
		return &ValidationError{Field: "limit", Reason: "must be a positive integer"}
	}
	if req.ContextRadius < 0 {
		return &ValidationError{Field: "context_radius", Reason: "must be a positive integer"}
	}
	if req.Limit == 0 {
		req.Limit = DefaultLimit
	}
	if req.ContextRadius == 0 {
		req.ContextRadius = DefaultContextRadius
	}
	return nil
}

// Search executes one search request and returns results ordered newest
// first. Row count is bounded by the limit at the storage layer; content
// length is bounded by the context radius here.
func (s *Service) Search(ctx context.Context, req Request) ([]Result, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	rows, err := s.store.SearchMessages(ctx, store.SearchQuery{
		Term:              req.Term,
		AuthorRole:        req.AuthorRole,
		ConversationTitle: req.ConversationTitle,
		Limit:             req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	results := make([]Result, len(rows))
	for i, row := range rows {
		content, truncated := snippet.Extract(row.Content, req.Term, req.ContextRadius)
		results[i] = Result{
			Timestamp: row.Timestamp,
			Author:    row.AuthorRole,
			Title:     row.Title,
			Content:   content,
			Truncated: truncated,
		}
	}

	s.logger.Debug("search complete", "results", len(results), "limit", req.Limit)
	return results, nil
}

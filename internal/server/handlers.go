// ABOUTME: Request handler for the chat-history search endpoint
// ABOUTME: Parses the JSON body, invokes the search service, maps errors to statuses

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chatvault/chatvault/internal/auth"
	"github.com/chatvault/chatvault/internal/search"
)

// QueryRequest is the JSON body of POST /query_chat_history. Limit and
// ContextRadius are pointers so an absent field can be told apart from an
// explicit zero: absent means "use the default", zero is rejected.
type QueryRequest struct {
	SearchTerm        string `json:"search_term"`
	AuthorRole        string `json:"author_role"`
	ConversationTitle string `json:"conversation_title"`
	Limit             *int   `json:"limit"`
	ContextRadius     *int   `json:"context_radius"`
}

// QueryResult is one entry in the response array.
type QueryResult struct {
	Timestamp string  `json:"timestamp"`
	Author    string  `json:"author"`
	Title     *string `json:"title"`
	Content   string  `json:"content"`
	Truncated bool    `json:"truncated"`
}

// parseQueryRequest parses a QueryRequest from the given reader. Returns an
// error if the JSON is invalid or a field has the wrong type.
func parseQueryRequest(r io.Reader) (*QueryRequest, error) {
	var req QueryRequest
	dec := json.NewDecoder(io.LimitReader(r, 1<<20))
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, fmt.Errorf("field %q must be a %s", typeErr.Field, typeErr.Type)
		}
		return nil, errors.New("invalid JSON body")
	}
	return &req, nil
}

// handleQueryChatHistory handles POST /query_chat_history. The auth
// middleware has already admitted the caller by the time this runs.
func (s *Server) handleQueryChatHistory(w http.ResponseWriter, r *http.Request) {
	req, err := parseQueryRequest(r.Body)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	sreq := search.Request{
		Term:              req.SearchTerm,
		AuthorRole:        req.AuthorRole,
		ConversationTitle: req.ConversationTitle,
	}
	if req.Limit != nil {
		if *req.Limit < 1 {
			s.sendJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		sreq.Limit = *req.Limit
	}
	if req.ContextRadius != nil {
		if *req.ContextRadius < 1 {
			s.sendJSONError(w, http.StatusBadRequest, "context_radius must be a positive integer")
			return
		}
		sreq.ContextRadius = *req.ContextRadius
	}

	results, err := s.service.Search(r.Context(), sreq)
	if err != nil {
		var vErr *search.ValidationError
		if errors.As(err, &vErr) {
			s.sendJSONError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		// ErrStorage and anything unexpected: cause stays in the logs.
		s.logger.Error("search failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if identity := auth.FromContext(r.Context()); identity != nil {
		s.logger.Info("query served",
			"subject", identity.Subject,
			"kind", identity.Kind.String(),
			"results", len(results))
	}

	// Always encode an array, even when empty.
	resp := make([]QueryResult, 0, len(results))
	for _, res := range results {
		resp = append(resp, QueryResult{
			Timestamp: res.Timestamp.UTC().Format(time.RFC3339),
			Author:    res.Author,
			Title:     res.Title,
			Content:   res.Content,
			Truncated: res.Truncated,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

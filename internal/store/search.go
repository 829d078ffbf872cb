// ABOUTME: Message search query construction and execution for the SQLite store
// ABOUTME: Assembles parameterized filter predicates and returns ordered rows

package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultSearchLimit caps row counts when a query specifies none.
const DefaultSearchLimit = 10

// buildSearchQuery turns a SearchQuery into SQL text plus bound arguments.
// Every caller-supplied value travels as a bound parameter; nothing is
// interpolated into the query text. Predicates are combined with AND only.
//
// Rows are ordered by timestamp descending with no secondary sort key, so
// equal timestamps come back in storage order. That non-determinism is
// accepted, not a bug.
func buildSearchQuery(q SearchQuery) (string, []any) {
	conditions := []string{`m.content LIKE ? ESCAPE '\'`}
	args := []any{containsPattern(q.Term)}

	if q.AuthorRole != "" {
		conditions = append(conditions, `m.author_role = ?`)
		args = append(args, q.AuthorRole)
	}

	if q.ConversationTitle != "" {
		conditions = append(conditions, `c.title LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(q.ConversationTitle))
	}

	// Standing policy: tool output never surfaces in results, even when
	// the caller asks for author_role = "tool" explicitly.
	conditions = append(conditions, `m.author_role != ?`)
	args = append(args, RoleTool)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := fmt.Sprintf(`
		SELECT m.timestamp, m.author_role, c.title, m.content
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.id
		WHERE %s
		ORDER BY m.timestamp DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, limit)

	return query, args
}

// containsPattern builds a case-insensitive contains pattern for LIKE,
// escaping the wildcard metacharacters in the caller's value.
func containsPattern(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
	return "%" + escaped + "%"
}

// SearchMessages executes a search against the archive and returns matching
// rows, newest first. The row cap comes from the LIMIT clause; results are
// never truncated client-side afterward.
func (s *SQLiteStore) SearchMessages(ctx context.Context, q SearchQuery) ([]SearchRow, error) {
	query, args := buildSearchQuery(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var results []SearchRow
	for rows.Next() {
		var row SearchRow
		var timestampStr string

		if err := rows.Scan(&timestampStr, &row.AuthorRole, &row.Title, &row.Content); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}

		row.Timestamp, err = time.Parse(time.RFC3339, timestampStr)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search rows: %w", err)
	}

	s.logger.Debug("search executed", "term_len", len(q.Term), "rows", len(results))
	return results, nil
}

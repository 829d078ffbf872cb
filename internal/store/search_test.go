// ABOUTME: Tests for search query construction and execution
// ABOUTME: Covers filters, standing tool exclusion, ordering, limits, and escaping

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func strPtr(s string) *string { return &s }

// seedArchive populates a small archive with two conversations.
func seedArchive(t *testing.T, s *SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.CreateConversation(ctx, &Conversation{ID: "conv-1", Title: strPtr("Q3 Planning")}))
	require.NoError(t, s.CreateConversation(ctx, &Conversation{ID: "conv-2", Title: nil}))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msgs := []*Message{
		{ID: "m1", ConversationID: "conv-1", AuthorRole: "user", Content: "where did the deploy checklist go", Timestamp: base},
		{ID: "m2", ConversationID: "conv-1", AuthorRole: "assistant", Content: "the Deploy checklist lives in the runbook", Timestamp: base.Add(time.Minute)},
		{ID: "m3", ConversationID: "conv-1", AuthorRole: "tool", Content: "deploy script output: ok", Timestamp: base.Add(2 * time.Minute)},
		{ID: "m4", ConversationID: "conv-2", AuthorRole: "user", Content: "unrelated grocery list", Timestamp: base.Add(3 * time.Minute)},
		{ID: "m5", ConversationID: "conv-2", AuthorRole: "assistant", Content: "a deploy can wait until Monday", Timestamp: base.Add(4 * time.Minute)},
	}
	for _, m := range msgs {
		require.NoError(t, s.SaveMessage(ctx, m))
	}
}

func TestSearchMessages_CaseInsensitiveContains(t *testing.T) {
	s := newTestStore(t)
	seedArchive(t, s)

	rows, err := s.SearchMessages(context.Background(), SearchQuery{Term: "DEPLOY"})
	require.NoError(t, err)

	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Contains(t, strings.ToLower(r.Content), "deploy")
	}
}

func TestSearchMessages_ToolRoleAlwaysExcluded(t *testing.T) {
	s := newTestStore(t)
	seedArchive(t, s)

	rows, err := s.SearchMessages(context.Background(), SearchQuery{Term: "deploy"})
	require.NoError(t, err)
	for _, r := range rows {
		assert.NotEqual(t, RoleTool, r.AuthorRole)
	}

	// Requesting the tool role explicitly still yields nothing.
	rows, err = s.SearchMessages(context.Background(), SearchQuery{Term: "deploy", AuthorRole: RoleTool})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearchMessages_AuthorRoleFilter(t *testing.T) {
	s := newTestStore(t)
	seedArchive(t, s)

	rows, err := s.SearchMessages(context.Background(), SearchQuery{Term: "deploy", AuthorRole: "assistant"})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "assistant", r.AuthorRole)
	}
}

func TestSearchMessages_TitleContains(t *testing.T) {
	s := newTestStore(t)
	seedArchive(t, s)

	// "Plan" matches "Q3 Planning" via case-insensitive substring.
	rows, err := s.SearchMessages(context.Background(), SearchQuery{Term: "deploy", ConversationTitle: "plan"})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	for _, r := range rows {
		require.NotNil(t, r.Title)
		assert.Equal(t, "Q3 Planning", *r.Title)
	}
}

func TestSearchMessages_NilTitleReturned(t *testing.T) {
	s := newTestStore(t)
	seedArchive(t, s)

	rows, err := s.SearchMessages(context.Background(), SearchQuery{Term: "grocery"})
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Title)
}

func TestSearchMessages_OrderedNewestFirst(t *testing.T) {
	s := newTestStore(t)
	seedArchive(t, s)

	rows, err := s.SearchMessages(context.Background(), SearchQuery{Term: "deploy"})
	require.NoError(t, err)

	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].Timestamp.After(rows[i-1].Timestamp),
			"row %d is newer than row %d", i, i-1)
	}
}

func TestSearchMessages_LimitBoundsRowCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateConversation(ctx, &Conversation{ID: "conv-1", Title: strPtr("bulk")}))
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		require.NoError(t, s.SaveMessage(ctx, &Message{
			ID:             fmt.Sprintf("m%d", i),
			ConversationID: "conv-1",
			AuthorRole:     "user",
			Content:        "needle in message",
			Timestamp:      base.Add(time.Duration(i) * time.Second),
		}))
	}

	rows, err := s.SearchMessages(ctx, SearchQuery{Term: "needle", Limit: 3})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// Zero limit falls back to the default of 10.
	rows, err = s.SearchMessages(ctx, SearchQuery{Term: "needle"})
	require.NoError(t, err)
	assert.Len(t, rows, DefaultSearchLimit)

	// Fewer matches than the limit returns all of them.
	rows, err = s.SearchMessages(ctx, SearchQuery{Term: "needle", Limit: 100})
	require.NoError(t, err)
	assert.Len(t, rows, 15)
}

func TestSearchMessages_WildcardsAreLiteral(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateConversation(ctx, &Conversation{ID: "conv-1", Title: strPtr("notes")}))
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveMessage(ctx, &Message{
		ID: "m1", ConversationID: "conv-1", AuthorRole: "user",
		Content: "completion reached 100% today", Timestamp: base,
	}))
	require.NoError(t, s.SaveMessage(ctx, &Message{
		ID: "m2", ConversationID: "conv-1", AuthorRole: "user",
		Content: "nothing percent related here", Timestamp: base.Add(time.Second),
	}))

	// A literal "%" must not act as a LIKE wildcard.
	rows, err := s.SearchMessages(ctx, SearchQuery{Term: "100%"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "completion reached 100% today", rows[0].Content)

	rows, err = s.SearchMessages(ctx, SearchQuery{Term: "0%_"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBuildSearchQuery_ValuesNeverInterpolated(t *testing.T) {
	q := SearchQuery{
		Term:              "term'; DROP TABLE messages; --",
		AuthorRole:        "user",
		ConversationTitle: "title' OR '1'='1",
		Limit:             5,
	}

	sql, args := buildSearchQuery(q)

	assert.NotContains(t, sql, "DROP TABLE")
	assert.NotContains(t, sql, "1'='1")
	// term, author, title, tool exclusion, limit
	assert.Len(t, args, 5)
	assert.Equal(t, 5, args[len(args)-1])
}

func TestBuildSearchQuery_OptionalFacetsOmitted(t *testing.T) {
	sql, args := buildSearchQuery(SearchQuery{Term: "x"})

	assert.NotContains(t, sql, "m.author_role = ?")
	assert.NotContains(t, sql, "c.title LIKE")
	// term, tool exclusion, limit
	require.Len(t, args, 3)
	assert.Equal(t, DefaultSearchLimit, args[2])
}

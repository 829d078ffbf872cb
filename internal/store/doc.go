// Package store provides persistent storage for the chat archive using SQLite.
//
// # Data Models
//
//   - Conversation: A chat thread with an optional human-readable title
//   - Message: One utterance within a conversation, with author role,
//     body content, and timestamp
//
// Conversation titles are nullable: an untitled conversation stores NULL and
// surfaces as a nil *string, never as an empty string.
//
// # Searching
//
// SearchMessages runs a parameterized query over the archive. Every caller
// value is bound as a placeholder argument; the SQL text itself is assembled
// only from fixed fragments. Filters:
//
//   - Term: case-insensitive substring match on message content (required)
//   - AuthorRole: exact match on the author role (optional)
//   - ConversationTitle: case-insensitive substring match on title (optional)
//
// LIKE wildcard characters (%, _) in caller values are escaped so they match
// literally. Rows authored by the "tool" role are excluded unconditionally.
// Results are ordered newest first and capped by Limit.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Timestamps are stored as RFC 3339 UTC strings so lexicographic ORDER BY
// matches chronological order.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrDuplicateConversation: Conversation ID already exists
//
// All methods accept context.Context for cancellation support.
package store

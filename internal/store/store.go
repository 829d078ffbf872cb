// ABOUTME: Data types and interface for the message archive store
// ABOUTME: Defines Conversation, Message, and search query/row shapes

package store

import (
	"context"
	"errors"
	"time"
)

// Store errors
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateConversation is returned when a conversation ID already exists.
	ErrDuplicateConversation = errors.New("conversation already exists")
)

// RoleTool is the author role excluded from every search result. The
// exclusion is a standing policy; callers cannot filter it back in.
const RoleTool = "tool"

// Conversation is a titled container of messages. Titles are optional.
type Conversation struct {
	ID    string
	Title *string
}

// Message is a single archived chat message.
type Message struct {
	ID             string
	ConversationID string
	AuthorRole     string
	Content        string
	Timestamp      time.Time
}

// SearchQuery describes a message search. Term is required; the optional
// facets narrow the result set. Limit caps the row count.
type SearchQuery struct {
	Term              string
	AuthorRole        string // exact match when non-empty
	ConversationTitle string // case-insensitive contains when non-empty
	Limit             int
}

// SearchRow is one matching message joined with its conversation title.
type SearchRow struct {
	Timestamp  time.Time
	AuthorRole string
	Title      *string
	Content    string
}

// Store is the interface for the message archive.
type Store interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	SaveMessage(ctx context.Context, msg *Message) error
	SearchMessages(ctx context.Context, q SearchQuery) ([]SearchRow, error)
	Close() error
}

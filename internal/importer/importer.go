// ABOUTME: Loads a JSON conversation export into the archive database
// ABOUTME: Assigns IDs where the export omits them and skips duplicates

package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/chatvault/chatvault/internal/store"
)

// Export is the on-disk shape of a conversation dump.
type Export struct {
	Conversations []ExportConversation `json:"conversations"`
}

type ExportConversation struct {
	ID       string          `json:"id"`
	Title    *string         `json:"title"`
	Messages []ExportMessage `json:"messages"`
}

type ExportMessage struct {
	ID         string    `json:"id"`
	AuthorRole string    `json:"author_role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// Stats reports what an import run did.
type Stats struct {
	Conversations int
	Messages      int
	Skipped       int
}

// Importer writes exported conversations into a store.
type Importer struct {
	store  store.Store
	logger *slog.Logger
}

func New(st store.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: st, logger: logger}
}

// Run reads a JSON export and saves every conversation and message. A
// conversation that already exists is skipped, messages included, so the same
// export can be loaded twice without erroring.
func (im *Importer) Run(ctx context.Context, r io.Reader) (*Stats, error) {
	var export Export
	dec := json.NewDecoder(r)
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	stats := &Stats{}
	for i, ec := range export.Conversations {
		conv := &store.Conversation{
			ID:    ec.ID,
			Title: ec.Title,
		}
		if conv.ID == "" {
			conv.ID = uuid.New().String()
		}

		err := im.store.CreateConversation(ctx, conv)
		if errors.Is(err, store.ErrDuplicateConversation) {
			im.logger.Warn("conversation already imported, skipping", "id", conv.ID)
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("conversation %d: %w", i, err)
		}
		stats.Conversations++

		for j, em := range ec.Messages {
			if em.AuthorRole == "" {
				return stats, fmt.Errorf("conversation %d message %d: author_role is required", i, j)
			}
			if em.Content == "" {
				return stats, fmt.Errorf("conversation %d message %d: content is required", i, j)
			}
			if em.Timestamp.IsZero() {
				return stats, fmt.Errorf("conversation %d message %d: timestamp is required", i, j)
			}

			msg := &store.Message{
				ID:             em.ID,
				ConversationID: conv.ID,
				AuthorRole:     em.AuthorRole,
				Content:        em.Content,
				Timestamp:      em.Timestamp,
			}
			if msg.ID == "" {
				msg.ID = uuid.New().String()
			}

			if err := im.store.SaveMessage(ctx, msg); err != nil {
				return stats, fmt.Errorf("conversation %d message %d: %w", i, j, err)
			}
			stats.Messages++
		}
	}

	return stats, nil
}

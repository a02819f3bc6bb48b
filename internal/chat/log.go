// Package chat runs tutoring conversations against the text generation service.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/langtutor/internal/store"
)

// LogEntry is one stored exchange. Response is nil until the tutor has answered.
type LogEntry struct {
	Username    string    `json:"username"`
	Message     string    `json:"message"`
	Response    *string   `json:"response"`
	Mode        string    `json:"mode"`
	Corrections []string  `json:"corrections"`
	Date        time.Time `json:"date"`
}

// Repository reads and appends chat logs.
type Repository struct {
	logs *store.Collection[LogEntry]
}

func NewRepository(s *store.Store) *Repository {
	return &Repository{
		logs: store.NewCollection[LogEntry](s, store.ChatLogs),
	}
}

func (r *Repository) Append(ctx context.Context, entry LogEntry) error {
	if err := r.logs.Append(ctx, entry); err != nil {
		return fmt.Errorf("logs.Append > %w", err)
	}
	return nil
}

// Recent returns up to limit of the user's latest entries in chronological order.
// A negative limit returns every entry.
func (r *Repository) Recent(ctx context.Context, username string, limit int) ([]LogEntry, error) {
	entries, err := r.logs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("logs.All > %w", err)
	}

	var userEntries []LogEntry
	for _, entry := range entries {
		if entry.Username == username {
			userEntries = append(userEntries, entry)
		}
	}
	if limit >= 0 && len(userEntries) > limit {
		userEntries = userEntries[len(userEntries)-limit:]
	}
	return userEntries, nil
}

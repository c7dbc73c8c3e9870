// Package source provides message sources: a bounded backlog read and a
// live subscription, behind a permission check.
package source

import (
	"context"
	"sort"

	"fjacquet/sms-ledger/internal/models"
)

// Handler receives one live message.
type Handler func(msg models.RawMessage)

// Subscription is a live feed handle. Close stops delivery: once it
// returns no further callbacks run. Close is idempotent and must not be
// called from inside the handler.
type Subscription interface {
	Close() error
}

// Source supplies messages to the ingestion pipeline.
//
// Without permission ReadBacklog returns an empty slice and Subscribe returns
// a nil Subscription; neither returns an error for that reason.
type Source interface {
	// HasPermission reports whether the source may be read.
	HasPermission(ctx context.Context) bool

	// ReadBacklog returns at most max messages, most recent first.
	ReadBacklog(ctx context.Context, max int) ([]models.RawMessage, error)

	// Subscribe delivers new messages to handler, in arrival order, until
	// the subscription is closed or ctx is done.
	Subscribe(ctx context.Context, handler Handler) (Subscription, error)
}

// newestFirst sorts messages by receive time descending and truncates to max
// (max <= 0 means no limit). The sort is stable, so equal timestamps keep
// document order.
func newestFirst(messages []models.RawMessage, max int) []models.RawMessage {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].ReceivedAt.After(messages[j].ReceivedAt)
	})
	if max > 0 && len(messages) > max {
		messages = messages[:max]
	}
	return messages
}

// oldestFirst sorts messages by receive time ascending.
func oldestFirst(messages []models.RawMessage) []models.RawMessage {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].ReceivedAt.Before(messages[j].ReceivedAt)
	})
	return messages
}

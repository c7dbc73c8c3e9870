package source

import (
	"context"
	"sync"

	"fjacquet/sms-ledger/internal/models"
)

// MemorySource is an in-process source. Messages added with Push are part
// of the backlog and are delivered to every open subscription.
type MemorySource struct {
	mu          sync.Mutex
	permitted   bool
	messages    []models.RawMessage
	subscribers map[*memorySubscription]struct{}
}

// NewMemorySource creates a source holding messages, with permission granted.
func NewMemorySource(messages ...models.RawMessage) *MemorySource {
	return &MemorySource{
		permitted:   true,
		messages:    append([]models.RawMessage{}, messages...),
		subscribers: map[*memorySubscription]struct{}{},
	}
}

// SetPermission grants or revokes access.
func (s *MemorySource) SetPermission(granted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permitted = granted
}

// HasPermission implements Source.
func (s *MemorySource) HasPermission(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permitted
}

// ReadBacklog implements Source.
func (s *MemorySource) ReadBacklog(ctx context.Context, max int) ([]models.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.permitted {
		return []models.RawMessage{}, nil
	}
	return newestFirst(append([]models.RawMessage{}, s.messages...), max), nil
}

// Subscribe implements Source.
func (s *MemorySource) Subscribe(ctx context.Context, handler Handler) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.permitted {
		return nil, nil
	}

	sub := &memorySubscription{source: s, handler: handler, stop: make(chan struct{})}
	s.subscribers[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.stop:
		}
	}()
	return sub, nil
}

// Push records msg and delivers it synchronously to open subscriptions.
func (s *MemorySource) Push(msg models.RawMessage) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	subs := make([]*memorySubscription, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(msg)
	}
}

// Subscribers returns the number of open subscriptions.
func (s *MemorySource) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

type memorySubscription struct {
	source  *MemorySource
	handler Handler

	// mu serializes delivery with Close.
	mu     sync.Mutex
	closed bool
	stop   chan struct{}
}

func (sub *memorySubscription) deliver(msg models.RawMessage) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.handler(msg)
}

func (sub *memorySubscription) Close() error {
	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return nil
	}
	sub.closed = true
	close(sub.stop)
	sub.mu.Unlock()

	sub.source.mu.Lock()
	delete(sub.source.subscribers, sub)
	sub.source.mu.Unlock()
	return nil
}

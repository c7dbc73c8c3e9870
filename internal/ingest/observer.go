package ingest

import (
	"sync"
	"sync/atomic"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
)

// Observer is notified once per transaction created from a message, after
// the transaction and its message link are committed.
type Observer interface {
	TransactionCreated(tx models.Transaction)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tx models.Transaction)

// TransactionCreated implements Observer.
func (f ObserverFunc) TransactionCreated(tx models.Transaction) {
	f(tx)
}

// ChannelObserver forwards created transactions to a buffered channel.
// When the buffer is full the transaction is dropped and counted, so a slow
// reader never stalls ingestion.
type ChannelObserver struct {
	ch      chan models.Transaction
	dropped atomic.Int64
}

// NewChannelObserver creates an observer with the given buffer size (min 1).
func NewChannelObserver(buffer int) *ChannelObserver {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelObserver{ch: make(chan models.Transaction, buffer)}
}

// TransactionCreated implements Observer.
func (o *ChannelObserver) TransactionCreated(tx models.Transaction) {
	select {
	case o.ch <- tx:
	default:
		o.dropped.Add(1)
	}
}

// C returns the receive side of the channel.
func (o *ChannelObserver) C() <-chan models.Transaction {
	return o.ch
}

// Dropped returns how many notifications were discarded.
func (o *ChannelObserver) Dropped() int64 {
	return o.dropped.Load()
}

// observers is a concurrency-safe observer list.
type observers struct {
	mu     sync.RWMutex
	nextID int
	list   map[int]Observer
	order  []int
	logger logging.Logger
}

func newObservers(logger logging.Logger) *observers {
	return &observers{list: map[int]Observer{}, logger: logger}
}

// add registers o and returns its unsubscribe function.
func (r *observers) add(o Observer) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.list[id] = o
	r.order = append(r.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.list, id)
			for i, v := range r.order {
				if v == id {
					r.order = append(r.order[:i], r.order[i+1:]...)
					break
				}
			}
		})
	}
}

// notify calls every observer in registration order. A panicking observer
// is logged and does not affect the others.
func (r *observers) notify(tx models.Transaction) {
	r.mu.RLock()
	targets := make([]Observer, 0, len(r.order))
	for _, id := range r.order {
		targets = append(targets, r.list[id])
	}
	r.mu.RUnlock()

	for _, o := range targets {
		r.safeNotify(o, tx)
	}
}

func (r *observers) safeNotify(o Observer, tx models.Transaction) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Observer panicked",
				logging.F(logging.FieldTransactionID, tx.ID),
				logging.F("panic", p))
		}
	}()
	o.TransactionCreated(tx)
}

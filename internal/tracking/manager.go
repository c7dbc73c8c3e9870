// Package tracking owns the live message subscription: at most one is
// active per Manager, and starting again replaces it.
package tracking

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"fjacquet/sms-ledger/internal/ingest"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/source"
)

// Ingester is what the manager feeds messages into. ingest.Worker and
// ingest.Pipeline both satisfy it.
type Ingester interface {
	ingest.Ingester
	Subscribe(o ingest.Observer) func()
}

type activeTracking struct {
	sub         source.Subscription
	cancel      context.CancelFunc
	unsubscribe func()
}

// Manager coordinates backlog scans and the live subscription.
type Manager struct {
	mu           sync.Mutex
	src          source.Source
	ingester     Ingester
	backlogLimit int
	logger       logging.Logger

	active     *activeTracking
	generation atomic.Uint64
	lastScan   ingest.ScanSummary
}

// NewManager creates an idle manager.
func NewManager(src source.Source, ingester Ingester, backlogLimit int, logger logging.Logger) *Manager {
	if backlogLimit <= 0 {
		backlogLimit = models.DefaultBacklogLimit
	}
	return &Manager{
		src:          src,
		ingester:     ingester,
		backlogLimit: backlogLimit,
		logger:       logging.OrDefault(logger).WithField(logging.FieldComponent, "tracking"),
	}
}

// Start replaces any active subscription, ingests the backlog once and then
// subscribes to live messages. observer (may be nil) is notified of every
// transaction created while tracking is active.
//
// The returned flag is false when the source has no permission; the
// application then runs in manual-entry-only mode and no error is returned.
func (m *Manager) Start(ctx context.Context, observer ingest.Observer) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()

	if !m.src.HasPermission(ctx) {
		m.logger.Info("Message permission not granted, tracking disabled")
		return false, nil
	}

	unsubscribe := func() {}
	if observer != nil {
		unsubscribe = m.ingester.Subscribe(observer)
	}

	summary, err := ingest.ScanBacklog(ctx, m.src, m.backlogLimit, m.ingester, m.logger)
	m.lastScan = summary
	if err != nil {
		if ctx.Err() != nil {
			unsubscribe()
			return false, err
		}
		m.logger.WithError(err).Warn("Backlog scan failed, continuing with live messages")
	}

	gen := m.generation.Add(1)
	subCtx, cancel := context.WithCancel(ctx)
	handler := func(msg models.RawMessage) {
		if m.generation.Load() != gen {
			m.logger.Debug("Dropping message from stopped subscription",
				logging.F(logging.FieldMessageID, msg.ID))
			return
		}
		m.ingester.Ingest(subCtx, msg)
	}

	sub, err := m.src.Subscribe(subCtx, handler)
	if err != nil {
		cancel()
		unsubscribe()
		m.generation.Add(1)
		return false, fmt.Errorf("subscribe to messages: %w", err)
	}
	if sub == nil {
		cancel()
		unsubscribe()
		m.generation.Add(1)
		m.logger.Info("Message permission revoked, tracking disabled")
		return false, nil
	}

	active := &activeTracking{sub: sub, cancel: cancel, unsubscribe: unsubscribe}
	m.active = active
	go m.releaseWhenDone(subCtx, active)
	m.logger.Info("Tracking started")
	return true, nil
}

// releaseWhenDone stops tracking when the context passed to Start ends.
// Stop and a later Start replace m.active first, making this a no-op.
func (m *Manager) releaseWhenDone(ctx context.Context, active *activeTracking) {
	<-ctx.Done()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != active {
		return
	}
	m.logger.Info("Tracking context ended")
	m.stopLocked()
}

// Stop releases the active subscription, if any. Safe to call repeatedly.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.active == nil {
		return
	}
	m.generation.Add(1)
	m.active.cancel()
	if err := m.active.sub.Close(); err != nil {
		m.logger.WithError(err).Warn("Failed to close message subscription")
	}
	m.active.unsubscribe()
	m.active = nil
	m.logger.Info("Tracking stopped")
}

// Active reports whether a live subscription is open.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil
}

// LastScan returns the summary of the most recent backlog scan.
func (m *Manager) LastScan() ingest.ScanSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastScan
}

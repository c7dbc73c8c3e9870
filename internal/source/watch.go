package source

import (
	"context"
	"fmt"
	"sync"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"github.com/fsnotify/fsnotify"
)

// fileEventHandler reads the messages behind a changed path. ok=false means
// the event is not relevant.
type fileEventHandler func(path string) (messages []models.RawMessage, ok bool)

// watchSubscription runs an fsnotify loop on one directory and delivers
// messages not yet delivered by this subscription.
type watchSubscription struct {
	watcher *fsnotify.Watcher
	handler Handler
	read    fileEventHandler
	logger  logging.Logger

	seen   map[string]struct{}
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func startWatch(ctx context.Context, dir string, seen map[string]struct{}, read fileEventHandler, handler Handler, logger logging.Logger) (*watchSubscription, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if seen == nil {
		seen = map[string]struct{}{}
	}
	ctx, cancel := context.WithCancel(ctx)
	sub := &watchSubscription{
		watcher: watcher,
		handler: handler,
		read:    read,
		logger:  logger,
		seen:    seen,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go sub.watch(ctx)
	return sub, nil
}

func (s *watchSubscription) watch(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			messages, relevant := s.read(event.Name)
			if !relevant {
				continue
			}
			for _, msg := range oldestFirst(messages) {
				if _, dup := s.seen[msg.ID]; dup {
					continue
				}
				// Stop delivering as soon as Close is requested.
				if ctx.Err() != nil {
					return
				}
				s.seen[msg.ID] = struct{}{}
				s.handler(msg)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.WithError(err).Warn("File watcher error")
		}
	}
}

// Close stops the watch loop and waits for it to exit.
func (s *watchSubscription) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		err = s.watcher.Close()
		<-s.done
	})
	return err
}

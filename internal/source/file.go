package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parser"
)

// FileSource reads a single export file (CSV or XML backup). The live feed
// watches the file and delivers messages that appear in later versions.
// Permission means the file exists and is readable.
type FileSource struct {
	path   string
	parser parser.Parser
	logger logging.Logger
}

// NewFileSource creates a file source; parserType selects the export format.
func NewFileSource(path string, parserType parser.ParserType, logger logging.Logger) (*FileSource, error) {
	logger = logging.OrDefault(logger)
	p, err := parser.GetParser(parserType, logger)
	if err != nil {
		return nil, err
	}
	return &FileSource{
		path:   path,
		parser: p,
		logger: logger.WithField(logging.FieldSource, path),
	}, nil
}

// HasPermission implements Source.
func (s *FileSource) HasPermission(ctx context.Context) bool {
	f, err := os.Open(s.path)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	return err == nil && info.Mode().IsRegular()
}

func (s *FileSource) readAll() ([]models.RawMessage, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	messages, err := s.parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return messages, nil
}

// ReadBacklog implements Source.
func (s *FileSource) ReadBacklog(ctx context.Context, max int) ([]models.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.HasPermission(ctx) {
		s.logger.Info("Message file not readable, backlog is empty")
		return []models.RawMessage{}, nil
	}
	messages, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return newestFirst(messages, max), nil
}

// Subscribe implements Source. Messages already in the file when the
// subscription starts are not delivered; the backlog covers them.
func (s *FileSource) Subscribe(ctx context.Context, handler Handler) (Subscription, error) {
	if !s.HasPermission(ctx) {
		return nil, nil
	}

	seen := map[string]struct{}{}
	existing, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for _, msg := range existing {
		seen[msg.ID] = struct{}{}
	}

	target, err := filepath.Abs(s.path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", s.path, err)
	}

	read := func(path string) ([]models.RawMessage, bool) {
		if abs, err := filepath.Abs(path); err != nil || abs != target {
			return nil, false
		}
		messages, err := s.readAll()
		if err != nil {
			// Partially written file; the next write event retries.
			s.logger.WithError(err).Debug("Message file not readable yet")
			return nil, false
		}
		return messages, true
	}

	sub, err := startWatch(ctx, filepath.Dir(target), seen, read, handler, s.logger)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parser"
)

// SpoolSource reads a drop directory: every *.json, *.csv or *.xml file in
// it holds one or more messages. New files are the live feed. Permission
// means the directory exists.
type SpoolSource struct {
	dir    string
	logger logging.Logger
}

// NewSpoolSource creates a spool source on dir.
func NewSpoolSource(dir string, logger logging.Logger) *SpoolSource {
	return &SpoolSource{
		dir:    dir,
		logger: logging.OrDefault(logger).WithField(logging.FieldSource, dir),
	}
}

// HasPermission implements Source.
func (s *SpoolSource) HasPermission(ctx context.Context) bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

func (s *SpoolSource) readFile(path string) ([]models.RawMessage, error) {
	parserType, ok := parser.TypeForFile(path)
	if !ok {
		return nil, nil
	}
	p, err := parser.GetParser(parserType, s.logger)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f)
}

// ReadBacklog implements Source. Unreadable files are skipped with a warning.
func (s *SpoolSource) ReadBacklog(ctx context.Context, max int) ([]models.RawMessage, error) {
	if !s.HasPermission(ctx) {
		s.logger.Info("Spool directory missing, backlog is empty")
		return []models.RawMessage{}, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read spool %s: %w", s.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	messages := []models.RawMessage{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.dir, name)
		fileMessages, err := s.readFile(path)
		if err != nil {
			s.logger.WithError(err).Warn("Skipping unreadable spool file", logging.F(logging.FieldFile, name))
			continue
		}
		messages = append(messages, fileMessages...)
	}
	return newestFirst(messages, max), nil
}

// Subscribe implements Source.
func (s *SpoolSource) Subscribe(ctx context.Context, handler Handler) (Subscription, error) {
	if !s.HasPermission(ctx) {
		return nil, nil
	}

	read := func(path string) ([]models.RawMessage, bool) {
		if _, ok := parser.TypeForFile(path); !ok {
			return nil, false
		}
		messages, err := s.readFile(path)
		if err != nil {
			s.logger.WithError(err).Debug("Spool file not readable yet", logging.F(logging.FieldFile, filepath.Base(path)))
			return nil, false
		}
		return messages, true
	}

	sub, err := startWatch(ctx, s.dir, nil, read, handler, s.logger)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

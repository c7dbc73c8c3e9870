// Package parser reads message exports (CSV, XML backups, JSON drop files)
// into raw messages.
package parser

import (
	"io"

	"fjacquet/sms-ledger/internal/models"
)

// Parser turns one export document into raw messages, in document order.
type Parser interface {
	// Parse reads data from r. Records that cannot be read (for instance a
	// missing timestamp) are skipped with a warning; only a malformed
	// document returns an error.
	Parse(r io.Reader) ([]models.RawMessage, error)
}

package source

import (
	"fmt"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/parser"
)

// Type names a configured message source.
type Type string

const (
	TypeNone   Type = "none"
	TypeCSV    Type = "csv"
	TypeXML    Type = "xml"
	TypeSpool  Type = "spool"
	TypeMemory Type = "memory"
)

// New builds the source for sourceType. TypeNone yields a source without
// permission, which leaves the application in manual-entry-only mode.
func New(sourceType Type, path string, logger logging.Logger) (Source, error) {
	switch sourceType {
	case TypeNone, "":
		none := NewMemorySource()
		none.SetPermission(false)
		return none, nil
	case TypeMemory:
		return NewMemorySource(), nil
	case TypeCSV:
		return NewFileSource(path, parser.CSV, logger)
	case TypeXML:
		return NewFileSource(path, parser.XML, logger)
	case TypeSpool:
		return NewSpoolSource(path, logger), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

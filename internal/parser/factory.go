package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/sms-ledger/internal/logging"
)

// ParserType defines the types of message exports available.
type ParserType string

const (
	CSV  ParserType = "csv"
	XML  ParserType = "xml"
	JSON ParserType = "json"
)

// GetParser returns a new parser for the given type.
func GetParser(parserType ParserType, logger logging.Logger) (Parser, error) {
	switch parserType {
	case CSV:
		return NewCSVParser(logger), nil
	case XML:
		return NewXMLParser(logger), nil
	case JSON:
		return NewJSONParser(logger), nil
	default:
		return nil, fmt.Errorf("unknown parser type: %s", parserType)
	}
}

// TypeForFile picks the parser type from a file extension.
func TypeForFile(path string) (ParserType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, true
	case ".xml":
		return XML, true
	case ".json":
		return JSON, true
	default:
		return "", false
	}
}

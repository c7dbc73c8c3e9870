package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/logging"
)

// BaseParser provides the logger and record helpers shared by all parsers.
//
// Parsers embed BaseParser:
//
//	type MyParser struct {
//		BaseParser
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a BaseParser. A nil logger is replaced by the default adapter.
func NewBaseParser(logger logging.Logger) BaseParser {
	return BaseParser{logger: logging.OrDefault(logger)}
}

// SetLogger replaces the logger; nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	if b.logger == nil {
		b.logger = logging.OrDefault(nil)
	}
	return b.logger
}

var epochDigits = regexp.MustCompile(`^\d{9,13}$`)

// ParseTimestamp reads a message timestamp: epoch milliseconds (as written
// by phone exports), epoch seconds, RFC 3339, or one of the common date
// formats.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if epochDigits.MatchString(value) {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch timestamp %q: %w", value, err)
		}
		if len(value) > 10 {
			return time.UnixMilli(n), nil
		}
		return time.Unix(n, 0), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	t, _, err := dateutils.ParseDate(value)
	return t, err
}

// DeriveMessageID builds a stable identifier for records that carry none,
// from the receive time in milliseconds and the sender.
func DeriveMessageID(receivedAt time.Time, sender string) string {
	sender = strings.ToUpper(strings.TrimSpace(sender))
	if sender == "" {
		return strconv.FormatInt(receivedAt.UnixMilli(), 10)
	}
	return fmt.Sprintf("%d-%s", receivedAt.UnixMilli(), sender)
}

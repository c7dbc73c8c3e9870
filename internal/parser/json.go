package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
)

// jsonMessage is the drop-file shape of a message.
type jsonMessage struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	Body       string `json:"body"`
	ReceivedAt string `json:"receivedAt"`
}

// JSONParser reads one message object or an array of them.
type JSONParser struct {
	BaseParser
}

// NewJSONParser creates a JSON message parser.
func NewJSONParser(logger logging.Logger) *JSONParser {
	return &JSONParser{BaseParser: NewBaseParser(logger)}
}

// Parse implements Parser.
func (p *JSONParser) Parse(r io.Reader) ([]models.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading JSON data: %w", err)
	}

	var records []jsonMessage
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return []models.RawMessage{}, nil
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("error parsing JSON messages: %w", err)
		}
	default:
		var single jsonMessage
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("error parsing JSON message: %w", err)
		}
		records = append(records, single)
	}

	messages := make([]models.RawMessage, 0, len(records))
	for i, rec := range records {
		receivedAt, err := ParseTimestamp(rec.ReceivedAt)
		if err != nil {
			p.GetLogger().WithError(err).Warn("Skipping JSON message without a valid receivedAt",
				logging.F("entry", i+1))
			continue
		}
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			id = DeriveMessageID(receivedAt, rec.Sender)
		}
		messages = append(messages, models.RawMessage{
			ID:         id,
			Sender:     strings.TrimSpace(rec.Sender),
			Body:       rec.Body,
			ReceivedAt: receivedAt,
		})
	}
	return messages, nil
}

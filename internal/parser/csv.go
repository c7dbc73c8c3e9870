package parser

import (
	"io"
	"strings"

	"fjacquet/sms-ledger/internal/common"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
)

// messageRow is one row of a phone SMS export, using the provider's
// column names.
type messageRow struct {
	ID      string `csv:"_id"`
	Address string `csv:"address"`
	Date    string `csv:"date"`
	Body    string `csv:"body"`
}

// CSVParser reads "_id,address,date,body" exports.
type CSVParser struct {
	BaseParser
}

// NewCSVParser creates a CSV message parser.
func NewCSVParser(logger logging.Logger) *CSVParser {
	return &CSVParser{BaseParser: NewBaseParser(logger)}
}

// Parse implements Parser.
func (p *CSVParser) Parse(r io.Reader) ([]models.RawMessage, error) {
	rows, err := common.ReadCSV[messageRow](r)
	if err != nil {
		return nil, err
	}

	messages := make([]models.RawMessage, 0, len(rows))
	for i, row := range rows {
		receivedAt, err := ParseTimestamp(row.Date)
		if err != nil {
			p.GetLogger().WithError(err).Warn("Skipping CSV row without a valid date",
				logging.F("row", i+1))
			continue
		}
		id := strings.TrimSpace(row.ID)
		if id == "" {
			id = DeriveMessageID(receivedAt, row.Address)
		}
		messages = append(messages, models.RawMessage{
			ID:         id,
			Sender:     strings.TrimSpace(row.Address),
			Body:       row.Body,
			ReceivedAt: receivedAt,
		})
	}

	p.GetLogger().Debug("Parsed CSV messages", logging.F(logging.FieldCount, len(messages)))
	return messages, nil
}

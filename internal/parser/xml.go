package parser

import (
	"io"
	"strings"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/xmlutils"
)

// XMLParser reads SMS backup files (<smses><sms .../></smses>). Only
// received messages are returned, with line breaks in bodies collapsed.
type XMLParser struct {
	BaseParser
}

// NewXMLParser creates an XML backup parser.
func NewXMLParser(logger logging.Logger) *XMLParser {
	return &XMLParser{BaseParser: NewBaseParser(logger)}
}

// Parse implements Parser.
func (p *XMLParser) Parse(r io.Reader) ([]models.RawMessage, error) {
	root, err := xmlutils.ParseXML(r)
	if err != nil {
		return nil, err
	}

	nodes, err := xmlutils.Nodes(root, xmlutils.SMSBackup.Message)
	if err != nil {
		return nil, err
	}

	messages := make([]models.RawMessage, 0, len(nodes))
	for i, node := range nodes {
		if kind := xmlutils.Value(node, xmlutils.SMSBackup.Type); kind != "" && kind != xmlutils.SMSTypeInbox {
			continue
		}

		receivedAt, err := ParseTimestamp(xmlutils.Value(node, xmlutils.SMSBackup.Date))
		if err != nil {
			p.GetLogger().WithError(err).Warn("Skipping backup entry without a valid date",
				logging.F("entry", i+1))
			continue
		}

		sender := strings.TrimSpace(xmlutils.Value(node, xmlutils.SMSBackup.Address))
		id := strings.TrimSpace(xmlutils.Value(node, xmlutils.SMSBackup.ID))
		if id == "" {
			id = DeriveMessageID(receivedAt, sender)
		}

		messages = append(messages, models.RawMessage{
			ID:         id,
			Sender:     sender,
			Body:       xmlutils.CleanText(xmlutils.Value(node, xmlutils.SMSBackup.Body)),
			ReceivedAt: receivedAt,
		})
	}

	p.GetLogger().Debug("Parsed XML backup messages", logging.F(logging.FieldCount, len(messages)))
	return messages, nil
}

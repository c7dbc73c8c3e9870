// Package smsparser turns bank notification text into transaction drafts.
package smsparser

import (
	"time"

	"fjacquet/sms-ledger/internal/banks"
	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parser"
	"fjacquet/sms-ledger/internal/parsererror"
	"fjacquet/sms-ledger/internal/textutils"
)

const parserName = "SMSParser"

// Parser orchestrates the sender classifier and the field extractors.
// It has no side effects besides debug logging and is safe for concurrent use.
type Parser struct {
	parser.BaseParser
	banks *banks.Registry
}

// NewParser creates a parser using registry to recognize bank senders.
// A nil registry means the built-in senders.
func NewParser(registry *banks.Registry, logger logging.Logger) *Parser {
	if registry == nil {
		registry = banks.DefaultRegistry()
	}
	return &Parser{
		BaseParser: parser.NewBaseParser(logger),
		banks:      registry,
	}
}

// Parse extracts a draft from body. It returns a *parsererror.ParseError
// wrapping ErrNotBankSender, ErrAmountNotFound or ErrDirectionNotFound when
// the message must be rejected; no partial draft is ever returned.
func (p *Parser) Parse(body, sender string, receivedAt time.Time) (models.TransactionDraft, error) {
	if !p.banks.IsBankSender(sender) {
		return models.TransactionDraft{}, p.reject("sender", sender, parsererror.ErrNotBankSender)
	}

	amount, ok := textutils.ExtractAmount(body)
	if !ok {
		return models.TransactionDraft{}, p.reject("amount", body, parsererror.ErrAmountNotFound)
	}

	direction, ok := textutils.ExtractDirection(body)
	if !ok {
		return models.TransactionDraft{}, p.reject("direction", body, parsererror.ErrDirectionNotFound)
	}

	return models.TransactionDraft{
		Amount:      amount,
		Direction:   models.Direction(direction),
		OccurredAt:  dateutils.ExtractDate(body, receivedAt),
		BankName:    p.banks.ResolveBankName(sender),
		Description: textutils.ExtractDescription(body),
	}, nil
}

// IsBankSender exposes the parser's sender gate.
func (p *Parser) IsBankSender(sender string) bool {
	return p.banks.IsBankSender(sender)
}

func (p *Parser) reject(field, value string, reason error) error {
	p.GetLogger().Debug("Message rejected",
		logging.F(logging.FieldReason, reason.Error()),
		logging.F("field", field))
	return &parsererror.ParseError{
		Parser: parserName,
		Field:  field,
		Value:  textutils.Truncate(value, 40),
		Err:    reason,
	}
}

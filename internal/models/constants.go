package models

// Direction says whether money left (debit) or entered (credit) the account.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// TransactionSource records how a transaction entered the ledger.
type TransactionSource string

const (
	SourceSMS    TransactionSource = "sms"
	SourceManual TransactionSource = "manual"
)

// MessageStatus is the ingestion state of a raw message.
type MessageStatus string

const (
	// MessageStatusPending is stored but not processed; rescanned on every backlog scan.
	MessageStatusPending MessageStatus = "pending"
	// MessageStatusLinked is processed and linked to exactly one transaction.
	MessageStatusLinked MessageStatus = "linked"
	// MessageStatusUnparseable is processed without a transaction.
	MessageStatusUnparseable MessageStatus = "unparseable"
)

// Limits shared by validation and persistence.
const (
	MaxNotesLength      = 200
	MaxAmountDecimals   = 2
	DefaultBacklogLimit = 1000
	DefaultCurrency     = "INR"
)

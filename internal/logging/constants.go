package logging

// Field names shared by every component so log lines can be filtered consistently.
const (
	FieldMessageID     = "message_id"
	FieldSender        = "sender"
	FieldBank          = "bank"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldDirection     = "direction"
	FieldAmount        = "amount"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldOutcome       = "outcome"
	FieldSource        = "source"
	FieldCount         = "count"
	FieldAttempts      = "parse_attempts"
	FieldDuration      = "duration_ms"
	FieldFile          = "file_path"
	FieldComponent     = "component"
)

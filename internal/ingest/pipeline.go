// Package ingest turns raw messages into transactions exactly once per
// message identifier.
package ingest

import (
	"context"
	"fmt"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"
)

// Store is the persistence the pipeline needs.
type Store interface {
	IsProcessed(ctx context.Context, id string) (bool, error)
	StoreMessageIfAbsent(ctx context.Context, msg models.RawMessage) (bool, error)
	FindTransactionBySourceMessageID(ctx context.Context, messageID string) (models.Transaction, bool, error)
	MarkProcessed(ctx context.Context, id, transactionID string) error
	CreateSMSTransaction(ctx context.Context, t models.Transaction) error
	RecordParseFailure(ctx context.Context, id string, maxAttempts int) (int, bool, error)
}

// MessageParser extracts a draft from a message, or rejects it.
type MessageParser interface {
	Parse(body, sender string, receivedAt time.Time) (models.TransactionDraft, error)
}

// Classifier maps a description to a category.
type Classifier interface {
	Classify(description string) models.Category
}

// Ingester ingests one message. Both Pipeline and Worker implement it.
type Ingester interface {
	Ingest(ctx context.Context, msg models.RawMessage) Result
}

// UnparseablePolicy decides what happens to messages the parser rejects.
type UnparseablePolicy string

const (
	// PolicyRetry leaves rejected messages unprocessed so every backlog scan retries them.
	PolicyRetry UnparseablePolicy = "retry"
	// PolicyMark marks rejected messages processed without a transaction.
	PolicyMark UnparseablePolicy = "mark"
)

// Options tunes a Pipeline.
type Options struct {
	Policy UnparseablePolicy
	// MaxParseAttempts > 0 caps PolicyRetry: the message is marked
	// unparseable once it has been rejected that many times.
	MaxParseAttempts int
	Now              func() time.Time
}

// Outcome is what ingesting one message did.
type Outcome string

const (
	OutcomeCreated          Outcome = "created"
	OutcomeSkippedProcessed Outcome = "skipped_processed"
	OutcomeRecovered        Outcome = "recovered"
	OutcomeUnparseable      Outcome = "unparseable"
	OutcomeFailed           Outcome = "failed"
)

// Result reports the outcome for one message. Transaction is set for
// OutcomeCreated and OutcomeRecovered; Err for OutcomeFailed.
type Result struct {
	MessageID   string
	Outcome     Outcome
	Transaction *models.Transaction
	Err         error
}

// Pipeline is the stateful ingestion core. Calls for the same message must
// not run concurrently; Worker serializes them.
type Pipeline struct {
	store      Store
	parser     MessageParser
	classifier Classifier
	opts       Options
	observers  *observers
	logger     logging.Logger
}

// NewPipeline creates a pipeline.
func NewPipeline(store Store, parser MessageParser, classifier Classifier, opts Options, logger logging.Logger) *Pipeline {
	logger = logging.OrDefault(logger).WithField(logging.FieldComponent, "ingest")
	if opts.Policy == "" {
		opts.Policy = PolicyRetry
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		store:      store,
		parser:     parser,
		classifier: classifier,
		opts:       opts,
		observers:  newObservers(logger),
		logger:     logger,
	}
}

// Subscribe registers an observer and returns its unsubscribe function.
func (p *Pipeline) Subscribe(o Observer) func() {
	return p.observers.add(o)
}

// Ingest converts msg into at most one transaction. Errors never escape:
// they are logged and reported as OutcomeFailed, leaving the message
// unprocessed for the next backlog scan.
func (p *Pipeline) Ingest(ctx context.Context, msg models.RawMessage) Result {
	log := p.logger.WithFields(
		logging.F(logging.FieldMessageID, msg.ID),
		logging.F(logging.FieldSender, msg.Sender),
	)

	if msg.ID == "" {
		return p.fail(log, msg, "validate", &parsererror.ValidationError{Field: "id", Reason: "message identifier is empty"})
	}

	processed, err := p.store.IsProcessed(ctx, msg.ID)
	if err != nil {
		return p.fail(log, msg, "dedup check", err)
	}
	if processed {
		log.Debug("Message already processed", logging.F(logging.FieldOutcome, OutcomeSkippedProcessed))
		return Result{MessageID: msg.ID, Outcome: OutcomeSkippedProcessed}
	}

	if _, err := p.store.StoreMessageIfAbsent(ctx, msg); err != nil {
		return p.fail(log, msg, "store message", err)
	}

	// A transaction may already reference this message if a previous run
	// stopped between the insert and the processed flag.
	existing, found, err := p.store.FindTransactionBySourceMessageID(ctx, msg.ID)
	if err != nil {
		return p.fail(log, msg, "secondary dedup", err)
	}
	if found {
		if err := p.store.MarkProcessed(ctx, msg.ID, existing.ID); err != nil {
			return p.fail(log, msg, "repair link", err)
		}
		log.Info("Repaired link to existing transaction",
			logging.F(logging.FieldTransactionID, existing.ID),
			logging.F(logging.FieldOutcome, OutcomeRecovered))
		return Result{MessageID: msg.ID, Outcome: OutcomeRecovered, Transaction: &existing}
	}

	draft, err := p.parser.Parse(msg.Body, msg.Sender, msg.ReceivedAt)
	if err != nil {
		if !parsererror.IsUnparseable(err) {
			return p.fail(log, msg, "parse", err)
		}
		return p.unparseable(ctx, log, msg, err)
	}

	category := p.classifier.Classify(draft.Description)
	tx := models.NewSMSTransaction(draft, category, msg.ID, p.opts.Now())

	if err := p.store.CreateSMSTransaction(ctx, tx); err != nil {
		return p.fail(log, msg, "create transaction", err)
	}

	log.Info("Transaction created from message",
		logging.F(logging.FieldTransactionID, tx.ID),
		logging.F(logging.FieldBank, tx.BankName),
		logging.F(logging.FieldDirection, tx.Direction),
		logging.F(logging.FieldAmount, tx.Amount.StringFixed(2)),
		logging.F(logging.FieldCategory, tx.Category),
		logging.F(logging.FieldOutcome, OutcomeCreated))

	p.observers.notify(tx)
	return Result{MessageID: msg.ID, Outcome: OutcomeCreated, Transaction: &tx}
}

func (p *Pipeline) unparseable(ctx context.Context, log logging.Logger, msg models.RawMessage, reason error) Result {
	attempts, terminal, err := p.store.RecordParseFailure(ctx, msg.ID, p.maxAttempts())
	if err != nil {
		return p.fail(log, msg, "record parse failure", err)
	}

	log.Debug("Message not parseable",
		logging.F(logging.FieldReason, reason.Error()),
		logging.F(logging.FieldAttempts, attempts),
		logging.F("terminal", terminal),
		logging.F(logging.FieldOutcome, OutcomeUnparseable))
	return Result{MessageID: msg.ID, Outcome: OutcomeUnparseable}
}

// maxAttempts is the rejection count at which a message stops being retried.
func (p *Pipeline) maxAttempts() int {
	if p.opts.Policy == PolicyMark {
		return 1
	}
	return p.opts.MaxParseAttempts
}

func (p *Pipeline) fail(log logging.Logger, msg models.RawMessage, op string, err error) Result {
	log.WithError(err).Error("Message ingestion failed",
		logging.F(logging.FieldOperation, op),
		logging.F(logging.FieldOutcome, OutcomeFailed))
	return Result{MessageID: msg.ID, Outcome: OutcomeFailed, Err: fmt.Errorf("%s: %w", op, err)}
}

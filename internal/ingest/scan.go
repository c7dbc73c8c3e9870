package ingest

import (
	"context"
	"fmt"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/source"
)

// ScanSummary counts what one backlog scan did.
type ScanSummary struct {
	Permission  bool
	Read        int
	Created     int
	Skipped     int
	Recovered   int
	Unparseable int
	Failed      int
	Duration    time.Duration
}

func (s *ScanSummary) add(r Result) {
	switch r.Outcome {
	case OutcomeCreated:
		s.Created++
	case OutcomeSkippedProcessed:
		s.Skipped++
	case OutcomeRecovered:
		s.Recovered++
	case OutcomeUnparseable:
		s.Unparseable++
	default:
		s.Failed++
	}
}

// ScanBacklog reads at most limit messages from src and ingests them in the
// order the source returns them. Per-message failures are counted, never
// returned; the error is only set when the backlog cannot be read or ctx
// is cancelled mid-scan.
func ScanBacklog(ctx context.Context, src source.Source, limit int, ingester Ingester, logger logging.Logger) (ScanSummary, error) {
	logger = logging.OrDefault(logger)
	start := time.Now()
	var summary ScanSummary

	if limit <= 0 {
		limit = models.DefaultBacklogLimit
	}

	if !src.HasPermission(ctx) {
		logger.Info("Message source unavailable, manual entry only")
		return summary, nil
	}
	summary.Permission = true

	msgs, err := src.ReadBacklog(ctx, limit)
	if err != nil {
		return summary, fmt.Errorf("read backlog: %w", err)
	}
	summary.Read = len(msgs)

	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}
		summary.add(ingester.Ingest(ctx, msg))
	}
	summary.Duration = time.Since(start)

	logger.Info("Backlog scan finished",
		logging.F(logging.FieldCount, summary.Read),
		logging.F("created", summary.Created),
		logging.F("skipped", summary.Skipped),
		logging.F("recovered", summary.Recovered),
		logging.F("unparseable", summary.Unparseable),
		logging.F("failed", summary.Failed),
		logging.F(logging.FieldDuration, summary.Duration.Milliseconds()))
	return summary, nil
}

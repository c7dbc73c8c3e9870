// Package ingest holds the commands that read bank messages into the ledger.
package ingest

import (
	"fmt"
	"os/signal"
	"syscall"

	"fjacquet/sms-ledger/cmd/common"
	"fjacquet/sms-ledger/cmd/root"
	pipeline "fjacquet/sms-ledger/internal/ingest"
	"fjacquet/sms-ledger/internal/models"

	"github.com/spf13/cobra"
)

var limit int

// Cmd runs one backlog scan
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the message backlog once",
	Long: `Read the most recent messages from the configured source and turn every
bank notification into a transaction. Messages already processed are skipped,
so running ingest repeatedly never creates duplicates.

Example:
  sms-ledger ingest --source csv --source-path sms-export.csv`,
	RunE: ingestFunc,
}

// WatchCmd scans the backlog and then follows new messages.
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest the backlog, then follow new messages until interrupted",
	Long: `Scan the backlog once, then subscribe to the message source and ingest each
new message as it arrives. Stops on Ctrl-C (SIGINT) or SIGTERM.

Example:
  sms-ledger watch --source spool --source-path ~/sms-spool`,
	RunE: watchFunc,
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of recent messages to read (default: ingest.backlog_limit)")
}

func backlogLimit() int {
	if limit > 0 {
		return limit
	}
	return root.Config().Ingest.BacklogLimit
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	app, err := root.Container()
	if err != nil {
		return err
	}

	summary, err := pipeline.ScanBacklog(common.Context(cmd), app.GetSource(), backlogLimit(), app.GetIngester(), root.Log)
	if err != nil {
		return fmt.Errorf("backlog scan failed: %w", err)
	}
	root.Printer(cmd).ScanSummary(summary)
	return nil
}

func watchFunc(cmd *cobra.Command, args []string) error {
	app, err := root.Container()
	if err != nil {
		return err
	}
	printer := root.Printer(cmd)

	ctx, stop := signal.NotifyContext(common.Context(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := app.GetTracking()
	started, err := manager.Start(ctx, pipeline.ObserverFunc(func(tx models.Transaction) {
		printer.Transaction(tx)
	}))
	if err != nil {
		return err
	}
	printer.ScanSummary(manager.LastScan())
	if !started {
		return nil
	}
	defer manager.Stop()

	printer.Info("Watching for new messages, press Ctrl-C to stop")
	<-ctx.Done()
	printer.Info("Stopped")
	return nil
}

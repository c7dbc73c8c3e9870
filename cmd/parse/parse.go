// Package parse provides dry-run commands that never touch the database.
package parse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/container"
	"fjacquet/sms-ledger/internal/parser"
	"fjacquet/sms-ledger/internal/parsererror"

	"github.com/spf13/cobra"
)

var (
	body       string
	sender     string
	receivedAt string
)

// Cmd parses one message body without storing it
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse one bank message without storing it",
	Long: `Run the extractor on a single message and print the transaction it would
produce, or the reason it was rejected.

Example:
  sms-ledger parse --sender VM-HDFCBK --body "Rs.1,250.00 debited from your account on 05-03-2024 for purchase at Amazon"`,
	RunE: parseFunc,
}

// CategorizeCmd classifies a description
var CategorizeCmd = &cobra.Command{
	Use:   "categorize <description>",
	Short: "Show the category a description maps to",
	Long: `Classify a merchant or description with the built-in keywords plus those
from categories.yaml. Unmatched descriptions are Others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&body, "body", "B", "", "Message body")
	Cmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender id, e.g. HDFCBK or VM-HDFCBK")
	Cmd.Flags().StringVarP(&receivedAt, "received", "r", "", "Receipt time, epoch or date (default: now)")
	_ = Cmd.MarkFlagRequired("body")
	_ = Cmd.MarkFlagRequired("sender")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	at := time.Now()
	if receivedAt != "" {
		t, err := parser.ParseTimestamp(receivedAt)
		if err != nil {
			return fmt.Errorf("invalid --received: %w", err)
		}
		at = t
	}

	_, _, smsParser, cat := container.NewParsing(root.Config(), root.Log)
	printer := root.Printer(cmd)

	draft, err := smsParser.Parse(body, sender, at)
	if err != nil {
		var parseErr *parsererror.ParseError
		if errors.As(err, &parseErr) {
			printer.Warning("Not a transaction: %v", parseErr.Err)
			return nil
		}
		return err
	}
	printer.Draft(draft, cat.Classify(draft.Description))
	return nil
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	_, _, _, cat := container.NewParsing(root.Config(), root.Log)
	fmt.Fprintln(cmd.OutOrStdout(), cat.Classify(strings.Join(args, " ")))
	return nil
}

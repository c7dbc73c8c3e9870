// Package budget holds the budget and monthly summary commands.
package budget

import (
	"fmt"
	"strings"

	"fjacquet/sms-ledger/cmd/common"
	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var summaryMonth string

// Cmd shows or sets the monthly budget
var Cmd = &cobra.Command{
	Use:   "budget [amount]",
	Short: "Show or set the monthly budget",
	Long: `Without an argument, print the monthly budget. With an amount, set it.
An amount of 0 removes the budget.

Example:
  sms-ledger budget 25000`,
	Args: cobra.MaximumNArgs(1),
	RunE: budgetFunc,
}

// SummaryCmd prints the dashboard for a month
var SummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show balance, monthly spending, budget and category totals",
	RunE:  summaryFunc,
}

func init() {
	SummaryCmd.Flags().StringVarP(&summaryMonth, "month", "m", "", "Month as YYYY-MM (default: current month)")
}

func budgetFunc(cmd *cobra.Command, args []string) error {
	app, err := root.Container()
	if err != nil {
		return err
	}
	service := app.GetLedger()
	printer := root.Printer(cmd)
	ctx := common.Context(cmd)

	if len(args) == 0 {
		amount, ok, err := service.GetBudget(ctx)
		if err != nil {
			return err
		}
		if !ok {
			printer.Info("No monthly budget set")
			return nil
		}
		printer.Info("Monthly budget: %s", printer.Amount(amount))
		return nil
	}

	amount, err := parseBudget(args[0])
	if err != nil {
		return err
	}
	if err := service.SetBudget(ctx, amount); err != nil {
		return err
	}
	if amount.IsZero() {
		printer.Success("Monthly budget removed")
		return nil
	}
	printer.Success("Monthly budget set to %s", printer.Amount(amount))
	return nil
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	app, err := root.Container()
	if err != nil {
		return err
	}
	dashboard, err := app.GetLedger().Dashboard(common.Context(cmd), summaryMonth)
	if err != nil {
		return err
	}
	root.Printer(cmd).Dashboard(dashboard)
	return nil
}

// parseBudget accepts "0" as well as positive amounts; range checks happen
// in the ledger.
func parseBudget(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
	if err != nil {
		return decimal.Zero, &parsererror.ValidationError{Field: "budget", Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return amount, nil
}

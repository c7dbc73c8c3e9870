// Package transactions holds the commands that add, list, edit, delete and
// export ledger transactions.
package transactions

import (
	"fmt"
	"time"

	"fjacquet/sms-ledger/cmd/common"
	"fjacquet/sms-ledger/cmd/root"
	csvutil "fjacquet/sms-ledger/internal/common"
	"fjacquet/sms-ledger/internal/ledger"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/validation"

	"github.com/spf13/cobra"
)

// entryFlags are shared by add and edit.
type entryFlags struct {
	Amount      string
	Direction   string
	Category    string
	Date        string
	Description string
	Bank        string
	Notes       string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Amount, "amount", "a", "", "Amount, at most 2 decimals")
	cmd.Flags().StringVarP(&f.Direction, "direction", "d", "debit", "debit or credit")
	cmd.Flags().StringVarP(&f.Category, "category", "c", "Others", "Category")
	cmd.Flags().StringVarP(&f.Date, "date", "t", "", "Date, e.g. 2024-03-05 (default: today)")
	cmd.Flags().StringVarP(&f.Description, "description", "D", "", "Description or merchant")
	cmd.Flags().StringVarP(&f.Bank, "bank", "b", "", "Bank or account name")
	cmd.Flags().StringVarP(&f.Notes, "notes", "n", "", "Free-text notes (max 200 characters)")
}

var (
	addFlags    entryFlags
	editFlags   entryFlags
	listFilters common.FilterFlags
	listCSV     bool

	exportFilters common.FilterFlags
	exportOutput  string
)

// AddCmd records a manual transaction
var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction by hand",
	Long: `Record a cash or otherwise untracked transaction.

Example:
  sms-ledger add -a 450 -c Food -D "Lunch" -t 2024-03-05`,
	RunE: addFunc,
}

// ListCmd prints transactions
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE:  listFunc,
}

// EditCmd changes fields of a transaction
var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit fields of a transaction",
	Long: `Change only the fields whose flags are given.

Example:
  sms-ledger edit 1709631000000-1a2b3c4d5e6f -c Bills -n "quarterly"`,
	Args: cobra.ExactArgs(1),
	RunE: editFunc,
}

// DeleteCmd removes a transaction
var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Long: `Delete a transaction. A message it was created from stays processed and
will not be ingested again.`,
	Args: cobra.ExactArgs(1),
	RunE: deleteFunc,
}

// ExportCmd writes transactions to a CSV file
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export transactions to CSV",
	Long: `Write the filtered transactions to a CSV file using export.delimiter.

Example:
  sms-ledger export -o march.csv -m 2024-03`,
	RunE: exportFunc,
}

func init() {
	addFlags.register(AddCmd)
	_ = AddCmd.MarkFlagRequired("amount")
	_ = AddCmd.MarkFlagRequired("description")

	editFlags.register(EditCmd)

	listFilters.Register(ListCmd)
	ListCmd.Flags().BoolVar(&listCSV, "csv", false, "Print CSV instead of a table")

	exportFilters.Register(ExportCmd)
	ExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output CSV file")
	_ = ExportCmd.MarkFlagRequired("output")
}

func addFunc(cmd *cobra.Command, args []string) error {
	now := time.Now()
	amount, err := validation.ParseAmount(addFlags.Amount)
	if err != nil {
		return err
	}
	direction, err := validation.Direction(addFlags.Direction)
	if err != nil {
		return err
	}
	category, err := validation.Category(addFlags.Category)
	if err != nil {
		return err
	}
	date, err := common.DateOrToday(addFlags.Date, now)
	if err != nil {
		return err
	}

	app, err := root.Container()
	if err != nil {
		return err
	}
	tx, err := app.GetLedger().AddManual(common.Context(cmd), ledger.ManualEntry{
		Amount:      amount,
		Direction:   direction,
		Category:    category,
		OccurredAt:  date,
		Description: addFlags.Description,
		BankName:    addFlags.Bank,
		Notes:       addFlags.Notes,
	})
	if err != nil {
		return err
	}

	printer := root.Printer(cmd)
	printer.Success("Added %s", tx.ID)
	printer.TransactionDetail(tx)
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	filters, err := listFilters.Filters()
	if err != nil {
		return err
	}
	app, err := root.Container()
	if err != nil {
		return err
	}
	txs, err := app.GetLedger().List(common.Context(cmd), filters)
	if err != nil {
		return err
	}
	if listCSV {
		return csvutil.WriteTransactionsCSV(cmd.OutOrStdout(), txs, root.Config().Delimiter())
	}
	root.Printer(cmd).Transactions(txs)
	return nil
}

func (f *entryFlags) update(cmd *cobra.Command) (models.TransactionUpdate, error) {
	var update models.TransactionUpdate
	changed := cmd.Flags().Changed

	if changed("amount") {
		amount, err := validation.ParseAmount(f.Amount)
		if err != nil {
			return update, err
		}
		update.Amount = &amount
	}
	if changed("direction") {
		direction, err := validation.Direction(f.Direction)
		if err != nil {
			return update, err
		}
		update.Direction = &direction
	}
	if changed("category") {
		category, err := validation.Category(f.Category)
		if err != nil {
			return update, err
		}
		update.Category = &category
	}
	if changed("date") {
		date, err := validation.ParseDate(f.Date, time.Now())
		if err != nil {
			return update, err
		}
		update.OccurredAt = &date
	}
	if changed("description") {
		update.Description = &f.Description
	}
	if changed("bank") {
		update.BankName = &f.Bank
	}
	if changed("notes") {
		update.Notes = &f.Notes
	}
	return update, nil
}

func editFunc(cmd *cobra.Command, args []string) error {
	update, err := editFlags.update(cmd)
	if err != nil {
		return err
	}
	app, err := root.Container()
	if err != nil {
		return err
	}
	tx, err := app.GetLedger().Update(common.Context(cmd), args[0], update)
	if err != nil {
		return err
	}
	printer := root.Printer(cmd)
	printer.Success("Updated %s", tx.ID)
	printer.TransactionDetail(tx)
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	app, err := root.Container()
	if err != nil {
		return err
	}
	if err := app.GetLedger().Delete(common.Context(cmd), args[0]); err != nil {
		return err
	}
	root.Printer(cmd).Success("Deleted %s", args[0])
	return nil
}

func exportFunc(cmd *cobra.Command, args []string) error {
	filters, err := exportFilters.Filters()
	if err != nil {
		return err
	}
	app, err := root.Container()
	if err != nil {
		return err
	}
	txs, err := app.GetLedger().List(common.Context(cmd), filters)
	if err != nil {
		return err
	}
	if err := csvutil.WriteTransactionsToCSV(txs, exportOutput, root.Config().Delimiter(), root.Log); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	root.Printer(cmd).Success("Exported %d transaction(s) to %s", len(txs), exportOutput)
	return nil
}

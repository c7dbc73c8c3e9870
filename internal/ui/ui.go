// Package ui renders ledger data for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/ingest"
	"fjacquet/sms-ledger/internal/ledger"
	"fjacquet/sms-ledger/internal/models"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

const descriptionWidth = 40

// Printer writes formatted output to a writer.
type Printer struct {
	out      io.Writer
	currency string
}

// NewPrinter creates a printer; amounts are rendered in currency.
func NewPrinter(out io.Writer, currency string) *Printer {
	return &Printer{out: out, currency: currency}
}

// Header prints a formatted header.
func (p *Printer) Header(text string) {
	line := strings.Repeat("=", 60)
	green.Fprintf(p.out, "%s\n", line)
	green.Fprintf(p.out, "%s\n", center(text, 60))
	green.Fprintf(p.out, "%s\n", line)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...interface{}) {
	green.Fprintf(p.out, "  → %s\n", fmt.Sprintf(format, args...))
}

// Info prints an info message.
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "  → %s\n", fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (p *Printer) Warning(format string, args ...interface{}) {
	yellow.Fprintf(p.out, "  ⚠ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...interface{}) {
	red.Fprintf(p.out, "Error: %s\n", fmt.Sprintf(format, args...))
}

// Amount formats amount in the printer's currency.
func (p *Printer) Amount(amount decimal.Decimal) string {
	return models.FormatAmount(amount, p.currency)
}

func (p *Printer) signed(tx models.Transaction) string {
	if tx.Direction == models.DirectionDebit {
		return red.Sprint("-" + p.Amount(tx.Amount))
	}
	return green.Sprint("+" + p.Amount(tx.Amount))
}

// Transaction prints one transaction on a single line.
func (p *Printer) Transaction(tx models.Transaction) {
	fmt.Fprintf(p.out, "%s  %-14s  %-13s  %-12s  %s\n",
		dateutils.ToISODate(tx.OccurredAt),
		p.signed(tx),
		tx.Category,
		truncate(tx.BankName, 12),
		truncate(tx.Description, descriptionWidth))
}

// Transactions prints a list, newest first as given.
func (p *Printer) Transactions(txs []models.Transaction) {
	if len(txs) == 0 {
		p.Info("No transactions")
		return
	}
	bold.Fprintf(p.out, "%-10s  %-14s  %-13s  %-12s  %s\n", "Date", "Amount", "Category", "Bank", "Description")
	for _, tx := range txs {
		p.Transaction(tx)
	}
	fmt.Fprintf(p.out, "%d transaction(s)\n", len(txs))
}

// TransactionDetail prints every field of tx.
func (p *Printer) TransactionDetail(tx models.Transaction) {
	rows := [][2]string{
		{"ID", tx.ID},
		{"Date", dateutils.ToISODate(tx.OccurredAt)},
		{"Direction", string(tx.Direction)},
		{"Amount", p.Amount(tx.Amount)},
		{"Category", string(tx.Category)},
		{"Description", tx.Description},
		{"Bank", tx.BankName},
		{"Source", string(tx.Source)},
	}
	if tx.SourceMessageID != "" {
		rows = append(rows, [2]string{"Message", tx.SourceMessageID})
	}
	if tx.Notes != "" {
		rows = append(rows, [2]string{"Notes", tx.Notes})
	}
	for _, row := range rows {
		cyan.Fprintf(p.out, "%-12s", row[0])
		fmt.Fprintf(p.out, " %s\n", row[1])
	}
}

// Draft prints a parse result that has not been stored.
func (p *Printer) Draft(draft models.TransactionDraft, category models.Category) {
	p.TransactionDetail(models.Transaction{
		Amount:      draft.Amount,
		Direction:   draft.Direction,
		Category:    category,
		OccurredAt:  draft.OccurredAt,
		Description: draft.Description,
		BankName:    draft.BankName,
		Source:      models.SourceSMS,
	})
}

// Dashboard prints the monthly summary.
func (p *Printer) Dashboard(d ledger.Dashboard) {
	p.Header("Summary " + d.Month)
	if !d.From.IsZero() {
		fmt.Fprintf(p.out, "%-18s %s to %s\n", "Period", dateutils.ToISODate(d.From), dateutils.ToISODate(d.To))
	}
	fmt.Fprintf(p.out, "%-18s %s\n", "Balance", p.colored(d.Balance))
	fmt.Fprintf(p.out, "%-18s %s\n", "Monthly expenses", p.Amount(d.MonthlyExpenses))
	if d.BudgetSet {
		fmt.Fprintf(p.out, "%-18s %s\n", "Budget", p.Amount(d.Budget))
		fmt.Fprintf(p.out, "%-18s %s\n", "Remaining", p.colored(d.Remaining))
		if d.OverBudget {
			p.Warning("Budget exceeded by %s", p.Amount(d.Remaining.Abs()))
		}
	} else {
		fmt.Fprintf(p.out, "%-18s %s\n", "Budget", "no limit")
	}

	if len(d.CategoryTotals) == 0 {
		return
	}
	bold.Fprintln(p.out, "\nSpending by category")
	for _, ct := range d.CategoryTotals {
		share := ""
		if d.MonthlyExpenses.IsPositive() {
			share = ct.Total.Div(d.MonthlyExpenses).Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
		}
		fmt.Fprintf(p.out, "  %-14s %14s %5s\n", ct.Category, p.Amount(ct.Total), share)
	}
}

func (p *Printer) colored(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return red.Sprint(p.Amount(amount))
	}
	return green.Sprint(p.Amount(amount))
}

// ScanSummary prints the outcome of a backlog scan.
func (p *Printer) ScanSummary(s ingest.ScanSummary) {
	if !s.Permission {
		p.Warning("Message source unavailable; only manual entry is possible")
		return
	}
	p.Success("Read %d message(s): %d created, %d already processed, %d recovered, %d unparseable",
		s.Read, s.Created, s.Skipped, s.Recovered, s.Unparseable)
	if s.Failed > 0 {
		p.Warning("%d message(s) failed and will be retried on the next scan", s.Failed)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// center centers text within a given width
func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

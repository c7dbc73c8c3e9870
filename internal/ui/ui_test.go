package ui

import (
	"bytes"
	"os"
	"testing"
	"time"

	"fjacquet/sms-ledger/internal/ingest"
	"fjacquet/sms-ledger/internal/ledger"
	"fjacquet/sms-ledger/internal/models"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestTransactions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "INR")

	p.Transactions([]models.Transaction{
		{
			Amount:      decimal.RequireFromString("1250"),
			Direction:   models.DirectionDebit,
			Category:    models.CategoryShopping,
			OccurredAt:  time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Description: "Amazon",
			BankName:    "HDFC Bank",
		},
		{
			Amount:      decimal.RequireFromString("50000"),
			Direction:   models.DirectionCredit,
			Category:    models.CategoryOthers,
			OccurredAt:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Description: "Salary for the month of February with a long trailing remark",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "2024-03-05")
	assert.Contains(t, out, "-₹1,250.00")
	assert.Contains(t, out, "+₹50,000.00")
	assert.Contains(t, out, "Salary for the month of February with a…")
	assert.Contains(t, out, "2 transaction(s)")
}

func TestTransactions_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "INR").Transactions(nil)
	assert.Contains(t, buf.String(), "No transactions")
}

func TestDashboard(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "INR")

	p.Dashboard(ledger.Dashboard{
		Month:           "2024-03",
		From:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:              time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Balance:         decimal.RequireFromString("525"),
		MonthlyExpenses: decimal.RequireFromString("400"),
		BudgetSet:       true,
		Budget:          decimal.RequireFromString("300"),
		Remaining:       decimal.RequireFromString("-100"),
		OverBudget:      true,
		CategoryTotals: []ledger.CategoryTotal{
			{Category: models.CategoryFood, Total: decimal.RequireFromString("100")},
			{Category: models.CategoryShopping, Total: decimal.RequireFromString("300")},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Summary 2024-03")
	assert.Contains(t, out, "2024-03-01 to 2024-03-31")
	assert.Contains(t, out, "₹525.00")
	assert.Contains(t, out, "-₹100.00")
	assert.Contains(t, out, "Budget exceeded by ₹100.00")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "75%")
}

func TestDashboard_NoBudget(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "USD").Dashboard(ledger.Dashboard{Month: "2024-03"})
	assert.Contains(t, buf.String(), "no limit")
	assert.Contains(t, buf.String(), "$0.00")
	assert.NotContains(t, buf.String(), "Period")
}

func TestScanSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "INR")

	p.ScanSummary(ingest.ScanSummary{})
	assert.Contains(t, buf.String(), "only manual entry")

	buf.Reset()
	p.ScanSummary(ingest.ScanSummary{Permission: true, Read: 5, Created: 2, Skipped: 1, Unparseable: 1, Failed: 1})
	assert.Contains(t, buf.String(), "Read 5 message(s): 2 created")
	assert.Contains(t, buf.String(), "1 message(s) failed")
}

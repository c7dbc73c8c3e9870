package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCSVRow struct {
	Name    string `csv:"Name"`
	Country string `csv:"Country"`
}

func sampleTransactions() []models.Transaction {
	at := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	return []models.Transaction{
		{
			ID:              "1709600000000-abcdef123456",
			Amount:          decimal.RequireFromString("1250"),
			Direction:       models.DirectionDebit,
			Category:        models.CategoryShopping,
			OccurredAt:      at,
			Description:     "Amazon",
			BankName:        "HDFC Bank",
			Source:          models.SourceSMS,
			SourceMessageID: "42",
			CreatedAt:       at,
			UpdatedAt:       at,
		},
		{
			ID:          "1709600000001-abcdef123457",
			Amount:      decimal.RequireFromString("80.5"),
			Direction:   models.DirectionCredit,
			Category:    models.CategoryOthers,
			OccurredAt:  at,
			Description: "Cashback; promo",
			Source:      models.SourceManual,
			Notes:       "note",
			CreatedAt:   at,
			UpdatedAt:   at,
		},
	}
}

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV[testCSVRow](strings.NewReader("Name,Country\nJohn,USA\nJane,Canada\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Jane", rows[1].Name)

	_, err = ReadCSV[testCSVRow](strings.NewReader("Name,Country\n\"unterminated"))
	assert.Error(t, err)
}

func TestWriteTransactionsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, sampleTransactions(), 0))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Date,Direction,Amount,Category,Description,Bank,Source,SourceMessageID,Notes,CreatedAt,UpdatedAt", lines[0])
	assert.Contains(t, lines[1], "2024-03-05,debit,1250.00,Shopping,Amazon,HDFC Bank,sms,42")
	assert.Contains(t, lines[2], "credit,80.50,Others")
}

func TestWriteTransactionsCSV_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, sampleTransactions(), ';'))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "ID;Date;Direction"))
	assert.Contains(t, lines[2], `"Cashback; promo"`)
}

func TestWriteTransactionsCSV_EmptyKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, []models.Transaction{}, ','))
	assert.Equal(t, strings.Join(transactionHeader(), ",")+"\n", buf.String())
}

func TestWriteTransactionsToCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "transactions.csv")

	require.NoError(t, WriteTransactionsToCSV(sampleTransactions(), path, ',', logging.NewMockLogger()))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := ReadCSV[TransactionRow](file)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1250.00", rows[0].Amount)
	assert.Equal(t, "Cashback; promo", rows[1].Description)

	assert.Error(t, WriteTransactionsToCSV(nil, path, ',', nil))
}

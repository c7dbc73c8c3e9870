// Package common provides the CSV reading and writing shared by the message
// sources and the transaction export.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter is used when no delimiter is configured.
const DefaultDelimiter = ','

// TransactionRow is the CSV shape of an exported transaction.
type TransactionRow struct {
	ID              string `csv:"ID"`
	Date            string `csv:"Date"`
	Direction       string `csv:"Direction"`
	Amount          string `csv:"Amount"`
	Category        string `csv:"Category"`
	Description     string `csv:"Description"`
	Bank            string `csv:"Bank"`
	Source          string `csv:"Source"`
	SourceMessageID string `csv:"SourceMessageID"`
	Notes           string `csv:"Notes"`
	CreatedAt       string `csv:"CreatedAt"`
	UpdatedAt       string `csv:"UpdatedAt"`
}

// ToTransactionRow flattens a transaction for CSV output.
func ToTransactionRow(t models.Transaction) TransactionRow {
	return TransactionRow{
		ID:              t.ID,
		Date:            dateutils.ToISODate(t.OccurredAt),
		Direction:       string(t.Direction),
		Amount:          t.Amount.StringFixed(2),
		Category:        string(t.Category),
		Description:     t.Description,
		Bank:            t.BankName,
		Source:          string(t.Source),
		SourceMessageID: t.SourceMessageID,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt.Format(dateutils.TimestampLayoutISO),
		UpdatedAt:       t.UpdatedAt.Format(dateutils.TimestampLayoutISO),
	}
}

// ReadCSV reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSV[TCSVRow any](r io.Reader) ([]TCSVRow, error) {
	var rows []TCSVRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

// WriteTransactionsCSV writes transactions to w with the given delimiter.
// A zero delimiter means DefaultDelimiter.
func WriteTransactionsCSV(w io.Writer, transactions []models.Transaction, delimiter rune) error {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	rows := make([]TransactionRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, ToTransactionRow(t))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if len(rows) == 0 {
		// gocsv writes nothing for an empty slice; keep the header.
		if err := csvWriter.Write(transactionHeader()); err != nil {
			return fmt.Errorf("error writing CSV header: %w", err)
		}
		csvWriter.Flush()
		return csvWriter.Error()
	}

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing transactions to CSV: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteTransactionsToCSV writes transactions to csvFile, creating its directory.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, delimiter rune, logger logging.Logger) error {
	logger = logging.OrDefault(logger)
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	logger.Info("Writing transactions to CSV file",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(transactions)))

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return WriteTransactionsCSV(file, transactions, delimiter)
}

func transactionHeader() []string {
	return []string{"ID", "Date", "Direction", "Amount", "Category", "Description", "Bank",
		"Source", "SourceMessageID", "Notes", "CreatedAt", "UpdatedAt"}
}

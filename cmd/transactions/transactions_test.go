package transactions_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/cmd/transactions"
	"fjacquet/sms-ledger/internal/parsererror"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	root.Init()
	root.Cmd.AddCommand(transactions.AddCmd, transactions.ListCmd, transactions.EditCmd,
		transactions.DeleteCmd, transactions.ExportCmd)
	os.Exit(m.Run())
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI against dbPath with no message source.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	resetFlags(root.Cmd)
	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&bytes.Buffer{})
	root.Cmd.SetArgs(append([]string{"--db", dbPath, "--source", "none", "--log-level", "error"}, args...))
	err := root.Cmd.Execute()
	return out.String(), err
}

var addedID = regexp.MustCompile(`Added (\S+)`)

func TestCommands_Metadata(t *testing.T) {
	assert.Equal(t, "add", transactions.AddCmd.Use)
	assert.Equal(t, "list", transactions.ListCmd.Use)
	assert.Equal(t, "edit <id>", transactions.EditCmd.Use)
	assert.Equal(t, "delete <id>", transactions.DeleteCmd.Use)
	assert.Equal(t, "export", transactions.ExportCmd.Use)

	for _, name := range []string{"amount", "direction", "category", "date", "description", "bank", "notes"} {
		assert.NotNil(t, transactions.AddCmd.Flags().Lookup(name), name)
		assert.NotNil(t, transactions.EditCmd.Flags().Lookup(name), name)
	}
	assert.NotNil(t, transactions.ListCmd.Flags().Lookup("csv"))
	assert.NotNil(t, transactions.ExportCmd.Flags().Lookup("output"))
}

func TestCommands_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dbPath := filepath.Join(dir, "ledger.db")

	out, err := run(t, dbPath, "add", "-a", "1,250.50", "-c", "food", "-D", "  Lunch  ", "-t", "2024-03-05", "-b", "Cash")
	require.NoError(t, err)
	m := addedID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	id := m[1]
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "manual")

	out, err = run(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "1 transaction(s)")

	out, err = run(t, dbPath, "list", "--csv", "-m", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "ID,Date,Direction,Amount")
	assert.Contains(t, out, id)

	out, err = run(t, dbPath, "edit", id, "-c", "Bills", "-n", "quarterly")
	require.NoError(t, err)
	assert.Contains(t, out, "Bills")
	assert.Contains(t, out, "quarterly")
	assert.Contains(t, out, "Lunch")

	exportPath := filepath.Join(dir, "out", "march.csv")
	out, err = run(t, dbPath, "export", "-o", exportPath, "-c", "Bills")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 transaction(s)")
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "quarterly")

	out, err = run(t, dbPath, "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)

	out, err = run(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions")

	_, err = run(t, dbPath, "delete", id)
	assert.ErrorIs(t, err, parsererror.ErrNotFound)
}

func TestAdd_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dbPath := filepath.Join(dir, "ledger.db")

	tests := []struct {
		name string
		args []string
	}{
		{"zero amount", []string{"-a", "0", "-D", "x"}},
		{"three decimals", []string{"-a", "1.005", "-D", "x"}},
		{"unknown category", []string{"-a", "10", "-D", "x", "-c", "Travel"}},
		{"unknown direction", []string{"-a", "10", "-D", "x", "-d", "refund"}},
		{"future date", []string{"-a", "10", "-D", "x", "-t", "2999-01-01"}},
		{"blank description", []string{"-a", "10", "-D", "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dbPath, append([]string{"add"}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, parsererror.IsValidation(err), err.Error())
		})
	}

	out, err := run(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions")
}

func TestEdit_WithoutChangesFails(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dbPath := filepath.Join(dir, "ledger.db")

	out, err := run(t, dbPath, "add", "-a", "99", "-D", "Coffee", "-t", "2024-03-05")
	require.NoError(t, err)
	id := addedID.FindStringSubmatch(out)[1]

	_, err = run(t, dbPath, "edit", id)
	require.Error(t, err)
	assert.True(t, parsererror.IsValidation(err))

	_, err = run(t, dbPath, "edit", "missing-id", "-n", "x")
	assert.ErrorIs(t, err, parsererror.ErrNotFound)
}

func TestList_InvalidFilter(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	_, err := run(t, filepath.Join(dir, "ledger.db"), "list", "-m", "March")
	require.Error(t, err)
	assert.True(t, parsererror.IsValidation(err))
}

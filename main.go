package main

import (
	"fmt"
	"os"

	"fjacquet/sms-ledger/cmd/budget"
	"fjacquet/sms-ledger/cmd/ingest"
	"fjacquet/sms-ledger/cmd/parse"
	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/cmd/transactions"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(ingest.WatchCmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(parse.CategorizeCmd)
	root.Cmd.AddCommand(transactions.AddCmd)
	root.Cmd.AddCommand(transactions.ListCmd)
	root.Cmd.AddCommand(transactions.EditCmd)
	root.Cmd.AddCommand(transactions.DeleteCmd)
	root.Cmd.AddCommand(transactions.ExportCmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(budget.SummaryCmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

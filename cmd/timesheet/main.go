// Command timesheet renders the monthly timesheet workbook from a JSON
// snapshot of shifts and expenses, without a database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/ferrarini"
)

// snapshot is the input file of the export command.
type snapshot struct {
	EmployeeName string              `json:"employee_name"`
	Shifts       []ferrarini.Shift   `json:"shifts"`
	Expenses     []ferrarini.Expense `json:"expenses"`
}

type exportOptions struct {
	input  string
	year   int
	month  int
	format string
	outDir string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the timesheet of a month, or of a whole year, to a file",
		Example: `  timesheet export --input snapshot.json --year 2024 --month 3
  timesheet export --input snapshot.json --year 2024 --format pdf --out ./exports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Snapshot JSON file")
	cmd.Flags().IntVar(&opts.year, "year", time.Now().Year(), "Calendar year")
	cmd.Flags().IntVar(&opts.month, "month", 0, "Month 1-12; 0 exports the whole year")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "xlsx", "Output format: xlsx, csv, pdf")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "Directory the file is written to")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func readSnapshot(path string) (snapshot, error) {
	var snap snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return snap, nil
}

func runExport(cmd *cobra.Command, root *rootOptions, opts *exportOptions) error {
	loc, err := root.location()
	if err != nil {
		return fmt.Errorf("invalid --timezone: %w", err)
	}
	format, err := ferrarini.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	snap, err := readSnapshot(opts.input)
	if err != nil {
		return err
	}

	collector := &ferrarini.Collector{Next: ferrarini.SlogReporter{Logger: root.logger(cmd)}}
	exporter := &ferrarini.Exporter{Reporter: collector, Location: loc, Now: time.Now}

	var written string
	err = exporter.Export(ferrarini.Request{
		Year:         opts.year,
		Month:        opts.month,
		EmployeeName: snap.EmployeeName,
		Shifts:       snap.Shifts,
		Expenses:     snap.Expenses,
		Format:       format,
	}, ferrarini.DownloaderFunc(func(filename, contentType string, body []byte) error {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return err
		}
		written = filepath.Join(opts.outDir, filename)
		return os.WriteFile(written, body, 0o644)
	}))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), written)
	if n := len(collector.Issues()); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d record(s) skipped or flagged; rerun with --verbose for details\n", n)
	}
	return nil
}

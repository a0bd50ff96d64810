package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	timezone string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "timesheet",
		Short: "Render timesheets from a shift and expense snapshot",
		Long: `timesheet builds the same workbook the API serves from
GET /api/v1/timesheet/export, reading shifts and expenses from a JSON file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.timezone, "timezone", "Local", "IANA zone expense dates are read in")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every skipped record")

	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newHolidaysCmd())
	return cmd
}

func (o *rootOptions) location() (*time.Location, error) {
	return time.LoadLocation(o.timezone)
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelError
	if o.verbose {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

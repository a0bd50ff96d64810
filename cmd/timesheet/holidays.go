package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/ferrarini"
)

func newHolidaysCmd() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the weekend days and national holidays shaded in a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year < ferrarini.MinYear || year > ferrarini.MaxYear {
				return fmt.Errorf("%w: year %d", ferrarini.ErrInvalidParameter, year)
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("%w: month %d", ferrarini.ErrInvalidParameter, month)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, day := range ferrarini.ComputeHolidays(month, year) {
				date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
				fmt.Fprintf(tw, "%s\t%s\t%s\n", date.Format("2006-01-02"), date.Weekday(), ferrarini.HolidayName(month, day, year))
			}
			return tw.Flush()
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", now.Year(), "Calendar year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "Month 1-12")

	return cmd
}

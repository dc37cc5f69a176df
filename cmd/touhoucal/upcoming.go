package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"touhoucal/internal/ics"
	"touhoucal/internal/loader"
)

func upcomingCmd(opts *options) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List calendar occurrences in the coming days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				days = opts.cfg.UpcomingDays
			}

			events, err := loader.LoadDir(cmd.Context(), opts.cfg.DaysDir)
			if err != nil {
				return err
			}

			// Expand what the calendar file says rather than the records,
			// so the listing matches what clients will show.
			parsed, err := ics.ParseICS(ics.Build(events))
			if err != nil {
				return err
			}

			now := time.Now()
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
			res, err := ics.ExpandOccurrences(parsed, ics.ExpandConfig{
				Location:   time.Local,
				RangeStart: today,
				RangeEnd:   today.AddDate(0, 0, days),
			})
			if err != nil {
				return err
			}

			if len(res.Occurrences) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No events in the next %d days.\n", days)
				return nil
			}

			table := newTable(cmd, []string{"Date", "In", "Event"})
			for _, occ := range res.Occurrences {
				in := int(occ.Date.Sub(today).Hours() / 24)
				table.Append([]string{occ.Date.Format("2006-01-02"), fmt.Sprintf("%dd", in), occ.Summary})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days-ahead", 0, "Window in days (defaults to upcoming_days from config)")
	return cmd
}

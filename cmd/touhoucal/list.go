package main

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"touhoucal/internal/ics"
	"touhoucal/internal/loader"
)

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the loaded events as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			events, err := loader.LoadDir(cmd.Context(), opts.cfg.DaysDir)
			if err != nil {
				return err
			}

			table := newTable(cmd, []string{"Date", "Name", "UID", "Characters"})
			for _, ev := range events {
				table.Append([]string{ev.Key(), ev.Name, ics.UID(ev), strings.Join(ev.Characters, ", ")})
			}
			table.Render()
			return nil
		},
	}
}

func newTable(cmd *cobra.Command, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

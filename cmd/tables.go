package cmd

import (
	"os"
	"os/signal"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the resolved table pairings and their column mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		applySelectionFlags(cmd)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ds, err := openDataSources(ctx)
		if err != nil {
			return err
		}
		defer ds.Close()

		pairings, err := resolvePairings(ctx, ds)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Source Table", "Target Table", "Source Column", "Target Column", "Kind", "Key"})
		table.SetAutoMergeCells(true)
		table.SetAutoFormatHeaders(false)
		for _, p := range pairings {
			for _, cp := range p.Columns {
				key := ""
				if cp.Source.IsPK {
					key = "PK"
				}
				table.Append([]string{
					p.Source.FullyQualifiedName(),
					p.Target.FullyQualifiedName(),
					cp.Source.Name,
					cp.Target.Name,
					cp.Source.Kind.String(),
					key,
				})
			}
		}
		table.Render()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(tablesCmd)

	tablesCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Tables to list (comma-separated)")
	tablesCmd.Flags().StringSliceVar(&excludeTables, "exclude", []string{}, "Tables to skip (comma-separated)")
	tablesCmd.Flags().String("source", "", "Source database name from config")
	tablesCmd.Flags().String("target", "", "Target database name from config")
}

package cmd

import "github.com/spf13/cobra"

func newLibraryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Browse the product library",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.regs().Library.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.printLibrary(items)
		},
	})
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.svc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return a.printStats(s)
		},
	}
}

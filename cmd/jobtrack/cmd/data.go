package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobtracker/internal/core"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the sample dataset",
		Long:  "Replace all data with a small fixed sample of roles, contacts and activities. Existing records are overwritten.",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.SeedSampleData(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d roles, %d contacts, %d activities\n",
				len(a.svc.Roles()), len(a.svc.Contacts()), len(a.svc.Activities()))
			return nil
		}),
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every role, contact and activity",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			confirm := promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = core.AlwaysConfirm
			}
			if err := a.svc.ClearAllData(cmd.Context(), confirm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all data cleared")
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"jobtracker/pkg/domain"
)

func newActivitiesCmd(a *app) *cobra.Command {
	activities := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"activity", "log"},
		Short:   "Log and review interactions",
	}
	activities.AddCommand(newActivitiesListCmd(a), newActivitiesAddCmd(a), newActivitiesUpdateCmd(a), newActivitiesDeleteCmd(a))
	return activities
}

func newActivitiesListCmd(a *app) *cobra.Command {
	var roleID, contactID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities newest first, optionally for one role or contact",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			return printActivities(a, cmd.OutOrStdout(), a.svc.Timeline(roleID, contactID))
		}),
	}
	cmd.Flags().StringVar(&roleID, "role", "", "only activities for this role (takes precedence over --contact)")
	cmd.Flags().StringVar(&contactID, "contact", "", "only activities for this contact")
	return cmd
}

func newActivitiesAddCmd(a *app) *cobra.Command {
	var draft domain.ActivityDraft
	var kind string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log an activity",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			draft.Type = domain.ActivityType(kind)
			activity, _, err := a.svc.AddActivity(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added activity %s on %s\n", activity.ID, activity.Date)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&draft.Description, "description", "", "what happened (required)")
	f.StringVar(&kind, "type", string(domain.ActivityEmail), "Email, Call, Message, Interview or Follow-up")
	f.StringVar(&draft.Date, "date", "", "date (YYYY-MM-DD, default today)")
	f.StringVar(&draft.RoleID, "role", "", "role id")
	f.StringVar(&draft.ContactID, "contact", "", "contact id")
	return cmd
}

func newActivitiesUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <activity-id>",
		Short: "Change fields of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			patch := domain.ActivityPatch{
				RoleID:      changedString(f, "role"),
				ContactID:   changedString(f, "contact"),
				Description: changedString(f, "description"),
				Date:        changedString(f, "date"),
			}
			if kind := changedString(f, "type"); kind != nil {
				patch.Type = domain.Ptr(domain.ActivityType(*kind))
			}
			activity, _, err := a.svc.UpdateActivity(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated activity %s\n", activity.ID)
			return nil
		}),
	}
	f := cmd.Flags()
	f.String("description", "", "what happened")
	f.String("type", "", "activity type")
	f.String("date", "", "date (YYYY-MM-DD)")
	f.String("role", "", "role id, empty to unlink")
	f.String("contact", "", "contact id, empty to unlink")
	return cmd
}

func newActivitiesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <activity-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an activity",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			remaining := a.svc.DeleteActivity(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%d activities remaining\n", len(remaining))
			return nil
		}),
	}
}

func printActivities(a *app, w io.Writer, activities []domain.Activity) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tROLE\tCONTACT\tDESCRIPTION")
	for _, act := range activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			act.ID, act.Date, act.Type, a.svc.RoleLabel(act.RoleID), a.svc.ContactLabel(act.ContactID), act.Description)
	}
	return tw.Flush()
}

// changedString returns the flag value only when the user passed it.
func changedString(f *pflag.FlagSet, name string) *string {
	if !f.Changed(name) {
		return nil
	}
	v, err := f.GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

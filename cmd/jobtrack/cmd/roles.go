package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobtracker/internal/core"
	"jobtracker/pkg/domain"
)

func newRolesCmd(a *app) *cobra.Command {
	roles := &cobra.Command{
		Use:     "roles",
		Aliases: []string{"role"},
		Short:   "Manage tracked job applications",
	}
	roles.AddCommand(newRolesListCmd(a), newRolesShowCmd(a), newRolesAddCmd(a), newRolesUpdateCmd(a), newRolesDeleteCmd(a))
	return roles
}

func newRolesListCmd(a *app) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roles",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if status != "" && !domain.RoleStatus(status).Valid() {
				return &domain.ValidationError{
					Entity:      domain.EntityRole,
					FieldErrors: map[string]string{"status": "unknown status " + status},
				}
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tCOMPANY\tPOSITION\tSTATUS\tAPPLIED\tCONTACT\tUPDATED")
			for _, r := range a.svc.Roles() {
				if status != "" && string(r.Status) != status {
					continue
				}
				contact := domain.NoContactLabel
				if r.ContactID != "" {
					contact = a.svc.ContactLabel(r.ContactID)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Company, r.Position, r.Status, orDash(r.DateApplied), contact, r.UpdatedAt)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "only show roles with this status")
	return cmd
}

func newRolesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <role-id>",
		Short: "Show a role and its activity timeline",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			role, ok := a.svc.Role(args[0])
			if !ok {
				return core.ErrNotFound{Entity: domain.EntityRole, ID: args[0]}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", domain.RoleOptionLabel(role))
			fmt.Fprintf(out, "Status:   %s\n", role.Status)
			fmt.Fprintf(out, "Applied:  %s\n", orDash(role.DateApplied))
			fmt.Fprintf(out, "Link:     %s\n", orDash(role.Link))
			fmt.Fprintf(out, "Contact:  %s\n", a.svc.ContactLabel(role.ContactID))
			fmt.Fprintf(out, "Updated:  %s\n", role.UpdatedAt)
			if role.Notes != "" {
				fmt.Fprintf(out, "Notes:    %s\n", role.Notes)
			}
			fmt.Fprintln(out)
			return printActivities(a, out, a.svc.Timeline(role.ID, ""))
		}),
	}
}

func newRolesAddCmd(a *app) *cobra.Command {
	var draft domain.RoleDraft
	var status string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a role",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			draft.Status = domain.RoleStatus(status)
			role, _, err := a.svc.AddRole(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added role %s\n", role.ID)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&draft.Company, "company", "", "company name (required)")
	f.StringVar(&draft.Position, "position", "", "position title (required)")
	f.StringVar(&status, "status", string(domain.StatusInterested), "application status")
	f.StringVar(&draft.DateApplied, "date-applied", "", "date applied (YYYY-MM-DD)")
	f.StringVar(&draft.Link, "link", "", "posting URL")
	f.StringVar(&draft.Notes, "notes", "", "free-form notes")
	f.StringVar(&draft.ContactID, "contact", "", "contact id")
	return cmd
}

func newRolesUpdateCmd(a *app) *cobra.Command {
	var keepTimestamp bool
	cmd := &cobra.Command{
		Use:   "update <role-id>",
		Short: "Change fields of a role",
		Long:  "Change fields of a role. Only flags that are passed are applied. The updated timestamp is refreshed unless --keep-timestamp is set.",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			patch := domain.RolePatch{
				Company:     changedString(f, "company"),
				Position:    changedString(f, "position"),
				DateApplied: changedString(f, "date-applied"),
				Link:        changedString(f, "link"),
				Notes:       changedString(f, "notes"),
				ContactID:   changedString(f, "contact"),
			}
			if s := changedString(f, "status"); s != nil {
				patch.Status = domain.Ptr(domain.RoleStatus(*s))
			}
			if !keepTimestamp {
				patch.UpdatedAt = domain.Ptr(a.svc.Now())
			}
			role, _, err := a.svc.UpdateRole(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated role %s (%s)\n", role.ID, role.Status)
			return nil
		}),
	}
	f := cmd.Flags()
	f.String("company", "", "company name")
	f.String("position", "", "position title")
	f.String("status", "", "application status")
	f.String("date-applied", "", "date applied (YYYY-MM-DD), empty to clear")
	f.String("link", "", "posting URL")
	f.String("notes", "", "free-form notes")
	f.String("contact", "", "contact id, empty to unlink")
	f.BoolVar(&keepTimestamp, "keep-timestamp", false, "do not refresh the updated timestamp")
	return cmd
}

func newRolesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <role-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a role; its activities are kept",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			remaining := a.svc.DeleteRole(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%d roles remaining\n", len(remaining))
			return nil
		}),
	}
}

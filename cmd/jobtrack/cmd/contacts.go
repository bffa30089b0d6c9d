package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobtracker/internal/core"
	"jobtracker/pkg/domain"
)

func newContactsCmd(a *app) *cobra.Command {
	contacts := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Manage recruiters, hiring managers and other contacts",
	}
	contacts.AddCommand(newContactsListCmd(a), newContactsShowCmd(a), newContactsAddCmd(a), newContactsUpdateCmd(a), newContactsDeleteCmd(a))
	return contacts
}

func newContactsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts with the number of linked roles",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCOMPANY\tEMAIL\tROLES")
			for _, c := range a.svc.Contacts() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					c.ID, c.Name, c.Type, orDash(c.Company), orDash(c.Email), len(a.svc.RolesForContact(c.ID)))
			}
			return tw.Flush()
		}),
	}
}

func newContactsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <contact-id>",
		Short: "Show a contact, linked roles and activity timeline",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			contact, ok := a.svc.Contact(args[0])
			if !ok {
				return core.ErrNotFound{Entity: domain.EntityContact, ID: args[0]}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", contact.Name, contact.Type)
			fmt.Fprintf(out, "Company:  %s\n", orDash(contact.Company))
			fmt.Fprintf(out, "Email:    %s\n", orDash(contact.Email))
			fmt.Fprintf(out, "LinkedIn: %s\n", orDash(contact.LinkedIn))
			if contact.Notes != "" {
				fmt.Fprintf(out, "Notes:    %s\n", contact.Notes)
			}
			fmt.Fprintln(out, "Roles:")
			for _, r := range a.svc.RolesForContact(contact.ID) {
				fmt.Fprintf(out, "  %s  %s (%s)\n", r.ID, domain.RoleOptionLabel(r), r.Status)
			}
			fmt.Fprintln(out)
			return printActivities(a, out, a.svc.Timeline("", contact.ID))
		}),
	}
}

func newContactsAddCmd(a *app) *cobra.Command {
	var draft domain.ContactDraft
	var kind string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			draft.Type = domain.ContactType(kind)
			contact, _, err := a.svc.AddContact(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added contact %s\n", contact.ID)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&draft.Name, "name", "", "full name (required)")
	f.StringVar(&kind, "type", string(domain.ContactRecruiter), "Recruiter, Hiring Manager, Personal or Other")
	f.StringVar(&draft.Company, "company", "", "company")
	f.StringVar(&draft.Email, "email", "", "email address")
	f.StringVar(&draft.LinkedIn, "linkedin", "", "LinkedIn profile URL")
	f.StringVar(&draft.Notes, "notes", "", "free-form notes")
	return cmd
}

func newContactsUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <contact-id>",
		Short: "Change fields of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			patch := domain.ContactPatch{
				Name:     changedString(f, "name"),
				Company:  changedString(f, "company"),
				Email:    changedString(f, "email"),
				LinkedIn: changedString(f, "linkedin"),
				Notes:    changedString(f, "notes"),
			}
			if kind := changedString(f, "type"); kind != nil {
				patch.Type = domain.Ptr(domain.ContactType(*kind))
			}
			contact, _, err := a.svc.UpdateContact(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated contact %s\n", contact.ID)
			return nil
		}),
	}
	f := cmd.Flags()
	f.String("name", "", "full name")
	f.String("type", "", "contact type")
	f.String("company", "", "company")
	f.String("email", "", "email address")
	f.String("linkedin", "", "LinkedIn profile URL")
	f.String("notes", "", "free-form notes")
	return cmd
}

func newContactsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <contact-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a contact; linked roles and activities are kept",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			remaining := a.svc.DeleteContact(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%d contacts remaining\n", len(remaining))
			return nil
		}),
	}
}

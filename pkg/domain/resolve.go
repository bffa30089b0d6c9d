package domain

import "sort"

// Placeholder labels shown when a weak reference cannot be resolved.
const (
	NoRoleLabel    = "No Role"
	NoContactLabel = "No Contact"
)

// ResolveRoleLabel returns the position of the role with roleID, or NoRoleLabel
// when the id is empty, dangling, or the role has no position.
func ResolveRoleLabel(roleID string, roles []Role) string {
	if roleID == "" {
		return NoRoleLabel
	}
	for _, r := range roles {
		if r.ID == roleID {
			if r.Position == "" {
				return NoRoleLabel
			}
			return r.Position
		}
	}
	return NoRoleLabel
}

// RoleOptionLabel renders the "position @ company" form used in role pickers.
func RoleOptionLabel(r Role) string {
	return r.Position + " @ " + r.Company
}

// ResolveContactLabel returns the name of the contact with contactID, or
// NoContactLabel when the id is empty, dangling, or the contact has no name.
func ResolveContactLabel(contactID string, contacts []Contact) string {
	if contactID == "" {
		return NoContactLabel
	}
	for _, c := range contacts {
		if c.ID == contactID {
			if c.Name == "" {
				return NoContactLabel
			}
			return c.Name
		}
	}
	return NoContactLabel
}

// FilterByRole returns the activities referencing roleID, newest first.
func FilterByRole(activities []Activity, roleID string) []Activity {
	return filterActivities(activities, func(a Activity) bool { return a.RoleID == roleID })
}

// FilterByContact returns the activities referencing contactID, newest first.
func FilterByContact(activities []Activity, contactID string) []Activity {
	return filterActivities(activities, func(a Activity) bool { return a.ContactID == contactID })
}

// Timeline selects the activities shown on a detail view. A role id takes
// precedence over a contact id; with neither, every activity is returned.
func Timeline(activities []Activity, roleID, contactID string) []Activity {
	switch {
	case roleID != "":
		return FilterByRole(activities, roleID)
	case contactID != "":
		return FilterByContact(activities, contactID)
	default:
		return SortByDateDesc(activities)
	}
}

// SortByDateDesc returns a copy ordered by date, newest first. Ties keep their
// collection order.
func SortByDateDesc(activities []Activity) []Activity {
	out := make([]Activity, len(activities))
	copy(out, activities)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// RolesForContact returns the roles whose contact reference is contactID, in
// collection order.
func RolesForContact(roles []Role, contactID string) []Role {
	out := make([]Role, 0)
	if contactID == "" {
		return out
	}
	for _, r := range roles {
		if r.ContactID == contactID {
			out = append(out, r)
		}
	}
	return out
}

func filterActivities(activities []Activity, keep func(Activity) bool) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

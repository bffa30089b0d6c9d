package domain

import "time"

// DateLayout is the calendar date format used by DateApplied and Activity.Date.
const DateLayout = "2006-01-02"

// RoleDraft holds the fields a caller supplies when creating a role. The
// identifier and timestamp are assigned by the tracker.
type RoleDraft struct {
	Company     string
	Position    string
	Status      RoleStatus
	DateApplied string
	Link        string
	Notes       string
	ContactID   string
}

// WithDefaults fills the fields an entry form pre-selects.
func (d RoleDraft) WithDefaults() RoleDraft {
	if d.Status == "" {
		d.Status = StatusInterested
	}
	return d
}

// Validate checks required fields and enumerations.
func (d RoleDraft) Validate() error {
	v := &ValidationError{Entity: EntityRole}
	requireText(v, "company", d.Company)
	requireText(v, "position", d.Position)
	if !d.Status.Valid() {
		v.add("status", "unknown status "+string(d.Status))
	}
	if d.DateApplied != "" && !isDate(d.DateApplied) {
		v.add("dateApplied", "must be YYYY-MM-DD")
	}
	return v.errOrNil()
}

// Role builds the record for id and updatedAt.
func (d RoleDraft) Role(id, updatedAt string) Role {
	return Role{
		ID:          id,
		Company:     d.Company,
		Position:    d.Position,
		Status:      d.Status,
		DateApplied: d.DateApplied,
		Link:        d.Link,
		Notes:       d.Notes,
		ContactID:   d.ContactID,
		UpdatedAt:   updatedAt,
	}
}

// ContactDraft holds the fields a caller supplies when creating a contact.
type ContactDraft struct {
	Name     string
	Type     ContactType
	Company  string
	Email    string
	LinkedIn string
	Notes    string
}

// WithDefaults fills the fields an entry form pre-selects.
func (d ContactDraft) WithDefaults() ContactDraft {
	if d.Type == "" {
		d.Type = ContactRecruiter
	}
	return d
}

// Validate checks required fields and enumerations.
func (d ContactDraft) Validate() error {
	v := &ValidationError{Entity: EntityContact}
	requireText(v, "name", d.Name)
	if !d.Type.Valid() {
		v.add("type", "unknown contact type "+string(d.Type))
	}
	return v.errOrNil()
}

// Contact builds the record for id.
func (d ContactDraft) Contact(id string) Contact {
	return Contact{
		ID:       id,
		Name:     d.Name,
		Type:     d.Type,
		Company:  d.Company,
		Email:    d.Email,
		LinkedIn: d.LinkedIn,
		Notes:    d.Notes,
	}
}

// ActivityDraft holds the fields a caller supplies when logging an activity.
type ActivityDraft struct {
	RoleID      string
	ContactID   string
	Type        ActivityType
	Description string
	Date        string
}

// WithDefaults fills the type and, when empty, the date with today.
func (d ActivityDraft) WithDefaults(today string) ActivityDraft {
	if d.Type == "" {
		d.Type = ActivityEmail
	}
	if d.Date == "" {
		d.Date = today
	}
	return d
}

// Validate checks required fields and enumerations.
func (d ActivityDraft) Validate() error {
	v := &ValidationError{Entity: EntityActivity}
	requireText(v, "description", d.Description)
	if !d.Type.Valid() {
		v.add("type", "unknown activity type "+string(d.Type))
	}
	if !isDate(d.Date) {
		v.add("date", "must be YYYY-MM-DD")
	}
	return v.errOrNil()
}

// Activity builds the record for id.
func (d ActivityDraft) Activity(id string) Activity {
	return Activity{
		ID:          id,
		RoleID:      d.RoleID,
		ContactID:   d.ContactID,
		Type:        d.Type,
		Description: d.Description,
		Date:        d.Date,
	}
}

func isDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

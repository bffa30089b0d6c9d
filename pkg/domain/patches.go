package domain

// RolePatch lists the role fields that may change after creation. Nil fields
// are left untouched. UpdatedAt is not stamped automatically: callers that want
// a fresh timestamp must set it.
type RolePatch struct {
	Company     *string
	Position    *string
	Status      *RoleStatus
	DateApplied *string
	Link        *string
	Notes       *string
	ContactID   *string
	UpdatedAt   *string
}

// Apply returns r with the set fields replaced.
func (p RolePatch) Apply(r Role) Role {
	setString(&r.Company, p.Company)
	setString(&r.Position, p.Position)
	if p.Status != nil {
		r.Status = *p.Status
	}
	setString(&r.DateApplied, p.DateApplied)
	setString(&r.Link, p.Link)
	setString(&r.Notes, p.Notes)
	setString(&r.ContactID, p.ContactID)
	setString(&r.UpdatedAt, p.UpdatedAt)
	return r
}

// Validate applies the draft rules to the fields that are set.
func (p RolePatch) Validate() error {
	v := &ValidationError{Entity: EntityRole}
	if p.Company != nil {
		requireText(v, "company", *p.Company)
	}
	if p.Position != nil {
		requireText(v, "position", *p.Position)
	}
	if p.Status != nil && !p.Status.Valid() {
		v.add("status", "unknown status "+string(*p.Status))
	}
	if p.DateApplied != nil && *p.DateApplied != "" && !isDate(*p.DateApplied) {
		v.add("dateApplied", "must be YYYY-MM-DD")
	}
	return v.errOrNil()
}

// ContactPatch lists the contact fields that may change after creation.
type ContactPatch struct {
	Name     *string
	Type     *ContactType
	Company  *string
	Email    *string
	LinkedIn *string
	Notes    *string
}

// Apply returns c with the set fields replaced.
func (p ContactPatch) Apply(c Contact) Contact {
	setString(&c.Name, p.Name)
	if p.Type != nil {
		c.Type = *p.Type
	}
	setString(&c.Company, p.Company)
	setString(&c.Email, p.Email)
	setString(&c.LinkedIn, p.LinkedIn)
	setString(&c.Notes, p.Notes)
	return c
}

// Validate applies the draft rules to the fields that are set.
func (p ContactPatch) Validate() error {
	v := &ValidationError{Entity: EntityContact}
	if p.Name != nil {
		requireText(v, "name", *p.Name)
	}
	if p.Type != nil && !p.Type.Valid() {
		v.add("type", "unknown contact type "+string(*p.Type))
	}
	return v.errOrNil()
}

// ActivityPatch lists the activity fields that may change after creation.
type ActivityPatch struct {
	RoleID      *string
	ContactID   *string
	Type        *ActivityType
	Description *string
	Date        *string
}

// Apply returns a with the set fields replaced.
func (p ActivityPatch) Apply(a Activity) Activity {
	setString(&a.RoleID, p.RoleID)
	setString(&a.ContactID, p.ContactID)
	if p.Type != nil {
		a.Type = *p.Type
	}
	setString(&a.Description, p.Description)
	setString(&a.Date, p.Date)
	return a
}

// Validate applies the draft rules to the fields that are set.
func (p ActivityPatch) Validate() error {
	v := &ValidationError{Entity: EntityActivity}
	if p.Description != nil {
		requireText(v, "description", *p.Description)
	}
	if p.Type != nil && !p.Type.Valid() {
		v.add("type", "unknown activity type "+string(*p.Type))
	}
	if p.Date != nil && !isDate(*p.Date) {
		v.add("date", "must be YYYY-MM-DD")
	}
	return v.errOrNil()
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T { return &v }

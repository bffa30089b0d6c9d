// Package domain defines the persistent job-search entities, their weak
// references, and the pure helpers used to resolve those references.
package domain

// EntityType identifies the kind of record stored in a collection.
type EntityType string

// Supported entity type identifiers used for collection keys and logging.
const (
	// EntityRole identifies a job application record.
	EntityRole EntityType = "role"
	// EntityContact identifies a recruiter, hiring manager or personal contact.
	EntityContact EntityType = "contact"
	// EntityActivity identifies an interaction tied to a role and/or contact.
	EntityActivity EntityType = "activity"
)

// Durable medium keys. Each key holds a JSON array of one entity kind.
const (
	KeyRoles      = "m_roles"
	KeyContacts   = "m_contacts"
	KeyActivities = "m_activities"
)

// RoleStatus tracks where an application stands. Any status may follow any other.
type RoleStatus string

// Canonical role statuses.
const (
	StatusInterested   RoleStatus = "Interested"
	StatusApplied      RoleStatus = "Applied"
	StatusInterviewing RoleStatus = "Interviewing"
	StatusOffered      RoleStatus = "Offered"
	StatusRejected     RoleStatus = "Rejected"
	StatusAccepted     RoleStatus = "Accepted"
)

// RoleStatuses lists every status in display order.
var RoleStatuses = []RoleStatus{
	StatusInterested,
	StatusApplied,
	StatusInterviewing,
	StatusOffered,
	StatusRejected,
	StatusAccepted,
}

// Valid reports whether s is a known status.
func (s RoleStatus) Valid() bool {
	for _, known := range RoleStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ContactType classifies a contact. It carries no behaviour.
type ContactType string

// Canonical contact types.
const (
	ContactRecruiter     ContactType = "Recruiter"
	ContactHiringManager ContactType = "Hiring Manager"
	ContactPersonal      ContactType = "Personal"
	ContactOther         ContactType = "Other"
)

// ContactTypes lists every contact type in display order.
var ContactTypes = []ContactType{ContactRecruiter, ContactHiringManager, ContactPersonal, ContactOther}

// Valid reports whether t is a known contact type.
func (t ContactType) Valid() bool {
	for _, known := range ContactTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ActivityType classifies an interaction.
type ActivityType string

// Canonical activity types.
const (
	ActivityEmail     ActivityType = "Email"
	ActivityCall      ActivityType = "Call"
	ActivityMessage   ActivityType = "Message"
	ActivityInterview ActivityType = "Interview"
	ActivityFollowUp  ActivityType = "Follow-up"
)

// ActivityTypes lists every activity type in display order.
var ActivityTypes = []ActivityType{ActivityEmail, ActivityCall, ActivityMessage, ActivityInterview, ActivityFollowUp}

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	for _, known := range ActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Role is a tracked job application.
//
// ContactID is a weak reference: the contact may not exist. UpdatedAt is an
// ISO-8601 UTC timestamp stamped on creation; updates only change it when the
// caller supplies a new value.
type Role struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Status      RoleStatus `json:"status"`
	DateApplied string     `json:"dateApplied,omitempty"`
	Link        string     `json:"link,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ContactID   string     `json:"contactId,omitempty"`
	UpdatedAt   string     `json:"updatedAt"`
}

// RecordID returns the role identifier.
func (r Role) RecordID() string { return r.ID }

// Contact is a person involved in the search.
type Contact struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     ContactType `json:"type"`
	Company  string      `json:"company,omitempty"`
	Email    string      `json:"email,omitempty"`
	LinkedIn string      `json:"linkedin,omitempty"`
	Notes    string      `json:"notes,omitempty"`
}

// RecordID returns the contact identifier.
func (c Contact) RecordID() string { return c.ID }

// Activity is a logged interaction. RoleID and ContactID are optional weak
// references; Date is a calendar date (YYYY-MM-DD).
type Activity struct {
	ID          string       `json:"id"`
	RoleID      string       `json:"roleId,omitempty"`
	ContactID   string       `json:"contactId,omitempty"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
}

// RecordID returns the activity identifier.
func (a Activity) RecordID() string { return a.ID }

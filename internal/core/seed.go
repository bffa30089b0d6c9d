package core

import "jobtracker/pkg/domain"

// SampleContacts is the contact half of the sample dataset.
func SampleContacts() []domain.Contact {
	return []domain.Contact{
		{
			ID:       "c1",
			Name:     "Sarah Miller",
			Type:     domain.ContactRecruiter,
			Company:  "TechCorp",
			Email:    "sarah.m@techcorp.com",
			LinkedIn: "https://linkedin.com/in/sarahmiller",
			Notes:    "Very responsive recruiter.",
		},
		{
			ID:    "c2",
			Name:  "John Doe",
			Type:  domain.ContactPersonal,
			Email: "john.doe@gmail.com",
			Notes: "Met at the networking event last month.",
		},
		{
			ID:       "c3",
			Name:     "Emily Chen",
			Type:     domain.ContactHiringManager,
			Company:  "Skyline AI",
			LinkedIn: "https://linkedin.com/in/emilychen",
		},
	}
}

// SampleRoles is the role half of the sample dataset.
func SampleRoles() []domain.Role {
	return []domain.Role{
		{
			ID:          "r1",
			Company:     "TechCorp",
			Position:    "Senior Frontend Engineer",
			Status:      domain.StatusApplied,
			DateApplied: "2026-01-15",
			Link:        "https://techcorp.com/careers/123",
			Notes:       "Used referral from Mark.",
			ContactID:   "c1",
			UpdatedAt:   "2026-01-15T10:00:00Z",
		},
		{
			ID:          "r2",
			Company:     "Skyline AI",
			Position:    "Staff Software Engineer",
			Status:      domain.StatusInterviewing,
			DateApplied: "2026-01-20",
			Notes:       "Technical screen went well.",
			ContactID:   "c3",
			UpdatedAt:   "2026-01-25T14:30:00Z",
		},
		{
			ID:        "r3",
			Company:   "InnovateSoft",
			Position:  "Lead Web Developer",
			Status:    domain.StatusInterested,
			UpdatedAt: "2026-01-28T09:00:00Z",
		},
	}
}

// SampleActivities is the activity half of the sample dataset.
func SampleActivities() []domain.Activity {
	return []domain.Activity{
		{
			ID:          "a1",
			RoleID:      "r1",
			ContactID:   "c1",
			Type:        domain.ActivityEmail,
			Description: "Sent follow-up email to Sarah about the application status.",
			Date:        "2026-01-20",
		},
		{
			ID:          "a2",
			RoleID:      "r2",
			ContactID:   "c3",
			Type:        domain.ActivityInterview,
			Description: "Technical interview with Emily covering React and system design.",
			Date:        "2026-01-25",
		},
		{
			ID:          "a3",
			ContactID:   "c2",
			Type:        domain.ActivityMessage,
			Description: "Messaged John on LinkedIn to grab coffee and talk about current openings.",
			Date:        "2026-01-27",
		},
	}
}

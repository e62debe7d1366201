package model

// ContactMethod is a contact's preferred outreach channel.
type ContactMethod string

const (
	ContactMethodSMS   ContactMethod = "SMS"
	ContactMethodCall  ContactMethod = "Call"
	ContactMethodEmail ContactMethod = "Email"
	ContactMethodAuto  ContactMethod = "Auto"
)

// Valid reports whether m is one of the known contact methods.
func (m ContactMethod) Valid() bool {
	switch m {
	case ContactMethodSMS, ContactMethodCall, ContactMethodEmail, ContactMethodAuto:
		return true
	default:
		return false
	}
}

// ContactStatus is the lifecycle state recorded for a contact in the source sheet.
type ContactStatus string

const (
	ContactStatusNew          ContactStatus = "New"
	ContactStatusContacted    ContactStatus = "Contacted"
	ContactStatusReplied      ContactStatus = "Replied"
	ContactStatusDoNotContact ContactStatus = "Do Not Contact"
	ContactStatusFailed       ContactStatus = "Failed"
)

// Valid reports whether s is one of the known contact statuses.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusContacted, ContactStatusReplied,
		ContactStatusDoNotContact, ContactStatusFailed:
		return true
	default:
		return false
	}
}

// Contact is a single outreach recipient. A Contact that passed ingestion
// always has PhoneNumber or Email set.
type Contact struct {
	FullName               string            `json:"fullName"`
	PhoneNumber            string            `json:"phoneNumber,omitempty"`
	Email                  string            `json:"email,omitempty"`
	Country                string            `json:"country,omitempty"`
	TimeZone               string            `json:"timeZone,omitempty"`
	PreferredContactMethod ContactMethod     `json:"preferredContactMethod"`
	Status                 ContactStatus     `json:"status"`
	CustomVariables        map[string]string `json:"customVariables,omitempty"`
}

// FirstName returns the first whitespace-separated token of FullName.
func (c Contact) FirstName() string {
	for i, r := range c.FullName {
		if r == ' ' {
			return c.FullName[:i]
		}
	}
	return c.FullName
}

// HasPhone reports whether the contact can be reached by SMS or call.
func (c Contact) HasPhone() bool { return c.PhoneNumber != "" }

// HasEmail reports whether the contact can be reached by email.
func (c Contact) HasEmail() bool { return c.Email != "" }

// InvalidRow is a source row rejected during ingestion.
type InvalidRow struct {
	Row    int               `json:"row"`
	Data   map[string]string `json:"data"`
	Errors []string          `json:"errors"`
}

// DuplicateRow is a source row whose phone/email pair was already ingested.
type DuplicateRow struct {
	Row     int     `json:"row"`
	Contact Contact `json:"contact"`
}

// ParseResult is the outcome of ingesting a contact sheet. The three lists
// are disjoint and each preserves source order.
type ParseResult struct {
	Valid      []Contact      `json:"valid"`
	Invalid    []InvalidRow   `json:"invalid"`
	Duplicates []DuplicateRow `json:"duplicates"`
}

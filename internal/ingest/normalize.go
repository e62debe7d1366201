package ingest

import (
	"strings"

	"github.com/sells-group/outreach-cli/internal/model"
)

// contactField is a canonical contact attribute that may appear under
// several spreadsheet headers.
type contactField int

const (
	fieldFullName contactField = iota
	fieldPhone
	fieldEmail
	fieldCountry
	fieldTimeZone
	fieldMethod
	fieldStatus
)

// headerAliases lists the accepted headers per field in priority order.
// The first alias with a non-blank value wins.
var headerAliases = map[contactField][]string{
	fieldFullName: {"Full Name", "name", "fullName", "Name"},
	fieldPhone:    {"Phone Number", "phone", "phoneNumber", "Phone"},
	fieldEmail:    {"Email Address", "email", "Email"},
	fieldCountry:  {"Country", "country"},
	fieldTimeZone: {"Time Zone", "timeZone", "timezone"},
	fieldMethod:   {"Preferred Contact Method", "preferredContactMethod", "contactMethod"},
	fieldStatus:   {"Status", "status"},
}

// standardHeaders is every header claimed by headerAliases.
var standardHeaders = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, aliases := range headerAliases {
		for _, a := range aliases {
			m[a] = struct{}{}
		}
	}
	return m
}()

// lookup returns the first non-blank value among the aliases of f.
func lookup(row Row, f contactField) string {
	for _, alias := range headerAliases[f] {
		if v := row.Get(alias); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// NormalizeRow maps a raw sheet row onto a contact. The result is not yet
// validated: the name may be empty and the email malformed.
func NormalizeRow(row Row) model.Contact {
	return model.Contact{
		FullName:               strings.TrimSpace(lookup(row, fieldFullName)),
		PhoneNumber:            CleanPhoneNumber(lookup(row, fieldPhone)),
		Email:                  CleanEmail(lookup(row, fieldEmail)),
		Country:                strings.TrimSpace(lookup(row, fieldCountry)),
		TimeZone:               strings.TrimSpace(lookup(row, fieldTimeZone)),
		PreferredContactMethod: InferContactMethod(lookup(row, fieldMethod)),
		Status:                 InferStatus(lookup(row, fieldStatus)),
		CustomVariables:        customVariables(row),
	}
}

// CleanPhoneNumber reduces a free-form phone number to a best-effort E.164
// value. Ten-digit numbers are assumed to be North American. Already
// normalized input is returned unchanged. Returns "" when no digits remain.
func CleanPhoneNumber(raw string) string {
	var b strings.Builder
	digits := 0
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	if digits == 0 {
		return ""
	}

	cleaned := b.String()
	switch {
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	case len(cleaned) == 10:
		return "+1" + cleaned
	case len(cleaned) == 11 && cleaned[0] == '1':
		return "+" + cleaned
	default:
		return "+" + cleaned
	}
}

// CleanEmail trims and lower-cases an email address.
func CleanEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// InferContactMethod classifies free text into a contact method.
func InferContactMethod(raw string) model.ContactMethod {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "sms"), strings.Contains(s, "text"):
		return model.ContactMethodSMS
	case strings.Contains(s, "call"), strings.Contains(s, "voice"), strings.Contains(s, "phone"):
		return model.ContactMethodCall
	case strings.Contains(s, "email"), strings.Contains(s, "mail"):
		return model.ContactMethodEmail
	default:
		return model.ContactMethodAuto
	}
}

// InferStatus classifies free text into a contact status. "Do not contact"
// falls through the Contacted check because it contains "not".
func InferStatus(raw string) model.ContactStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "contact") && !strings.Contains(s, "not"):
		return model.ContactStatusContacted
	case strings.Contains(s, "repl"):
		return model.ContactStatusReplied
	case strings.Contains(s, "not"), strings.Contains(s, "dnc"), strings.Contains(s, "block"):
		return model.ContactStatusDoNotContact
	case strings.Contains(s, "fail"), strings.Contains(s, "error"):
		return model.ContactStatusFailed
	default:
		return model.ContactStatusNew
	}
}

// customVariables keeps every non-blank column that is not a known alias.
func customVariables(row Row) map[string]string {
	var vars map[string]string
	for _, c := range row {
		if _, ok := standardHeaders[c.Header]; ok {
			continue
		}
		if c.Value == "" {
			continue
		}
		if vars == nil {
			vars = make(map[string]string)
		}
		vars[c.Header] = c.Value
	}
	return vars
}

package ingest

import (
	"fmt"
	"regexp"

	"github.com/sells-group/outreach-cli/internal/model"
)

// errNoReachableChannel is reported for rows with neither phone nor email.
const errNoReachableChannel = "At least one contact method (phone or email) is required"

// emailPattern accepts the common address grammar: no leading or doubled
// dots in the local part and a dotted domain with an alphabetic TLD.
var emailPattern = regexp.MustCompile(`(?i)^[a-z0-9_'+\-.]*[a-z0-9_+\-]@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

// FieldError is a single validation failure on a contact field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateContact checks c against the contact schema, filling the method and
// status defaults when they are empty. It does not check reachability.
func ValidateContact(c *model.Contact) []FieldError {
	var errs []FieldError

	if c.FullName == "" {
		errs = append(errs, FieldError{Field: "fullName", Message: "Name is required"})
	}

	if c.Email != "" && !validEmail(c.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email"})
	}

	if c.PreferredContactMethod == "" {
		c.PreferredContactMethod = model.ContactMethodAuto
	}
	if !c.PreferredContactMethod.Valid() {
		errs = append(errs, FieldError{
			Field:   "preferredContactMethod",
			Message: fmt.Sprintf("Invalid value %q, expected SMS, Call, Email or Auto", c.PreferredContactMethod),
		})
	}

	if c.Status == "" {
		c.Status = model.ContactStatusNew
	}
	if !c.Status.Valid() {
		errs = append(errs, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("Invalid value %q, expected New, Contacted, Replied, Do Not Contact or Failed", c.Status),
		})
	}

	return errs
}

func validEmail(s string) bool {
	if !emailPattern.MatchString(s) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '.' && s[i-1] == '.' {
			return false
		}
	}
	return s[0] != '.'
}

func errorStrings(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.String()
	}
	return out
}

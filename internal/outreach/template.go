package outreach

import (
	"strings"

	"github.com/sells-group/outreach-cli/internal/model"
)

// FillTemplate replaces every literal {{key}} in tmpl. Keys are name,
// firstName and the contact's custom variables; a custom variable with the
// same key overrides the built-in one. Matching is case-sensitive and
// placeholders without a value are left as-is.
func FillTemplate(tmpl string, c model.Contact) string {
	vars := map[string]string{
		"name":      c.FullName,
		"firstName": c.FirstName(),
	}
	for k, v := range c.CustomVariables {
		vars[k] = v
	}

	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

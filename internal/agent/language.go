package agent

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageName renders a BCP-47 tag such as "es" or "pt-BR" as an English
// name. Anything that is not a tag (e.g. "Spanish") is returned unchanged.
func languageName(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "English"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return lang
}

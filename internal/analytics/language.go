package analytics

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/Veraticus/polyreview/internal/model"
)

var namer = display.English.Languages()

// DisplayName returns the English name of a language code, or the code itself
// when it is not a known language.
func DisplayName(code string) string {
	switch code {
	case model.LanguageUnknown:
		return "Unknown"
	case model.LanguageError:
		return "Failed"
	case "":
		return ""
	}

	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := namer.Name(tag); name != "" {
		return name
	}
	return code
}

package playwright

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// Playwright selector strings for each locator kind. Values are quoted so that
// quotes and backslashes in ids or texts cannot change the selector.

func idSelector(id string) string { return "[id=" + quote(id) + "]" }

func nameSelector(name string) string { return "[name=" + quote(name) + "]" }

func xpathSelector(path string) string { return "xpath=" + path }

func cssSelector(selector string) string { return "css=" + selector }

// textSelector matches the smallest elements with the given text. Exact matching
// is case sensitive after white space normalization; partial matching is a
// case-insensitive substring match.
func textSelector(text string, exact bool) string {
	if exact {
		return "text=" + quote(text)
	}
	return "text=" + text
}

func linkSelector(text string) string { return "a:text-is(" + quote(text) + ")" }

func attributeSelector(name, value string) (string, error) {
	if !validAttributeName(name) {
		return "", core.ErrInvalidLocator.WithMessagef("invalid attribute name %q", name)
	}
	return fmt.Sprintf("[%s=%s]", name, quote(value)), nil
}

func validAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

package by

import (
	"strings"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// Parse converts the string form "kind=value" into a locator.
// Kinds: id, name, xpath, css, text, partial, link.
// A value without a kind is an XPath when it starts with "/" or "(", and a partial text otherwise.
func Parse(s string) (core.Locator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, core.ErrInvalidLocator.WithMessage("empty locator")
	}

	kind, value, found := strings.Cut(s, "=")
	kind = strings.TrimSpace(kind)
	if !found || !isKind(kind) {
		if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(") {
			return XPath(s), nil
		}
		return PartialText(s), nil
	}

	value = unquote(strings.TrimSpace(value))
	if value == "" {
		return nil, core.ErrInvalidLocator.WithMessagef("locator %q has an empty value", s)
	}

	switch kind {
	case "id":
		return ID(value), nil
	case "name":
		return Name(value), nil
	case "xpath":
		return XPath(value), nil
	case "css":
		return CSS(value), nil
	case "text":
		return Text(value), nil
	case "partial":
		return PartialText(value), nil
	case "link":
		return LinkText(value), nil
	}
	return nil, core.ErrInvalidLocator.WithMessagef("unknown locator kind %q", kind)
}

// MustParse is Parse for locators known to be valid.
func MustParse(s string) core.Locator {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

func isKind(s string) bool {
	switch s {
	case "id", "name", "xpath", "css", "text", "partial", "link":
		return true
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

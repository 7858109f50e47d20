package mock

import (
	"strings"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// compileSelector supports one compound selector: tag, #id, .class and [attr] or
// [attr=value] parts, e.g. `a.nav[data-x="1"]`. Combinators are not supported;
// use by.Chained to search inside another element.
func compileSelector(selector string) (func(*Node) bool, error) {
	s := strings.TrimSpace(selector)
	if s == "" || (strings.ContainsAny(s, " >+~,") && !inBrackets(s)) {
		return nil, core.ErrInvalidLocator.WithMessagef("unsupported css selector %q", selector)
	}

	var checks []func(*Node) bool
	tag, rest := splitIdent(s)
	if tag != "" && tag != "*" {
		checks = append(checks, func(n *Node) bool { return n.Tag == tag })
	}

	for rest != "" {
		switch rest[0] {
		case '#':
			var id string
			id, rest = splitIdent(rest[1:])
			if id == "" {
				return nil, invalidSelector(selector)
			}
			checks = append(checks, byAttr("id", id))
		case '.':
			var class string
			class, rest = splitIdent(rest[1:])
			if class == "" {
				return nil, invalidSelector(selector)
			}
			checks = append(checks, hasClass(class))
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, invalidSelector(selector)
			}
			name, value, hasValue := strings.Cut(rest[1:end], "=")
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, invalidSelector(selector)
			}
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			if hasValue {
				checks = append(checks, byAttr(name, value))
			} else {
				checks = append(checks, func(n *Node) bool { return n.Attr(name) != "" })
			}
			rest = rest[end+1:]
		default:
			return nil, invalidSelector(selector)
		}
	}

	return func(n *Node) bool {
		for _, check := range checks {
			if !check(n) {
				return false
			}
		}
		return true
	}, nil
}

func hasClass(class string) func(*Node) bool {
	return func(n *Node) bool {
		for _, c := range strings.Fields(n.Attrs["class"]) {
			if c == class {
				return true
			}
		}
		return false
	}
}

// splitIdent splits s after its leading identifier.
func splitIdent(s string) (string, string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '#' || c == '.' || c == '[' {
			break
		}
		i++
	}
	return s[:i], s[i:]
}

// inBrackets reports whether every combinator-like character of s sits inside [...].
func inBrackets(s string) bool {
	depth := 0
	for _, c := range s {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
		case ' ', '>', '+', '~', ',':
			if depth == 0 {
				return false
			}
		}
	}
	return true
}

func invalidSelector(selector string) error {
	return core.ErrInvalidLocator.WithMessagef("invalid css selector %q", selector)
}

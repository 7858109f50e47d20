package hierarchy

import (
	"regexp"
	"strings"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
)

// searcher implements the finder capabilities below one node.
type searcher struct {
	snap *Snapshot
	node *Node
	ctx  core.Context
}

func (s searcher) matches(match func(*Node) bool) []*Node {
	var found []*Node
	s.node.walk(func(n *Node) {
		if match(n) {
			found = append(found, n)
		}
	})
	return found
}

func (s searcher) all(match func(*Node) bool) []core.Element {
	nodes := s.matches(match)
	found := make([]core.Element, 0, len(nodes))
	for _, n := range nodes {
		found = append(found, s.snap.element(n))
	}
	return found
}

func (s searcher) first(l core.Locator, match func(*Node) bool) (core.Element, error) {
	return by.First(s.all(match), l)
}

func (s searcher) FindElementByID(id string) (core.Element, error) {
	s.snap.record("id", id)
	return s.first(by.ID(id), s.byID(id))
}

func (s searcher) FindElementsByID(id string) ([]core.Element, error) {
	s.snap.record("id", id)
	return s.all(s.byID(id)), nil
}

func (s searcher) FindElementByName(name string) (core.Element, error) {
	s.snap.record("name", name)
	return s.first(by.Name(name), byAttr(s.snap.nameAttr(), name))
}

func (s searcher) FindElementsByName(name string) ([]core.Element, error) {
	s.snap.record("name", name)
	return s.all(byAttr(s.snap.nameAttr(), name)), nil
}

// FindElementByText returns the deepest match so a label wins over the
// container that merges its children's text.
func (s searcher) FindElementByText(text string, exact bool) (core.Element, error) {
	s.snap.record("text", text)
	l := by.PartialText(text)
	if exact {
		l = by.Text(text)
	}
	nodes := s.matches(s.byText(text, exact))
	if len(nodes) == 0 {
		return by.First(nil, l)
	}
	return s.snap.element(deepest(nodes)), nil
}

func (s searcher) FindElementsByText(text string, exact bool) ([]core.Element, error) {
	s.snap.record("text", text)
	return s.all(s.byText(text, exact)), nil
}

func (s searcher) FindElementByAttribute(name, value string) (core.Element, error) {
	s.snap.record("attribute", name+"="+value)
	return s.first(by.Attribute(name, value), byAttr(name, value))
}

func (s searcher) FindElementsByAttribute(name, value string) ([]core.Element, error) {
	s.snap.record("attribute", name+"="+value)
	return s.all(byAttr(name, value)), nil
}

func (s searcher) FindElementByView(v core.View) (core.Element, error) {
	anchor, err := anchorOf(v)
	if err != nil {
		return nil, err
	}
	s.snap.record("view", anchor.String())
	return anchor.Find(s.ctx)
}

func (s searcher) FindElementsByView(v core.View) ([]core.Element, error) {
	anchor, err := anchorOf(v)
	if err != nil {
		return nil, err
	}
	s.snap.record("view", anchor.String())
	return anchor.FindAll(s.ctx)
}

func (s searcher) FindElementByNested(parent core.Element, child core.Locator) (core.Element, error) {
	s.snap.record("nested", child.String())
	return by.FindNested(parent, child)
}

func (s searcher) FindElementsByNested(parent core.Element, child core.Locator) ([]core.Element, error) {
	s.snap.record("nested", child.String())
	return by.FindAllNested(parent, child)
}

func (s searcher) FindElementByChained(steps []core.Locator) (core.Element, error) {
	s.snap.record("chained", by.Chained(steps...).String())
	return by.FindChainFirst(s.ctx, steps)
}

func (s searcher) FindElementsByChained(steps []core.Locator) ([]core.Element, error) {
	s.snap.record("chained", by.Chained(steps...).String())
	return by.FindChain(s.ctx, steps)
}

func anchorOf(v core.View) (core.Locator, error) {
	if a, ok := v.(core.Anchored); ok && a.Anchor() != nil {
		return a.Anchor(), nil
	}
	return nil, core.ErrInvalidDefinition.WithMessagef("view %T declares no anchor and cannot be located", v)
}

// byID matches Android resource ids with or without the package prefix
// ("com.app:id/login" matches "login").
func (s searcher) byID(id string) func(*Node) bool {
	attr := s.snap.idAttr()
	return func(n *Node) bool {
		v := n.Attr(attr)
		if v == id {
			return true
		}
		return s.snap.platform == Android && strings.HasSuffix(v, ":id/"+id)
	}
}

func byAttr(name, value string) func(*Node) bool {
	return func(n *Node) bool {
		v, ok := n.Attrs[name]
		return ok && v == value
	}
}

// byText matches any of the platform's text attributes. Exact matching compares
// the trimmed value with newlines folded to spaces; partial matching follows matchesText.
func (s searcher) byText(text string, exact bool) func(*Node) bool {
	attrs := s.snap.textAttrs()
	return func(n *Node) bool {
		for _, name := range attrs {
			v := n.Attr(name)
			if v == "" {
				continue
			}
			if exact {
				if strings.TrimSpace(strings.ReplaceAll(v, "\n", " ")) == text {
					return true
				}
			} else if matchesText(text, v) {
				return true
			}
		}
		return false
	}
}

// matchesText matches pattern against value. A pattern with regex metacharacters is
// a case-insensitive regex. Anything else is a case-insensitive substring.
func matchesText(pattern, value string) bool {
	if looksLikeRegex(pattern) {
		if re, err := regexp.Compile("(?i)" + pattern); err == nil {
			folded := strings.ReplaceAll(value, "\n", " ")
			return re.MatchString(value) || re.MatchString(folded)
		}
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

// looksLikeRegex reports whether text uses regex syntax. A '.' only counts when
// followed by a quantifier so that "example.com" stays literal.
func looksLikeRegex(text string) bool {
	for i := 0; i < len(text); i++ {
		if i > 0 && text[i-1] == '\\' {
			continue
		}
		switch c := text[i]; c {
		case '.':
			if i+1 < len(text) && strings.IndexByte("*+?", text[i+1]) >= 0 {
				return true
			}
		case '*', '+', '?', '[', ']', '{', '}', '|', '(', ')':
			return true
		case '^':
			if i == 0 {
				return true
			}
		case '$':
			if i == len(text)-1 {
				return true
			}
		}
	}
	return false
}

func deepest(nodes []*Node) *Node {
	d := nodes[0]
	for _, n := range nodes[1:] {
		if n.Depth > d.Depth {
			d = n
		}
	}
	return d
}

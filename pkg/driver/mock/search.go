package mock

import (
	"strings"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
)

// searcher implements the finder capabilities below one node.
// ctx is the context owning the searcher, used for composite lookups.
type searcher struct {
	driver *Driver
	node   *Node
	ctx    core.Context
}

func (s searcher) all(match func(*Node) bool) []core.Element {
	var found []core.Element
	s.node.walk(func(n *Node) {
		if match(n) {
			found = append(found, s.driver.element(n))
		}
	})
	return found
}

func (s searcher) first(l core.Locator, match func(*Node) bool) (core.Element, error) {
	return by.First(s.all(match), l)
}

func (s searcher) FindElementByID(id string) (core.Element, error) {
	s.driver.record("id", id)
	return s.first(by.ID(id), byAttr("id", id))
}

func (s searcher) FindElementsByID(id string) ([]core.Element, error) {
	s.driver.record("id", id)
	return s.all(byAttr("id", id)), nil
}

func (s searcher) FindElementByName(name string) (core.Element, error) {
	s.driver.record("name", name)
	return s.first(by.Name(name), byAttr("name", name))
}

func (s searcher) FindElementsByName(name string) ([]core.Element, error) {
	s.driver.record("name", name)
	return s.all(byAttr("name", name)), nil
}

func (s searcher) FindElementByCSS(selector string) (core.Element, error) {
	s.driver.record("css", selector)
	match, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}
	return s.first(by.CSS(selector), match)
}

func (s searcher) FindElementsByCSS(selector string) ([]core.Element, error) {
	s.driver.record("css", selector)
	match, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}
	return s.all(match), nil
}

func (s searcher) FindElementByText(text string, exact bool) (core.Element, error) {
	s.driver.record("text", text)
	l := by.PartialText(text)
	if exact {
		l = by.Text(text)
	}
	return s.first(l, byText(text, exact))
}

func (s searcher) FindElementsByText(text string, exact bool) ([]core.Element, error) {
	s.driver.record("text", text)
	return s.all(byText(text, exact)), nil
}

func (s searcher) FindElementByLinkText(text string) (core.Element, error) {
	s.driver.record("link", text)
	return s.first(by.LinkText(text), byLink(text))
}

func (s searcher) FindElementsByLinkText(text string) ([]core.Element, error) {
	s.driver.record("link", text)
	return s.all(byLink(text)), nil
}

func (s searcher) FindElementByAttribute(name, value string) (core.Element, error) {
	s.driver.record("attribute", name+"="+value)
	return s.first(by.Attribute(name, value), byAttr(name, value))
}

func (s searcher) FindElementsByAttribute(name, value string) ([]core.Element, error) {
	s.driver.record("attribute", name+"="+value)
	return s.all(byAttr(name, value)), nil
}

func (s searcher) FindElementByView(v core.View) (core.Element, error) {
	anchor, err := anchorOf(v)
	if err != nil {
		return nil, err
	}
	s.driver.record("view", anchor.String())
	return anchor.Find(s.ctx)
}

func (s searcher) FindElementsByView(v core.View) ([]core.Element, error) {
	anchor, err := anchorOf(v)
	if err != nil {
		return nil, err
	}
	s.driver.record("view", anchor.String())
	return anchor.FindAll(s.ctx)
}

func (s searcher) FindElementByNested(parent core.Element, child core.Locator) (core.Element, error) {
	s.driver.record("nested", child.String())
	return by.FindNested(parent, child)
}

func (s searcher) FindElementsByNested(parent core.Element, child core.Locator) ([]core.Element, error) {
	s.driver.record("nested", child.String())
	return by.FindAllNested(parent, child)
}

func (s searcher) FindElementByChained(steps []core.Locator) (core.Element, error) {
	s.driver.record("chained", by.Chained(steps...).String())
	return by.FindChainFirst(s.ctx, steps)
}

func (s searcher) FindElementsByChained(steps []core.Locator) ([]core.Element, error) {
	s.driver.record("chained", by.Chained(steps...).String())
	return by.FindChain(s.ctx, steps)
}

func anchorOf(v core.View) (core.Locator, error) {
	if a, ok := v.(core.Anchored); ok && a.Anchor() != nil {
		return a.Anchor(), nil
	}
	return nil, core.ErrInvalidDefinition.WithMessagef("view %T declares no anchor and cannot be located", v)
}

func byAttr(name, value string) func(*Node) bool {
	return func(n *Node) bool { return n.Attr(name) == value }
}

func byText(text string, exact bool) func(*Node) bool {
	return func(n *Node) bool {
		if exact {
			return strings.TrimSpace(n.Text) == text
		}
		return strings.Contains(n.Text, text)
	}
}

func byLink(text string) func(*Node) bool {
	return func(n *Node) bool {
		return n.Tag == "a" && strings.TrimSpace(n.Text) == text
	}
}

package playwright

import (
	"fmt"

	pw "github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
)

// searcher implements the finder capabilities below one Playwright scope.
// ctx is the context owning the searcher, used for composite lookups.
type searcher struct {
	owner *Page
	scope func(selector string) pw.Locator
	ctx   core.Context
}

// all pins one element per current match of selector.
func (s searcher) all(selector string) ([]core.Element, error) {
	loc := s.scope(selector)
	n, err := loc.Count()
	if err != nil {
		return nil, driverError("count", selector, err)
	}
	found := make([]core.Element, 0, n)
	for i := 0; i < n; i++ {
		found = append(found, newElement(s.owner, loc.Nth(i), fmt.Sprintf("%s[%d]", selector, i)))
	}
	return found, nil
}

func (s searcher) first(selector string, l core.Locator) (core.Element, error) {
	loc := s.scope(selector)
	n, err := loc.Count()
	if err != nil {
		return nil, driverError("count", selector, err)
	}
	if n == 0 {
		return by.First(nil, l)
	}
	return newElement(s.owner, loc.First(), selector), nil
}

func (s searcher) FindElementByID(id string) (core.Element, error) {
	return s.first(idSelector(id), by.ID(id))
}

func (s searcher) FindElementsByID(id string) ([]core.Element, error) {
	return s.all(idSelector(id))
}

func (s searcher) FindElementByName(name string) (core.Element, error) {
	return s.first(nameSelector(name), by.Name(name))
}

func (s searcher) FindElementsByName(name string) ([]core.Element, error) {
	return s.all(nameSelector(name))
}

func (s searcher) FindElementByXPath(path string) (core.Element, error) {
	return s.first(xpathSelector(path), by.XPath(path))
}

func (s searcher) FindElementsByXPath(path string) ([]core.Element, error) {
	return s.all(xpathSelector(path))
}

func (s searcher) FindElementByCSS(selector string) (core.Element, error) {
	return s.first(cssSelector(selector), by.CSS(selector))
}

func (s searcher) FindElementsByCSS(selector string) ([]core.Element, error) {
	return s.all(cssSelector(selector))
}

func (s searcher) FindElementByText(text string, exact bool) (core.Element, error) {
	l := by.PartialText(text)
	if exact {
		l = by.Text(text)
	}
	return s.first(textSelector(text, exact), l)
}

func (s searcher) FindElementsByText(text string, exact bool) ([]core.Element, error) {
	return s.all(textSelector(text, exact))
}

func (s searcher) FindElementByLinkText(text string) (core.Element, error) {
	return s.first(linkSelector(text), by.LinkText(text))
}

func (s searcher) FindElementsByLinkText(text string) ([]core.Element, error) {
	return s.all(linkSelector(text))
}

func (s searcher) FindElementByAttribute(name, value string) (core.Element, error) {
	selector, err := attributeSelector(name, value)
	if err != nil {
		return nil, err
	}
	return s.first(selector, by.Attribute(name, value))
}

func (s searcher) FindElementsByAttribute(name, value string) ([]core.Element, error) {
	selector, err := attributeSelector(name, value)
	if err != nil {
		return nil, err
	}
	return s.all(selector)
}

func (s searcher) FindElementByView(v core.View) (core.Element, error) {
	anchor, err := anchorOf(v)
	if err != nil {
		return nil, err
	}
	return anchor.Find(s.ctx)
}

func (s searcher) FindElementsByView(v core.View) ([]core.Element, error) {
	anchor, err := anchorOf(v)
	if err != nil {
		return nil, err
	}
	return anchor.FindAll(s.ctx)
}

func (s searcher) FindElementByNested(parent core.Element, child core.Locator) (core.Element, error) {
	return by.FindNested(parent, child)
}

func (s searcher) FindElementsByNested(parent core.Element, child core.Locator) ([]core.Element, error) {
	return by.FindAllNested(parent, child)
}

func (s searcher) FindElementByChained(steps []core.Locator) (core.Element, error) {
	return by.FindChainFirst(s.ctx, steps)
}

func (s searcher) FindElementsByChained(steps []core.Locator) ([]core.Element, error) {
	return by.FindChain(s.ctx, steps)
}

func anchorOf(v core.View) (core.Locator, error) {
	if a, ok := v.(core.Anchored); ok && a.Anchor() != nil {
		return a.Anchor(), nil
	}
	return nil, core.ErrInvalidDefinition.WithMessagef("view %T declares no anchor and cannot be located", v)
}

package htmldoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
)

// searcher implements the finder capabilities below one selection.
// ctx is the context owning the searcher, used for composite lookups.
type searcher struct {
	doc *Document
	sel *goquery.Selection
	ctx core.Context
}

func (s searcher) elements(found *goquery.Selection) []core.Element {
	result := make([]core.Element, 0, found.Length())
	for _, n := range found.Nodes {
		result = append(result, s.doc.element(n))
	}
	return result
}

func (s searcher) filter(match func(*html.Node) bool) []core.Element {
	return s.elements(s.sel.Find("*").FilterFunction(func(_ int, c *goquery.Selection) bool {
		return match(c.Get(0))
	}))
}

func (s searcher) FindElementByID(id string) (core.Element, error) {
	found, _ := s.FindElementsByID(id)
	return by.First(found, by.ID(id))
}

func (s searcher) FindElementsByID(id string) ([]core.Element, error) {
	s.doc.record("id", id)
	return s.filter(byAttr("id", id)), nil
}

func (s searcher) FindElementByName(name string) (core.Element, error) {
	found, _ := s.FindElementsByName(name)
	return by.First(found, by.Name(name))
}

func (s searcher) FindElementsByName(name string) ([]core.Element, error) {
	s.doc.record("name", name)
	return s.filter(byAttr("name", name)), nil
}

func (s searcher) FindElementByCSS(selector string) (core.Element, error) {
	found, err := s.FindElementsByCSS(selector)
	if err != nil {
		return nil, err
	}
	return by.First(found, by.CSS(selector))
}

func (s searcher) FindElementsByCSS(selector string) ([]core.Element, error) {
	s.doc.record("css", selector)
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, core.ErrInvalidLocator.WithMessagef("invalid CSS selector %q", selector).WithCause(err)
	}
	return s.elements(s.sel.FindMatcher(m)), nil
}

func (s searcher) FindElementByXPath(path string) (core.Element, error) {
	found, err := s.FindElementsByXPath(path)
	if err != nil {
		return nil, err
	}
	return by.First(found, by.XPath(path))
}

// FindElementsByXPath evaluates path with the searcher's node as the context node,
// so ".//" searches inside it and "//" searches the whole document.
func (s searcher) FindElementsByXPath(path string) ([]core.Element, error) {
	s.doc.record("xpath", path)
	nodes, err := htmlquery.QueryAll(s.sel.Get(0), path)
	if err != nil {
		return nil, core.ErrInvalidLocator.WithMessagef("invalid XPath %q", path).WithCause(err)
	}
	result := make([]core.Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			result = append(result, s.doc.element(n))
		}
	}
	return result, nil
}

// FindElementByText returns the deepest element whose text matches.
func (s searcher) FindElementByText(text string, exact bool) (core.Element, error) {
	found, _ := s.FindElementsByText(text, exact)
	l := by.PartialText(text)
	if exact {
		l = by.Text(text)
	}
	return by.First(found, l)
}

// FindElementsByText returns the matching elements that contain no matching descendant,
// so a match on <li><span>Bob</span></li> yields the span only.
func (s searcher) FindElementsByText(text string, exact bool) ([]core.Element, error) {
	s.doc.record("text", text)
	match := byText(text, exact)
	return s.elements(s.sel.Find("*").FilterFunction(func(_ int, c *goquery.Selection) bool {
		if !match(c.Get(0)) {
			return false
		}
		return c.Find("*").FilterFunction(func(_ int, d *goquery.Selection) bool {
			return match(d.Get(0))
		}).Length() == 0
	})), nil
}

func (s searcher) FindElementByLinkText(text string) (core.Element, error) {
	found, _ := s.FindElementsByLinkText(text)
	return by.First(found, by.LinkText(text))
}

func (s searcher) FindElementsByLinkText(text string) ([]core.Element, error) {
	s.doc.record("link", text)
	return s.elements(s.sel.Find("a").FilterFunction(func(_ int, c *goquery.Selection) bool {
		return normalize(c.Text()) == text
	})), nil
}

func (s searcher) FindElementByAttribute(name, value string) (core.Element, error) {
	found, _ := s.FindElementsByAttribute(name, value)
	return by.First(found, by.Attribute(name, value))
}

func (s searcher) FindElementsByAttribute(name, value string) ([]core.Element, error) {
	s.doc.record("attribute", name+"="+value)
	return s.filter(byAttr(name, value)), nil
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

func byAttr(name, value string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasAttr(n, name) && attr(n, name) == value }
}

func byText(text string, exact bool) func(*html.Node) bool {
	return func(n *html.Node) bool {
		content := normalize(goquery.NewDocumentFromNode(n).Text())
		if exact {
			return content == text
		}
		return strings.Contains(content, text)
	}
}

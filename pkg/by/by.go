// Package by provides the locator DSL: immutable descriptions of how to find something.
// Pure data structures - the context they are resolved against decides how to find.
package by

import (
	"fmt"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// IDLocator finds elements by id.
type IDLocator struct{ ID string }

// NameLocator finds elements by name.
type NameLocator struct{ Name string }

// XPathLocator finds elements by an XPath expression.
type XPathLocator struct{ Path string }

// CSSLocator finds elements by a CSS selector.
type CSSLocator struct{ Selector string }

// TextLocator finds elements by their text content.
type TextLocator struct {
	Text  string
	Exact bool // false = partial (contains) match
}

// LinkTextLocator finds links by their exact text.
type LinkTextLocator struct{ Text string }

// AttributeLocator finds elements with an attribute equal to a value.
type AttributeLocator struct{ Name, Value string }

// ID locates by id.
func ID(id string) IDLocator { return IDLocator{ID: id} }

// Name locates by name.
func Name(name string) NameLocator { return NameLocator{Name: name} }

// XPath locates by XPath.
func XPath(path string) XPathLocator { return XPathLocator{Path: path} }

// CSS locates by CSS selector.
func CSS(selector string) CSSLocator { return CSSLocator{Selector: selector} }

// Text locates by exact text content.
func Text(text string) TextLocator { return TextLocator{Text: text, Exact: true} }

// PartialText locates by text content containing text.
func PartialText(text string) TextLocator { return TextLocator{Text: text} }

// LinkText locates links by text.
func LinkText(text string) LinkTextLocator { return LinkTextLocator{Text: text} }

// Attribute locates by attribute value.
func Attribute(name, value string) AttributeLocator {
	return AttributeLocator{Name: name, Value: value}
}

func (l IDLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByID](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByID(l.ID)
}

func (l IDLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByID](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByID(l.ID)
}

func (l IDLocator) String() string { return fmt.Sprintf("id=%q", l.ID) }

func (l NameLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByName](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByName(l.Name)
}

func (l NameLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByName](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByName(l.Name)
}

func (l NameLocator) String() string { return fmt.Sprintf("name=%q", l.Name) }

func (l XPathLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByXPath](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByXPath(l.Path)
}

func (l XPathLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByXPath](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByXPath(l.Path)
}

func (l XPathLocator) String() string { return fmt.Sprintf("xpath=%q", l.Path) }

func (l CSSLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByCSS](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByCSS(l.Selector)
}

func (l CSSLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByCSS](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByCSS(l.Selector)
}

func (l CSSLocator) String() string { return fmt.Sprintf("css=%q", l.Selector) }

func (l TextLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByText](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByText(l.Text, l.Exact)
}

func (l TextLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByText](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByText(l.Text, l.Exact)
}

func (l TextLocator) String() string {
	if l.Exact {
		return fmt.Sprintf("text=%q", l.Text)
	}
	return fmt.Sprintf("partial=%q", l.Text)
}

func (l LinkTextLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByLinkText](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByLinkText(l.Text)
}

func (l LinkTextLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByLinkText](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByLinkText(l.Text)
}

func (l LinkTextLocator) String() string { return fmt.Sprintf("link=%q", l.Text) }

func (l AttributeLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByAttribute](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByAttribute(l.Name, l.Value)
}

func (l AttributeLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByAttribute](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByAttribute(l.Name, l.Value)
}

func (l AttributeLocator) String() string {
	return fmt.Sprintf("attribute[%s]=%q", l.Name, l.Value)
}

// Package playwright provides a driver context over a live browser page driven by
// playwright-go. Each locator kind is translated into a Playwright selector; an
// element is a Playwright locator pinned to one match, and is itself a context
// searching inside that match.
package playwright

import (
	"errors"
	"fmt"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/logger"
	"github.com/devicelab-dev/pageview/pkg/view"
)

// DefaultTimeout bounds every Playwright call made while evaluating a condition.
// Conditions are polled from outside, so calls should fail fast.
const DefaultTimeout = 2 * time.Second

// Page is the page-level context.
type Page struct {
	searcher
	page    pw.Page
	timeout time.Duration
}

// New wraps an open page.
func New(page pw.Page) *Page {
	p := &Page{page: page, timeout: DefaultTimeout}
	p.searcher = searcher{owner: p, ctx: p, scope: func(selector string) pw.Locator {
		return page.Locator(selector)
	}}
	return p
}

// SetTimeout changes the per-call timeout.
func (p *Page) SetTimeout(d time.Duration) {
	p.timeout = d
}

// Page returns the wrapped page.
func (p *Page) Page() pw.Page { return p.page }

// Find returns the page-level selection.
func (p *Page) Find() core.Selection {
	return view.NewSelection(p)
}

func (p *Page) String() string {
	return fmt.Sprintf("page(%s)", p.page.URL())
}

func (p *Page) millis() *float64 {
	return pw.Float(float64(p.timeout.Milliseconds()))
}

// Element is one match of a Playwright locator.
type Element struct {
	searcher
	locator pw.Locator
	desc    string
}

func newElement(p *Page, l pw.Locator, desc string) *Element {
	e := &Element{locator: l, desc: desc}
	e.searcher = searcher{owner: p, ctx: e, scope: func(selector string) pw.Locator {
		return l.Locator(selector)
	}}
	return e
}

// Locator returns the pinned Playwright locator.
func (e *Element) Locator() pw.Locator { return e.locator }

func (e *Element) Find() core.Selection {
	return view.NewSelection(e)
}

// IsPresent reports whether the match is still attached.
func (e *Element) IsPresent() (bool, error) {
	n, err := e.locator.Count()
	if err != nil {
		return false, driverError("count", e.desc, err)
	}
	return n > 0, nil
}

func (e *Element) IsDisplayed() (bool, error) {
	visible, err := e.locator.IsVisible()
	if err != nil {
		return false, driverError("isVisible", e.desc, err)
	}
	return visible, nil
}

// Attribute returns the attribute value, "" when it is not set.
func (e *Element) Attribute(name string) (string, error) {
	if err := e.attached(); err != nil {
		return "", err
	}
	value, err := e.locator.GetAttribute(name, pw.LocatorGetAttributeOptions{Timeout: e.owner.millis()})
	if err != nil {
		return "", driverError("getAttribute", e.desc, err)
	}
	return value, nil
}

func (e *Element) Text() (string, error) {
	if err := e.attached(); err != nil {
		return "", err
	}
	text, err := e.locator.InnerText(pw.LocatorInnerTextOptions{Timeout: e.owner.millis()})
	if err != nil {
		return "", driverError("innerText", e.desc, err)
	}
	return text, nil
}

func (e *Element) String() string { return e.desc }

func (e *Element) attached() error {
	ok, err := e.IsPresent()
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrElementNotFound.WithMessagef("element %s is no longer attached", e.desc)
	}
	return nil
}

// driverError maps Playwright failures: timeouts mean the element went away,
// everything else is a driver failure.
func driverError(call, desc string, err error) error {
	if errors.Is(err, pw.ErrTimeout) {
		return core.ErrElementNotFound.WithMessagef("%s on %s timed out", call, desc).WithCause(err)
	}
	logger.Debug("playwright %s on %s failed: %v", call, desc, err)
	return core.ErrDriverFailure.WithMessagef("%s on %s failed", call, desc).WithCause(err)
}

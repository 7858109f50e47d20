package view

import (
	"fmt"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
)

// Element is a lazy element handle. It resolves its locator through the attached
// context on first use and caches the result until the context changes or
// Invalidate is called.
type Element struct {
	locator  core.Locator
	ctx      core.Context
	delegate core.Element
}

// NewElement returns an unbound handle for l.
func NewElement(l core.Locator) *Element {
	return &Element{locator: l}
}

// Locator returns the handle's locator.
func (e *Element) Locator() core.Locator { return e.locator }

// SetContext attaches ctx. Attaching a different context drops the cached element;
// attaching the same one again keeps it.
func (e *Element) SetContext(ctx core.Context) {
	if sameContext(e.ctx, ctx) {
		return
	}
	e.ctx = ctx
	e.delegate = nil
}

// Context returns the attached context.
func (e *Element) Context() (core.Context, error) {
	if e.ctx == nil {
		return nil, e.noContext()
	}
	return e.ctx, nil
}

// Invalidate drops the cached element; the next call resolves again.
func (e *Element) Invalidate() {
	e.delegate = nil
}

// Resolve returns the located element, resolving it if needed.
func (e *Element) Resolve() (core.Element, error) {
	if e.ctx == nil {
		return nil, e.noContext()
	}
	if e.delegate != nil {
		return e.delegate, nil
	}
	found, err := e.ctx.Find().Locate(e.locator)
	if err != nil {
		return nil, notFound("element", e.locator, err)
	}
	if found == nil {
		return nil, notFound("element", e.locator, core.ErrElementNotFound)
	}
	e.delegate = found
	return found, nil
}

// IsPresent reports false when the locator matches nothing.
func (e *Element) IsPresent() (bool, error) {
	d, err := e.Resolve()
	if err != nil {
		return false, tolerateNotFound(err)
	}
	return d.IsPresent()
}

// IsDisplayed reports false when the locator matches nothing.
func (e *Element) IsDisplayed() (bool, error) {
	d, err := e.Resolve()
	if err != nil {
		return false, tolerateNotFound(err)
	}
	return d.IsDisplayed()
}

// Attribute forwards to the located element.
func (e *Element) Attribute(name string) (string, error) {
	d, err := e.Resolve()
	if err != nil {
		return "", err
	}
	a, ok := d.(core.Attributed)
	if !ok {
		return "", core.ErrNotSupported.WithMessagef("element %s (%T) has no attributes", e.locator, d)
	}
	return a.Attribute(name)
}

// Text forwards to the located element.
func (e *Element) Text() (string, error) {
	d, err := e.Resolve()
	if err != nil {
		return "", err
	}
	t, ok := d.(core.Texter)
	if !ok {
		return "", core.ErrNotSupported.WithMessagef("element %s (%T) has no text", e.locator, d)
	}
	return t.Text()
}

// Find searches inside the located element.
func (e *Element) Find() core.Selection {
	return &deferredSelection{
		owner: e,
		resolve: func() (core.Context, error) {
			d, err := e.Resolve()
			if err != nil {
				return nil, err
			}
			return by.Scope(d)
		},
	}
}

func (e *Element) String() string {
	return fmt.Sprintf("element(%s)", e.locator)
}

func (e *Element) noContext() error {
	return core.ErrNoContext.WithMessagef("no context attached to element %s", e.locator)
}

// tolerateNotFound turns "not found" into a plain false answer.
func tolerateNotFound(err error) error {
	if core.IsProgrammingError(err) {
		return err
	}
	return nil
}

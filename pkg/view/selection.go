// Package view binds declared elements and sub-views to a context at runtime.
//
// A driver context hands out a Selection through Find. The Selection produces
// lazy handles that resolve themselves on first use, and the Chained and Nested
// adapters narrow the scope every locator is resolved in.
package view

import (
	"fmt"
	"reflect"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
)

// NewSelection returns the selection of a context that resolves locators itself.
// Driver contexts return it from Find.
func NewSelection(ctx core.Context) core.Selection {
	return &rootSelection{ctx: ctx}
}

type rootSelection struct {
	ctx core.Context
}

func (s *rootSelection) Locate(l core.Locator) (core.Element, error) {
	return l.Find(s.ctx)
}

func (s *rootSelection) LocateAll(l core.Locator) ([]core.Element, error) {
	return l.FindAll(s.ctx)
}

func (s *rootSelection) Element(l core.Locator) core.Element {
	return bound(l, s.ctx)
}

func (s *rootSelection) View(l core.Locator, v core.View) core.View {
	v.SetContext(Chained(s.ctx, l))
	return v
}

func (s *rootSelection) Context(l core.Locator) core.Context {
	return &locatedContext{locator: l, parent: s.ctx}
}

// scopedSelection rewrites every locator, then delegates to the wrapped selection.
type scopedSelection struct {
	inner   core.Selection
	rewrite func(core.Locator) core.Locator
}

func (s *scopedSelection) Locate(l core.Locator) (core.Element, error) {
	return s.inner.Locate(s.rewrite(l))
}

func (s *scopedSelection) LocateAll(l core.Locator) ([]core.Element, error) {
	return s.inner.LocateAll(s.rewrite(l))
}

func (s *scopedSelection) Element(l core.Locator) core.Element {
	return s.inner.Element(s.rewrite(l))
}

func (s *scopedSelection) View(l core.Locator, v core.View) core.View {
	return s.inner.View(s.rewrite(l), v)
}

func (s *scopedSelection) Context(l core.Locator) core.Context {
	return s.inner.Context(s.rewrite(l))
}

// deferredSelection belongs to a context that is only known once something is resolved,
// such as a lazy element used as a search scope.
type deferredSelection struct {
	owner   core.Context
	resolve func() (core.Context, error)
}

func (s *deferredSelection) Locate(l core.Locator) (core.Element, error) {
	ctx, err := s.resolve()
	if err != nil {
		return nil, err
	}
	return ctx.Find().Locate(l)
}

func (s *deferredSelection) LocateAll(l core.Locator) ([]core.Element, error) {
	ctx, err := s.resolve()
	if err != nil {
		return nil, err
	}
	return ctx.Find().LocateAll(l)
}

func (s *deferredSelection) Element(l core.Locator) core.Element {
	return bound(l, s.owner)
}

func (s *deferredSelection) View(l core.Locator, v core.View) core.View {
	v.SetContext(Chained(s.owner, l))
	return v
}

func (s *deferredSelection) Context(l core.Locator) core.Context {
	return &locatedContext{locator: l, parent: s.owner}
}

// locatedContext is a context backed by whatever object is located at a locator,
// e.g. a frame or a window. It is resolved again on every Find.
type locatedContext struct {
	locator core.Locator
	parent  core.Context
}

func (c *locatedContext) Find() core.Selection {
	return &deferredSelection{owner: c, resolve: c.resolve}
}

func (c *locatedContext) resolve() (core.Context, error) {
	e, err := c.parent.Find().Locate(c.locator)
	if err != nil {
		return nil, notFound("context", c.locator, err)
	}
	return by.Scope(e)
}

func (c *locatedContext) String() string {
	return fmt.Sprintf("context(%s)", c.locator)
}

func bound(l core.Locator, ctx core.Context) *Element {
	e := NewElement(l)
	e.SetContext(ctx)
	return e
}

// sameContext reports whether a and b are the same context instance.
func sameContext(a, b core.Context) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}

// notFound wraps a resolution failure with what was requested and where.
// Programming errors are returned unchanged so callers can still tell them apart.
func notFound(what string, l core.Locator, err error) error {
	if core.IsProgrammingError(err) {
		return err
	}
	return core.ErrElementNotFound.
		WithMessagef("%s not found: %s", what, l).
		WithDetails(map[string]interface{}{"locator": l.String(), "type": what}).
		WithCause(err)
}

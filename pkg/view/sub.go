package view

import (
	"fmt"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// Sub is a handle for a custom view used as a field of another view.
// Attaching a context re-scopes it: the wrapped view receives a Chained context
// (when built with a locator) or a Nested context (when built with an element),
// never the incoming context itself.
type Sub[V core.View] struct {
	locator core.Locator
	parent  core.Element
	view    V
	ctx     core.Context
}

// NewSub scopes v under the element located by l.
func NewSub[V core.View](l core.Locator, v V) *Sub[V] {
	return &Sub[V]{locator: l, view: v}
}

// NewSubAt scopes v under an already-resolved element.
func NewSubAt[V core.View](parent core.Element, v V) *Sub[V] {
	return &Sub[V]{parent: parent, view: v}
}

// View returns the wrapped view.
func (s *Sub[V]) View() V { return s.view }

// SetContext re-scopes the wrapped view under ctx. Attaching the same context again
// keeps the view's current scope and everything cached below it.
func (s *Sub[V]) SetContext(ctx core.Context) {
	if sameContext(s.ctx, ctx) {
		return
	}
	s.ctx = ctx
	if ctx == nil {
		s.view.SetContext(nil)
		return
	}
	if s.locator != nil {
		s.view.SetContext(Chained(ctx, s.locator))
	} else {
		s.view.SetContext(Nested(ctx, s.parent))
	}
}

// Context returns the context attached to the handle (not the derived one).
func (s *Sub[V]) Context() (core.Context, error) {
	if s.ctx == nil {
		return nil, core.ErrNoContext.WithMessagef("no context attached to %s", s)
	}
	return s.ctx, nil
}

// Invalidate forwards to the wrapped view.
func (s *Sub[V]) Invalidate() {
	if c, ok := core.View(s.view).(core.Caching); ok {
		c.Invalidate()
	}
}

// Anchor returns the scoping locator, nil for element-anchored sub-views.
func (s *Sub[V]) Anchor() core.Locator { return s.locator }

func (s *Sub[V]) IsLoaded() (bool, error) {
	if _, err := s.Context(); err != nil {
		return false, err
	}
	return s.view.IsLoaded()
}

func (s *Sub[V]) IsDisplayed() (bool, error) {
	if _, err := s.Context(); err != nil {
		return false, err
	}
	return s.view.IsDisplayed()
}

func (s *Sub[V]) IsPresent() (bool, error) {
	if _, err := s.Context(); err != nil {
		return false, err
	}
	return s.view.IsPresent()
}

func (s *Sub[V]) String() string {
	if s.locator != nil {
		return fmt.Sprintf("sub(%s)", s.locator)
	}
	return fmt.Sprintf("sub(%T)", s.view)
}

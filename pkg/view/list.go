package view

import (
	"fmt"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// List is a lazy handle for every element matching a locator.
// The first list operation resolves and caches the elements. A locator whose
// length depends on the current scope, such as by.Sequence, is probed again by
// every list operation instead.
type List struct {
	locator  core.Locator
	ctx      core.Context
	items    []core.Element
	resolved bool
}

// NewList returns an unbound list handle for l.
func NewList(l core.Locator) *List {
	return &List{locator: l}
}

// Locator returns the list's locator.
func (l *List) Locator() core.Locator { return l.locator }

// SetContext attaches ctx, dropping the cached elements if ctx is a different context.
func (l *List) SetContext(ctx core.Context) {
	if sameContext(l.ctx, ctx) {
		return
	}
	l.ctx = ctx
	l.Invalidate()
}

// Context returns the attached context.
func (l *List) Context() (core.Context, error) {
	if l.ctx == nil {
		return nil, core.ErrNoContext.WithMessagef("no context attached to list %s", l.locator)
	}
	return l.ctx, nil
}

// Invalidate drops the cached elements.
func (l *List) Invalidate() {
	l.items = nil
	l.resolved = false
}

// All returns the elements, resolving them if needed.
// A locator matching nothing yields an empty list.
func (l *List) All() ([]core.Element, error) {
	if l.resolved {
		return l.items, nil
	}
	ctx, err := l.Context()
	if err != nil {
		return nil, err
	}
	items, err := ctx.Find().LocateAll(l.locator)
	if err != nil {
		if core.IsProgrammingError(err) {
			return nil, err
		}
		if !core.IsNotFound(err) {
			return nil, notFound("elements", l.locator, err)
		}
		items = nil
	}
	l.items = items
	l.resolved = !recomputed(l.locator)
	return items, nil
}

// Len returns the number of elements.
func (l *List) Len() (int, error) {
	items, err := l.All()
	return len(items), err
}

// At returns the element at index i.
func (l *List) At(i int) (core.Element, error) {
	items, err := l.All()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(items) {
		return nil, core.ErrElementNotFound.WithMessagef("index %d out of range for %s (%d elements)", i, l.locator, len(items))
	}
	return items[i], nil
}

// Members returns the elements for condition evaluation.
func (l *List) Members() ([]core.Findable, error) {
	items, err := l.All()
	if err != nil {
		return nil, err
	}
	members := make([]core.Findable, len(items))
	for i, e := range items {
		members[i] = e
	}
	return members, nil
}

// MemberKind reports that every member is an element.
func (l *List) MemberKind() core.Kind { return core.KindElement }

func (l *List) String() string {
	return fmt.Sprintf("list(%s)", l.locator)
}

// Views is a lazy handle for a list of sub-views. Every element matching the locator
// anchors one view instance built by the factory, scoped with its own Nested context.
// A factory error fails the list operation that needed the instance.
type Views[V core.View] struct {
	locator  core.Locator
	factory  func() (V, error)
	ctx      core.Context
	items    []V
	resolved bool
}

// NewViews returns an unbound view-list handle.
func NewViews[V core.View](l core.Locator, factory func() (V, error)) *Views[V] {
	return &Views[V]{locator: l, factory: factory}
}

// Locator returns the list's locator.
func (l *Views[V]) Locator() core.Locator { return l.locator }

// SetContext attaches ctx, dropping the cached views if ctx is a different context.
func (l *Views[V]) SetContext(ctx core.Context) {
	if sameContext(l.ctx, ctx) {
		return
	}
	l.ctx = ctx
	l.Invalidate()
}

// Context returns the attached context.
func (l *Views[V]) Context() (core.Context, error) {
	if l.ctx == nil {
		return nil, core.ErrNoContext.WithMessagef("no context attached to views %s", l.locator)
	}
	return l.ctx, nil
}

// Invalidate drops the cached views.
func (l *Views[V]) Invalidate() {
	l.items = nil
	l.resolved = false
}

// All returns the views, resolving the anchoring elements if needed.
func (l *Views[V]) All() ([]V, error) {
	if l.resolved {
		return l.items, nil
	}
	ctx, err := l.Context()
	if err != nil {
		return nil, err
	}
	anchors, err := ctx.Find().LocateAll(l.locator)
	if err != nil {
		if core.IsProgrammingError(err) {
			return nil, err
		}
		if !core.IsNotFound(err) {
			return nil, notFound("views", l.locator, err)
		}
		anchors = nil
	}
	items := make([]V, 0, len(anchors))
	for _, anchor := range anchors {
		v, err := l.factory()
		if err != nil {
			return nil, err
		}
		v.SetContext(Nested(ctx, anchor))
		items = append(items, v)
	}
	l.items = items
	l.resolved = !recomputed(l.locator)
	return items, nil
}

// Len returns the number of views.
func (l *Views[V]) Len() (int, error) {
	items, err := l.All()
	return len(items), err
}

// At returns the view at index i.
func (l *Views[V]) At(i int) (V, error) {
	var zero V
	items, err := l.All()
	if err != nil {
		return zero, err
	}
	if i < 0 || i >= len(items) {
		return zero, core.ErrElementNotFound.WithMessagef("index %d out of range for %s (%d views)", i, l.locator, len(items))
	}
	return items[i], nil
}

// Members returns the views for condition evaluation.
func (l *Views[V]) Members() ([]core.Findable, error) {
	items, err := l.All()
	if err != nil {
		return nil, err
	}
	members := make([]core.Findable, len(items))
	for i, v := range items {
		members[i] = v
	}
	return members, nil
}

// MemberKind reports that every member is a view.
func (l *Views[V]) MemberKind() core.Kind { return core.KindView }

func (l *Views[V]) String() string {
	return fmt.Sprintf("views(%s)", l.locator)
}

// recomputed reports whether matches of l must not be cached.
func recomputed(l core.Locator) bool {
	_, ok := l.(interface{ Len(core.Context) int })
	return ok
}

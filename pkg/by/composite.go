package by

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// ViewLocator finds the element representing a view.
type ViewLocator struct{ View core.View }

// NestedLocator finds Child inside an already-resolved Parent element.
type NestedLocator struct {
	Parent core.Element
	Child  core.Locator
}

// ChainedLocator finds the last step inside matches of the previous steps.
// Steps are handed to the context in order; the context decides how to combine them.
type ChainedLocator struct{ Steps []core.Locator }

// IDOfLocator resolves Inner, then re-resolves by the id attribute of the result.
type IDOfLocator struct{ Inner core.Locator }

// View locates the element representing v.
func View(v core.View) ViewLocator { return ViewLocator{View: v} }

// Nested locates child inside parent.
func Nested(parent core.Element, child core.Locator) NestedLocator {
	return NestedLocator{Parent: parent, Child: child}
}

// Chained locates the last step scoped by the previous ones.
func Chained(steps ...core.Locator) ChainedLocator {
	return ChainedLocator{Steps: steps}
}

// IDOf locates by inner, then pins the result to its id.
func IDOf(inner core.Locator) IDOfLocator { return IDOfLocator{Inner: inner} }

func (l ViewLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByView](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByView(l.View)
}

func (l ViewLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByView](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByView(l.View)
}

func (l ViewLocator) String() string {
	if a, ok := l.View.(core.Anchored); ok && a.Anchor() != nil {
		return fmt.Sprintf("view(%s)", a.Anchor())
	}
	return fmt.Sprintf("view(%T)", l.View)
}

func (l NestedLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByNested](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByNested(l.Parent, l.Child)
}

func (l NestedLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByNested](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByNested(l.Parent, l.Child)
}

func (l NestedLocator) String() string {
	return fmt.Sprintf("nested(%s > %s)", describe(l.Parent), l.Child)
}

func (l ChainedLocator) Find(ctx core.Context) (core.Element, error) {
	f, ok := core.As[core.FindsByChained](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementByChained(l.Steps)
}

func (l ChainedLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	f, ok := core.As[core.FindsByChained](ctx)
	if !ok {
		return nil, core.NotSupported(l, ctx)
	}
	return f.FindElementsByChained(l.Steps)
}

func (l ChainedLocator) String() string {
	parts := make([]string, len(l.Steps))
	for i, s := range l.Steps {
		parts[i] = s.String()
	}
	return "chained(" + strings.Join(parts, " > ") + ")"
}

func (l IDOfLocator) Find(ctx core.Context) (core.Element, error) {
	e, err := l.Inner.Find(ctx)
	if err != nil {
		return nil, err
	}
	return pinToID(ctx, e)
}

func (l IDOfLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	found, err := l.Inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]core.Element, 0, len(found))
	for _, e := range found {
		pinned, err := pinToID(ctx, e)
		if err != nil {
			return nil, err
		}
		result = append(result, pinned)
	}
	return result, nil
}

func (l IDOfLocator) String() string { return fmt.Sprintf("idOf(%s)", l.Inner) }

// pinToID re-resolves e by its id attribute when e is present and has a non-blank id.
// Otherwise e itself is returned.
func pinToID(ctx core.Context, e core.Element) (core.Element, error) {
	present, err := e.IsPresent()
	if err != nil || !present {
		return e, nil
	}
	attr, ok := e.(core.Attributed)
	if !ok {
		return e, nil
	}
	id, err := attr.Attribute("id")
	if err != nil || strings.TrimSpace(id) == "" {
		return e, nil
	}
	byID, err := ID(id).Find(ctx)
	if err != nil {
		if core.IsProgrammingError(err) {
			return nil, err
		}
		return e, nil
	}
	return byID, nil
}

func describe(v interface{}) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}

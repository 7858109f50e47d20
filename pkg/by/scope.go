package by

import (
	"github.com/devicelab-dev/pageview/pkg/core"
)

// Helpers for driver contexts whose elements can act as search scopes.

// Scope returns the context searching inside parent.
// Deferred wrappers are resolved first.
func Scope(parent core.Element) (core.Context, error) {
	e, err := core.ResolveElement(parent)
	if err != nil {
		return nil, err
	}
	scope, ok := e.(core.Context)
	if !ok {
		return nil, core.ErrNotAContext.WithMessagef("element %s cannot be searched", describe(e))
	}
	return scope, nil
}

// FindNested resolves child inside parent.
func FindNested(parent core.Element, child core.Locator) (core.Element, error) {
	scope, err := Scope(parent)
	if err != nil {
		return nil, err
	}
	return child.Find(scope)
}

// FindAllNested resolves every match of child inside parent.
func FindAllNested(parent core.Element, child core.Locator) ([]core.Element, error) {
	scope, err := Scope(parent)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return child.FindAll(scope)
}

// FindChain resolves steps left to right: every step after the first is searched for
// inside each element matched by the step before it. Results keep document order per parent.
func FindChain(ctx core.Context, steps []core.Locator) ([]core.Element, error) {
	if len(steps) == 0 {
		return nil, core.ErrInvalidLocator.WithMessage("chained locator has no steps")
	}
	current, err := steps[0].FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, step := range steps[1:] {
		var next []core.Element
		for _, e := range current {
			found, err := FindAllNested(e, step)
			if err != nil {
				return nil, err
			}
			next = append(next, found...)
		}
		current = next
	}
	return current, nil
}

// FindChainFirst is FindChain returning the first match or ErrElementNotFound.
// A trailing sequence step stays optimistic: it is resolved with Find inside the
// first match of the steps before it, as it would be against a root context.
func FindChainFirst(ctx core.Context, steps []core.Locator) (core.Element, error) {
	if n := len(steps); n > 0 {
		if seq, ok := steps[n-1].(SequenceLocator); ok {
			return findSequenceIn(ctx, steps[:n-1], seq)
		}
	}
	found, err := FindChain(ctx, steps)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, core.ErrElementNotFound.WithMessagef("element not found: %s", Chained(steps...))
	}
	return found[0], nil
}

// First returns the first element or ErrElementNotFound naming l.
func First(found []core.Element, l core.Locator) (core.Element, error) {
	if len(found) == 0 {
		return nil, core.ErrElementNotFound.WithMessagef("element not found: %s", l).
			WithDetails(map[string]interface{}{"locator": l.String()})
	}
	return found[0], nil
}

func findSequenceIn(ctx core.Context, parents []core.Locator, seq SequenceLocator) (core.Element, error) {
	if len(parents) == 0 {
		return seq.Find(ctx)
	}
	parent, err := FindChainFirst(ctx, parents)
	if err != nil {
		return nil, err
	}
	scope, err := Scope(parent)
	if err != nil {
		return nil, err
	}
	return seq.Find(scope)
}

package by

import (
	"reflect"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// Equal reports whether a and b describe the same lookup.
//
// Atomic locators are plain values and also compare with ==. Composite ones
// (chained steps, nested children, idOf) are compared step by step, because ==
// on a ChainedLocator panics. Parent elements and views compare by identity,
// sequences by the Sequence call that created them.
func Equal(a, b core.Locator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case ChainedLocator:
		y, ok := b.(ChainedLocator)
		if !ok || len(x.Steps) != len(y.Steps) {
			return false
		}
		for i := range x.Steps {
			if !Equal(x.Steps[i], y.Steps[i]) {
				return false
			}
		}
		return true
	case NestedLocator:
		y, ok := b.(NestedLocator)
		return ok && same(x.Parent, y.Parent) && Equal(x.Child, y.Child)
	case IDOfLocator:
		y, ok := b.(IDOfLocator)
		return ok && Equal(x.Inner, y.Inner)
	case ViewLocator:
		y, ok := b.(ViewLocator)
		return ok && same(x.View, y.View)
	case SequenceLocator:
		y, ok := b.(SequenceLocator)
		return ok && x.id != nil && x.id == y.id && x.Start == y.Start
	}
	return same(a, b)
}

// same compares a and b with == when their dynamic type allows it.
func same(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}

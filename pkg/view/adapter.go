package view

import (
	"fmt"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
)

// ChainedContext scopes every locator under a parent locator.
// Everything except Find is forwarded to the wrapped context through Unwrap.
type ChainedContext struct {
	base   core.Context
	parent core.Locator
}

// Chained returns ctx with every locator L rewritten to by.Chained(parent, L).
// A nil parent leaves locators unchanged.
func Chained(ctx core.Context, parent core.Locator) *ChainedContext {
	return &ChainedContext{base: ctx, parent: parent}
}

func (c *ChainedContext) Find() core.Selection {
	inner := c.base.Find()
	if c.parent == nil {
		return inner
	}
	return &scopedSelection{
		inner: inner,
		rewrite: func(l core.Locator) core.Locator {
			return by.Chained(c.parent, l)
		},
	}
}

// Unwrap returns the wrapped context.
func (c *ChainedContext) Unwrap() core.Context { return c.base }

// Parent returns the scoping locator.
func (c *ChainedContext) Parent() core.Locator { return c.parent }

func (c *ChainedContext) String() string {
	return fmt.Sprintf("chained(%s)", c.parent)
}

// NestedContext scopes every locator under an already-resolved element.
type NestedContext struct {
	base   core.Context
	parent core.Element
}

// Nested returns ctx with every locator L rewritten to by.Nested(parent, L).
// A nil parent leaves locators unchanged.
func Nested(ctx core.Context, parent core.Element) *NestedContext {
	return &NestedContext{base: ctx, parent: parent}
}

func (c *NestedContext) Find() core.Selection {
	inner := c.base.Find()
	if c.parent == nil {
		return inner
	}
	return &scopedSelection{
		inner: inner,
		rewrite: func(l core.Locator) core.Locator {
			return by.Nested(c.parent, l)
		},
	}
}

// Unwrap returns the wrapped context.
func (c *NestedContext) Unwrap() core.Context { return c.base }

// Parent returns the anchoring element.
func (c *NestedContext) Parent() core.Element { return c.parent }

func (c *NestedContext) String() string {
	if s, ok := c.parent.(fmt.Stringer); ok {
		return fmt.Sprintf("nested(%s)", s)
	}
	return fmt.Sprintf("nested(%T)", c.parent)
}

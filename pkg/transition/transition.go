// Package transition describes "the destination view becomes loaded" as something an
// external poller can wait for.
//
//	await := transition.From(page).To(dashboard).InNewContext()
//	ok, err := await.Satisfied()
package transition

import (
	"fmt"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/condition"
	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/view"
)

// Source is the context a transition starts from.
type Source struct {
	ctx core.Context
}

// From starts a transition in ctx.
func From(ctx core.Context) Source {
	return Source{ctx: ctx}
}

// To returns an awaitable for dest, bound to the source context.
func (s Source) To(dest core.View) *Awaitable {
	return &Awaitable{dest: dest, ctx: s.ctx, scope: "current"}
}

// Awaitable is satisfied once its destination view is loaded in its context.
type Awaitable struct {
	dest  core.View
	ctx   core.Context
	scope string
}

// Destination returns the destination view.
func (a *Awaitable) Destination() core.View { return a.dest }

// Context returns the context the destination is checked in.
func (a *Awaitable) Context() core.Context { return a.ctx }

// InNewContext returns an awaitable bound to the context located at l in the current
// context, such as a frame or a new window. Without a locator the destination view
// itself is located. Without a source context the result has none either.
func (a *Awaitable) InNewContext(l ...core.Locator) *Awaitable {
	var target core.Locator = by.View(a.dest)
	if len(l) > 0 && l[0] != nil {
		target = l[0]
	}
	next := &Awaitable{dest: a.dest, scope: fmt.Sprintf("new context at %s", target)}
	if a.ctx != nil {
		next.ctx = a.ctx.Find().Context(target)
	}
	return next
}

// InNestedContext returns an awaitable bound to the current context scoped under l.
func (a *Awaitable) InNestedContext(l core.Locator) *Awaitable {
	next := &Awaitable{dest: a.dest, scope: fmt.Sprintf("nested context under %s", l)}
	if a.ctx != nil {
		next.ctx = view.Chained(a.ctx, l)
	}
	return next
}

// Satisfied attaches the awaitable's context to the destination and reports whether
// it is loaded. Pollers call it repeatedly; programming errors are returned and
// should stop the poll.
func (a *Awaitable) Satisfied() (bool, error) {
	if a.ctx == nil {
		return false, core.ErrNoContext.WithMessagef("transition to %T has no context", a.dest)
	}
	a.dest.SetContext(a.ctx)
	return a.dest.IsLoaded()
}

// Condition returns Satisfied as a condition function.
func (a *Awaitable) Condition() condition.Func {
	return a.Satisfied
}

func (a *Awaitable) String() string {
	return fmt.Sprintf("%s loaded in %s", describe(a.dest), a.scope)
}

func describe(v core.View) string {
	if an, ok := v.(core.Anchored); ok && an.Anchor() != nil {
		return fmt.Sprintf("view %s", an.Anchor())
	}
	return fmt.Sprintf("view %T", v)
}

package view

import (
	"fmt"

	"github.com/devicelab-dev/pageview/pkg/condition"
	"github.com/devicelab-dev/pageview/pkg/core"
)

// Base implements core.View for a view type that registers its fields with Init.
// Embed it in a struct holding the field handles:
//
//	type Login struct {
//		view.Base
//		User   *view.Element
//		Submit *view.Element
//	}
//
//	func NewLogin() (*Login, error) {
//		l := &Login{User: view.NewElement(by.ID("user")), Submit: view.NewElement(by.ID("go"))}
//		return l, l.Init(view.Require("user", l.User), view.Field(l.Submit))
//	}
type Base struct {
	handles  []core.ContextAware
	fields   []condition.Field
	custom   condition.Func
	anchor   core.Locator
	ctx      core.Context
	analyzer *condition.Analyzer
}

// Option registers something with a Base.
type Option func(*Base)

// Bound adjusts the cardinality of a required field.
type Bound func(*condition.Field)

// AtLeast sets the lower bound of a required list.
func AtLeast(n int) Bound {
	return func(f *condition.Field) { f.AtLeast = n }
}

// AtMost sets the upper bound of a required list.
func AtMost(n int) Bound {
	return func(f *condition.Field) { f.AtMost = n }
}

// Exactly sets both bounds of a required list.
func Exactly(n int) Bound {
	return func(f *condition.Field) { f.AtLeast, f.AtMost = n, n }
}

// Field registers a handle that receives the view's context but does not take part
// in any condition.
func Field(h core.ContextAware) Option {
	return func(b *Base) {
		b.handles = append(b.handles, h)
	}
}

// Require registers a required handle. Bounds only apply to list handles.
func Require(name string, h core.ContextAware, bounds ...Bound) Option {
	return func(b *Base) {
		b.handles = append(b.handles, h)
		f := condition.Require(name, h)
		for _, bound := range bounds {
			bound(&f)
		}
		b.fields = append(b.fields, f)
	}
}

// LoadCondition adds a custom check ANDed into IsLoaded.
func LoadCondition(fn condition.Func) Option {
	return func(b *Base) {
		b.custom = fn
	}
}

// Anchor declares the locator of the view's own root element.
func Anchor(l core.Locator) Option {
	return func(b *Base) {
		b.anchor = l
	}
}

// Init registers the view's fields. A view needs at least one required field
// or a custom load condition.
func (b *Base) Init(opts ...Option) error {
	for _, opt := range opts {
		opt(b)
	}
	if len(b.fields) == 0 && b.custom == nil {
		return core.ErrMissingLoadCondition.WithMessage("view has no required fields and no load condition")
	}
	analyzer, err := condition.New(b.fields)
	if err != nil {
		return err
	}
	b.analyzer = analyzer
	if b.ctx != nil {
		b.bind(b.ctx)
	}
	return nil
}

// SetContext attaches ctx to the view and every registered handle.
func (b *Base) SetContext(ctx core.Context) {
	if sameContext(b.ctx, ctx) {
		return
	}
	b.ctx = ctx
	b.bind(ctx)
}

func (b *Base) bind(ctx core.Context) {
	for _, h := range b.handles {
		h.SetContext(ctx)
	}
}

// Context returns the attached context.
func (b *Base) Context() (core.Context, error) {
	if b.ctx == nil {
		return nil, core.ErrNoContext.WithMessage("no context attached to view")
	}
	return b.ctx, nil
}

// Find searches the view's context.
func (b *Base) Find() core.Selection {
	return &deferredSelection{owner: b, resolve: b.Context}
}

// Anchor returns the declared root locator, nil if none was declared.
func (b *Base) Anchor() core.Locator { return b.anchor }

// Fields returns the required fields.
func (b *Base) Fields() []condition.Field { return b.fields }

// Invalidate drops everything cached by the registered handles.
func (b *Base) Invalidate() {
	for _, h := range b.handles {
		if c, ok := h.(core.Caching); ok {
			c.Invalidate()
		}
	}
}

// IsLoaded reports whether every required field is loaded and the custom
// condition, if any, holds.
func (b *Base) IsLoaded() (bool, error) {
	if err := b.ready(); err != nil {
		return false, err
	}
	set := b.analyzer.Conditions(condition.Loaded)
	if b.custom != nil {
		set = set.With(condition.Condition{Field: "load condition", Check: b.custom})
	}
	return set.Evaluate()
}

// IsDisplayed reports whether every required element or view is displayed.
func (b *Base) IsDisplayed() (bool, error) {
	if err := b.ready(); err != nil {
		return false, err
	}
	return b.analyzer.Displayed()
}

// IsPresent reports whether every required field is present.
func (b *Base) IsPresent() (bool, error) {
	if err := b.ready(); err != nil {
		return false, err
	}
	return b.analyzer.Present()
}

func (b *Base) ready() error {
	if b.analyzer == nil {
		return core.ErrMissingLoadCondition.WithMessage("view used before Init")
	}
	_, err := b.Context()
	return err
}

func (b *Base) String() string {
	if b.anchor != nil {
		return fmt.Sprintf("view(%s)", b.anchor)
	}
	return "view"
}

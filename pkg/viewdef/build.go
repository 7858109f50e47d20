package viewdef

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/jsengine"
	"github.com/devicelab-dev/pageview/pkg/view"
)

// View is a view built from a Definition.
type View struct {
	view.Base
	name    string
	entries []Entry
}

// Entry is one built field of a View. Handle is a *view.Element, *view.List,
// *view.Sub[*View] or *view.Views[*View] depending on Kind.
type Entry struct {
	Name     string
	Kind     Kind
	Required bool
	Handle   core.ContextAware
}

// Sub returns the nested view of a view field.
func (e Entry) Sub() (*View, bool) {
	s, ok := e.Handle.(*view.Sub[*View])
	if !ok {
		return nil, false
	}
	return s.View(), true
}

// Build creates a view from def. Load conditions written in JavaScript run in engine.
func Build(def *Definition, engine *jsengine.Engine) (*View, error) {
	v, err := build(def.Name, def.Anchor, def.Condition, def.Fields, engine)
	if err != nil {
		return nil, fmt.Errorf("view %q: %w", def.Name, err)
	}
	return v, nil
}

func build(name string, anchor Selector, script string, fields []Field, engine *jsengine.Engine) (*View, error) {
	v := &View{name: name}
	var opts []view.Option

	if !anchor.IsZero() {
		l, err := locator(anchor, engine)
		if err != nil {
			return nil, fmt.Errorf("anchor: %w", err)
		}
		opts = append(opts, view.Anchor(l))
	}

	if script != "" {
		check, err := engine.Condition(script, v.Context)
		if err != nil {
			return nil, err
		}
		opts = append(opts, view.LoadCondition(check))
	}

	for _, f := range fields {
		h, err := handle(f, engine)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		v.entries = append(v.entries, Entry{Name: f.Name, Kind: f.Kind, Required: f.Required, Handle: h})
		if f.Required {
			opts = append(opts, view.Require(f.Name, h, bounds(f)...))
		} else {
			opts = append(opts, view.Field(h))
		}
	}

	if err := v.Init(opts...); err != nil {
		return nil, err
	}
	return v, nil
}

func handle(f Field, engine *jsengine.Engine) (core.ContextAware, error) {
	var l core.Locator
	var err error
	if f.Sequence != nil {
		l, err = sequence(*f.Sequence, engine)
	} else {
		l, err = locator(f.Locator, engine)
	}
	if err != nil {
		return nil, err
	}

	switch f.Kind {
	case KindList:
		return view.NewList(l), nil
	case KindView:
		sub, err := build(f.Name, Selector{}, f.Condition, f.Fields, engine)
		if err != nil {
			return nil, err
		}
		return view.NewSub(l, sub), nil
	case KindViews:
		if _, err := build(f.Name, Selector{}, f.Condition, f.Fields, engine); err != nil {
			return nil, err
		}
		return view.NewViews(l, func() (*View, error) {
			return build(f.Name, Selector{}, f.Condition, f.Fields, engine)
		}), nil
	default:
		return view.NewElement(l), nil
	}
}

// locator expands ${...} in a string selector before parsing it.
func locator(s Selector, engine *jsengine.Engine) (core.Locator, error) {
	if strings.Contains(s.Raw, "${") {
		expanded, err := engine.ExpandVariables(s.Raw)
		if err != nil {
			return nil, err
		}
		s.Raw = expanded
	}
	return s.Locator()
}

func bounds(f Field) []view.Bound {
	var b []view.Bound
	if f.Exactly != nil {
		b = append(b, view.Exactly(*f.Exactly))
	}
	if f.AtLeast != nil {
		b = append(b, view.AtLeast(*f.AtLeast))
	}
	if f.AtMost != nil {
		b = append(b, view.AtMost(*f.AtMost))
	}
	return b
}

// sequence builds a by.Sequence whose locator at index i is the template with
// ${...} expanded while `i` is set.
func sequence(s Sequence, engine *jsengine.Engine) (core.Locator, error) {
	at := func(i int) (core.Locator, error) {
		engine.SetVariable("i", i)
		expanded, err := engine.ExpandVariables(s.Template)
		if err != nil {
			return nil, err
		}
		return by.Parse(expanded)
	}
	if _, err := at(s.Start); err != nil {
		return nil, fmt.Errorf("sequence template %q: %w", s.Template, err)
	}
	return by.Sequence(func(i int) core.Locator {
		l, err := at(i)
		if err != nil {
			return brokenLocator{template: s.Template, err: err}
		}
		return l
	}, s.Start), nil
}

// brokenLocator reports a template that expanded to an invalid locator.
type brokenLocator struct {
	template string
	err      error
}

func (l brokenLocator) Find(core.Context) (core.Element, error) { return nil, l.err }
func (l brokenLocator) FindAll(core.Context) ([]core.Element, error) { return nil, l.err }
func (l brokenLocator) String() string { return fmt.Sprintf("invalid(%s)", l.template) }

// Name returns the definition name.
func (v *View) Name() string { return v.name }

// Entries returns the built fields in declaration order.
func (v *View) Entries() []Entry { return v.entries }

// Entry returns the field called name.
func (v *View) Entry(name string) (Entry, bool) {
	for _, e := range v.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func (v *View) String() string {
	if a := v.Anchor(); a != nil {
		return fmt.Sprintf("%s(%s)", v.name, a)
	}
	return v.name
}

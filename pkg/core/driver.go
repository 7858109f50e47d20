// Package core defines the contracts shared by locators, contexts, views and drivers.
// Implementations: pkg/by (locators), pkg/view (selection, adapters, lazy handles),
// pkg/driver/* (driver contexts).
package core

// Findable can be tested for presence.
type Findable interface {
	IsPresent() (bool, error)
}

// Element is a located thing that can be asked whether it is displayed.
type Element interface {
	Findable
	IsDisplayed() (bool, error)
}

// Attributed is implemented by elements exposing attributes (id, href, ...).
// A missing attribute is reported as "".
type Attributed interface {
	Attribute(name string) (string, error)
}

// Texter is implemented by elements exposing their text content.
type Texter interface {
	Text() (string, error)
}

// Resolver is implemented by deferred element wrappers.
// Drivers use ResolveElement to get back to their own element type.
type Resolver interface {
	Resolve() (Element, error)
}

// ResolveElement peels deferred wrappers until it reaches an element that is not a Resolver.
func ResolveElement(e Element) (Element, error) {
	for {
		r, ok := e.(Resolver)
		if !ok {
			return e, nil
		}
		next, err := r.Resolve()
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, ErrElementNotFound
		}
		if next == e {
			return e, nil
		}
		e = next
	}
}

// Context is a capability-bearing resolver. Its only required method is Find;
// which locator kinds it can satisfy is decided by the finder interfaces it implements.
type Context interface {
	Find() Selection
}

// Wrapper is implemented by contexts decorating another context.
// As follows Unwrap chains, so a decorated context keeps every capability of the one it wraps.
type Wrapper interface {
	Unwrap() Context
}

// As returns the first context in ctx's Unwrap chain implementing T.
func As[T any](ctx Context) (T, bool) {
	for ctx != nil {
		if t, ok := ctx.(T); ok {
			return t, true
		}
		w, ok := ctx.(Wrapper)
		if !ok {
			break
		}
		ctx = w.Unwrap()
	}
	var zero T
	return zero, false
}

// Locator is an immutable description of how to find something.
type Locator interface {
	// Find resolves a single element against ctx's capabilities.
	Find(ctx Context) (Element, error)
	// FindAll resolves every matching element against ctx's capabilities.
	FindAll(ctx Context) ([]Element, error)
	// String describes the locator, e.g. id="submit".
	String() string
}

// Selection is the fluent front-end returned by Context.Find.
// Handles returned by Element and View are optimistic: they are not checked for presence.
type Selection interface {
	// Locate resolves l now.
	Locate(l Locator) (Element, error)
	// LocateAll resolves every match of l now.
	LocateAll(l Locator) ([]Element, error)
	// Element returns a lazy handle for l, bound to the selection's context.
	Element(l Locator) Element
	// View scopes v under l and returns v.
	View(l Locator, v View) View
	// Context returns a context backed by the object located at l.
	Context(l Locator) Context
}

// ContextAware is implemented by anything a context can be attached to.
type ContextAware interface {
	SetContext(ctx Context)
	// Context returns the attached context, or ErrNoContext.
	Context() (Context, error)
}

// Caching is implemented by handles whose resolved values can be invalidated from outside.
type Caching interface {
	Invalidate()
}

// View is a composite of elements and sub-views with a load condition.
type View interface {
	ContextAware
	Element
	IsLoaded() (bool, error)
}

// Anchored is implemented by views that know the locator of their own root.
// Drivers use it to resolve by.View.
type Anchored interface {
	Anchor() Locator
}

// Collection is implemented by list handles used as required fields.
type Collection interface {
	// Members resolves the list.
	Members() ([]Findable, error)
	// MemberKind is the capability every member offers, known before resolution.
	MemberKind() Kind
}

// Finder capabilities. A driver context implements whichever it supports.
type (
	FindsByID interface {
		FindElementByID(id string) (Element, error)
		FindElementsByID(id string) ([]Element, error)
	}
	FindsByName interface {
		FindElementByName(name string) (Element, error)
		FindElementsByName(name string) ([]Element, error)
	}
	FindsByXPath interface {
		FindElementByXPath(path string) (Element, error)
		FindElementsByXPath(path string) ([]Element, error)
	}
	FindsByCSS interface {
		FindElementByCSS(selector string) (Element, error)
		FindElementsByCSS(selector string) ([]Element, error)
	}
	FindsByText interface {
		FindElementByText(text string, exact bool) (Element, error)
		FindElementsByText(text string, exact bool) ([]Element, error)
	}
	FindsByLinkText interface {
		FindElementByLinkText(text string) (Element, error)
		FindElementsByLinkText(text string) ([]Element, error)
	}
	FindsByAttribute interface {
		FindElementByAttribute(name, value string) (Element, error)
		FindElementsByAttribute(name, value string) ([]Element, error)
	}
	FindsByView interface {
		FindElementByView(v View) (Element, error)
		FindElementsByView(v View) ([]Element, error)
	}
	FindsByNested interface {
		FindElementByNested(parent Element, child Locator) (Element, error)
		FindElementsByNested(parent Element, child Locator) ([]Element, error)
	}
	FindsByChained interface {
		FindElementByChained(steps []Locator) (Element, error)
		FindElementsByChained(steps []Locator) ([]Element, error)
	}
)

// Package condition computes whether a view is loaded, displayed or present
// from its required fields and their cardinality bounds.
package condition

import (
	"fmt"
	"math"

	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/logger"
)

// Unbounded is the default upper bound of a required field.
const Unbounded = math.MaxInt

// Field describes one required field of a view.
type Field struct {
	Name    string      // used in logs and reports
	Value   interface{} // core.Findable, or core.Collection when List is set
	List    bool
	AtLeast int
	AtMost  int
}

// Require describes a single required field with the default bounds (1, Unbounded).
func Require(name string, value interface{}) Field {
	_, list := value.(core.Collection)
	return Field{Name: name, Value: value, List: list, AtLeast: 1, AtMost: Unbounded}
}

// Exactly sets both bounds to n.
func (f Field) Exactly(n int) Field {
	f.AtLeast, f.AtMost = n, n
	return f
}

// Kind selects which of the three conditions is computed.
type Kind int

const (
	Loaded Kind = iota
	Displayed
	Present
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Displayed:
		return "displayed"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

// Func is a condition check.
type Func func() (bool, error)

// Condition is one named check of a Set.
type Condition struct {
	Field string
	Check Func
}

// Set is the conjunction of conditions computed for one Kind.
type Set struct {
	Kind       Kind
	Conditions []Condition
}

// With returns a copy of s with c appended.
func (s Set) With(c Condition) Set {
	conditions := make([]Condition, 0, len(s.Conditions)+1)
	conditions = append(conditions, s.Conditions...)
	return Set{Kind: s.Kind, Conditions: append(conditions, c)}
}

// Evaluate ANDs the conditions, stopping at the first one not satisfied.
// An empty set is an error, not a vacuous success. Errors raised by a condition are
// logged and count as "not yet satisfied", except programming errors which propagate.
func (s Set) Evaluate() (bool, error) {
	if len(s.Conditions) == 0 {
		return false, core.ErrNoQualifyingFields.WithMessagef("no qualifying required elements for %s condition", s.Kind)
	}
	for _, c := range s.Conditions {
		ok, err := c.Check()
		if err != nil {
			if core.IsProgrammingError(err) {
				return false, err
			}
			logger.Debug("%s condition on %s not satisfied: %v", s.Kind, c.Field, err)
			return false, nil
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Analyzer maps required fields onto loaded/displayed/present condition sets.
type Analyzer struct {
	fields []Field
}

// New validates fields and returns an analyzer over them.
func New(fields []Field) (*Analyzer, error) {
	for i, f := range fields {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if f.List {
			if _, ok := f.Value.(core.Collection); !ok {
				return nil, core.ErrInvalidDefinition.WithMessagef("required list %s (%T) is not a collection", name, f.Value)
			}
			if f.AtLeast < 0 || f.AtMost < f.AtLeast {
				return nil, core.ErrInvalidDefinition.WithMessagef("required list %s has invalid bounds [%d, %d]", name, f.AtLeast, f.AtMost)
			}
			continue
		}
		if _, ok := core.KindOf(f.Value); !ok {
			return nil, core.ErrInvalidDefinition.WithMessagef("required field %s (%T) cannot be located", name, f.Value)
		}
	}
	return &Analyzer{fields: fields}, nil
}

// Fields returns the analyzed fields.
func (a *Analyzer) Fields() []Field {
	return a.fields
}

// Conditions builds the condition set of kind k.
func (a *Analyzer) Conditions(k Kind) Set {
	set := Set{Kind: k}
	for _, f := range a.fields {
		var check Func
		if f.List {
			check = listCheck(k, f)
		} else {
			check = valueCheck(k, f.Value)
		}
		if check != nil {
			set.Conditions = append(set.Conditions, Condition{Field: f.Name, Check: check})
		}
	}
	return set
}

// Loaded evaluates the loaded condition set.
func (a *Analyzer) Loaded() (bool, error) { return a.Conditions(Loaded).Evaluate() }

// Displayed evaluates the displayed condition set.
func (a *Analyzer) Displayed() (bool, error) { return a.Conditions(Displayed).Evaluate() }

// Present evaluates the present condition set.
func (a *Analyzer) Present() (bool, error) { return a.Conditions(Present).Evaluate() }

// qualifies reports whether a value of kind vk takes part in condition k.
func qualifies(k Kind, vk core.Kind) bool {
	if k == Displayed {
		return vk == core.KindView || vk == core.KindElement
	}
	return true
}

// predicate picks the check for v, preferring View > Element > Findable.
func predicate(k Kind, v interface{}) Func {
	switch k {
	case Loaded:
		switch t := v.(type) {
		case core.View:
			return t.IsLoaded
		case core.Element:
			return t.IsDisplayed
		case core.Findable:
			return t.IsPresent
		}
	case Displayed:
		if e, ok := v.(core.Element); ok {
			return e.IsDisplayed
		}
	case Present:
		if f, ok := v.(core.Findable); ok {
			return f.IsPresent
		}
	}
	return nil
}

func valueCheck(k Kind, v interface{}) Func {
	vk, ok := core.KindOf(v)
	if !ok || !qualifies(k, vk) {
		return nil
	}
	return predicate(k, v)
}

func listCheck(k Kind, f Field) Func {
	list := f.Value.(core.Collection)
	if !qualifies(k, list.MemberKind()) {
		return nil
	}
	return func() (bool, error) {
		// Refresh so a re-evaluation after a UI change is not stale.
		if c, ok := list.(core.Caching); ok {
			c.Invalidate()
		}
		members, err := list.Members()
		if err != nil {
			return false, err
		}
		matches := 0
		for i, m := range members {
			check := predicate(k, m)
			if check == nil {
				continue
			}
			ok, err := check()
			if err != nil {
				if core.IsProgrammingError(err) {
					return false, err
				}
				logger.Debug("%s check on %s[%d] failed: %v", k, f.Name, i, err)
				continue
			}
			if ok {
				matches++
			}
		}
		return matches >= f.AtLeast && matches <= f.AtMost, nil
	}
}

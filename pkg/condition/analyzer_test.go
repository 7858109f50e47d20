package condition

import (
	"errors"
	"testing"

	"github.com/devicelab-dev/pageview/pkg/core"
)

type element struct {
	present, displayed bool
	err                error
	displayedCalls     int
}

func (e *element) IsPresent() (bool, error) { return e.present, e.err }
func (e *element) IsDisplayed() (bool, error) {
	e.displayedCalls++
	return e.displayed, e.err
}

type view struct {
	element
	loaded      bool
	loadedCalls int
}

func (v *view) SetContext(core.Context) {}
func (v *view) Context() (core.Context, error) { return nil, nil }
func (v *view) IsLoaded() (bool, error) {
	v.loadedCalls++
	return v.loaded, nil
}

type findable struct{ present bool }

func (f findable) IsPresent() (bool, error) { return f.present, nil }

type list struct {
	members     []core.Findable
	kind        core.Kind
	invalidated int
}

func (l *list) Members() ([]core.Findable, error) { return l.members, nil }
func (l *list) MemberKind() core.Kind { return l.kind }
func (l *list) Invalidate() { l.invalidated++ }

func displayedList(n, hidden int) *list {
	l := &list{kind: core.KindElement}
	for i := 0; i < n; i++ {
		l.members = append(l.members, &element{present: true, displayed: true})
	}
	for i := 0; i < hidden; i++ {
		l.members = append(l.members, &element{present: true})
	}
	return l
}

func TestAnalyzer_CapabilityPreference(t *testing.T) {
	v := &view{element: element{present: true, displayed: true}, loaded: true}
	a, err := New([]Field{Require("header", v)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ok, err := a.Loaded()
	if err != nil || !ok {
		t.Fatalf("Loaded() = (%v, %v), want (true, nil)", ok, err)
	}
	if v.loadedCalls != 1 {
		t.Errorf("IsLoaded calls = %d, want 1", v.loadedCalls)
	}
	if v.displayedCalls != 0 {
		t.Errorf("IsDisplayed calls = %d, want 0 for a view field", v.displayedCalls)
	}
}

func TestAnalyzer_ElementAndFindable(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		loaded    bool
		displayed bool
		dispErr   bool
		present   bool
	}{
		{"displayed element", &element{present: true, displayed: true}, true, true, false, true},
		{"hidden element", &element{present: true}, false, false, false, true},
		{"missing element", &element{}, false, false, false, false},
		{"present findable", findable{present: true}, true, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New([]Field{Require("f", tt.value)})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if ok, err := a.Loaded(); err != nil || ok != tt.loaded {
				t.Errorf("Loaded() = (%v, %v), want %v", ok, err, tt.loaded)
			}
			ok, err := a.Displayed()
			if tt.dispErr {
				if !errors.Is(err, core.ErrNoQualifyingFields) {
					t.Errorf("Displayed() error = %v, want ErrNoQualifyingFields", err)
				}
			} else if err != nil || ok != tt.displayed {
				t.Errorf("Displayed() = (%v, %v), want %v", ok, err, tt.displayed)
			}
			if ok, err := a.Present(); err != nil || ok != tt.present {
				t.Errorf("Present() = (%v, %v), want %v", ok, err, tt.present)
			}
		})
	}
}

func TestAnalyzer_ListBounds(t *testing.T) {
	tests := []struct {
		displayed int
		want      bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, true},
		{5, false},
	}

	for _, tt := range tests {
		l := displayedList(tt.displayed, 2)
		f := Require("rows", l)
		f.AtLeast, f.AtMost = 2, 4
		a, err := New([]Field{f})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		ok, err := a.Displayed()
		if err != nil {
			t.Fatalf("Displayed() error = %v", err)
		}
		if ok != tt.want {
			t.Errorf("Displayed() with %d displayed rows = %v, want %v", tt.displayed, ok, tt.want)
		}
	}
}

func TestAnalyzer_ListRefreshedEachEvaluation(t *testing.T) {
	l := displayedList(3, 0)
	f := Require("rows", l)
	f.AtLeast, f.AtMost = 2, 4
	a, err := New([]Field{f})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if ok, _ := a.Displayed(); !ok {
		t.Fatal("Displayed() = false with 3 rows, want true")
	}
	l.members = l.members[:1]
	if ok, _ := a.Displayed(); ok {
		t.Error("Displayed() = true after shrinking to 1 row, want false")
	}
	if l.invalidated != 2 {
		t.Errorf("Invalidate calls = %d, want 2", l.invalidated)
	}
}

func TestAnalyzer_Exactly(t *testing.T) {
	a, err := New([]Field{Require("rows", displayedList(3, 0)).Exactly(3)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ok, err := a.Loaded(); err != nil || !ok {
		t.Errorf("Loaded() = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestAnalyzer_TransientErrorsAreFalse(t *testing.T) {
	a, err := New([]Field{Require("flaky", &element{err: errors.New("stale element")})})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ok, err := a.Loaded()
	if err != nil {
		t.Errorf("Loaded() error = %v, want nil", err)
	}
	if ok {
		t.Error("Loaded() = true, want false")
	}
}

func TestAnalyzer_ProgrammingErrorsPropagate(t *testing.T) {
	a, err := New([]Field{Require("unbound", &element{err: core.ErrNoContext})})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := a.Loaded(); !errors.Is(err, core.ErrNoContext) {
		t.Errorf("Loaded() error = %v, want ErrNoContext", err)
	}
}

func TestAnalyzer_ShortCircuits(t *testing.T) {
	second := &element{present: true, displayed: true}
	a, err := New([]Field{
		Require("first", &element{}),
		Require("second", second),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ok, _ := a.Displayed(); ok {
		t.Error("Displayed() = true, want false")
	}
	if second.displayedCalls != 0 {
		t.Errorf("second field evaluated %d times after first failed", second.displayedCalls)
	}
}

func TestAnalyzer_InvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		field Field
	}{
		{"not locatable", Field{Name: "x", Value: "text"}},
		{"list without collection", Field{Name: "x", Value: &element{}, List: true, AtMost: 1}},
		{"inverted bounds", Field{Name: "x", Value: &list{}, List: true, AtLeast: 3, AtMost: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New([]Field{tt.field}); !errors.Is(err, core.ErrInvalidDefinition) {
				t.Errorf("New() error = %v, want ErrInvalidDefinition", err)
			}
		})
	}
}

func TestSet_EmptyIsError(t *testing.T) {
	_, err := Set{Kind: Displayed}.Evaluate()
	if !errors.Is(err, core.ErrNoQualifyingFields) {
		t.Errorf("Evaluate() error = %v, want ErrNoQualifyingFields", err)
	}
}

func TestSet_With(t *testing.T) {
	base := Set{Kind: Loaded}
	extended := base.With(Condition{Field: "custom", Check: func() (bool, error) { return true, nil }})

	if len(base.Conditions) != 0 {
		t.Error("With() modified the original set")
	}
	if ok, err := extended.Evaluate(); err != nil || !ok {
		t.Errorf("Evaluate() = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Loaded, "loaded"},
		{Displayed, "displayed"},
		{Present, "present"},
		{Kind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

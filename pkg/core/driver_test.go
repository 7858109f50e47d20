package core

import (
	"errors"
	"testing"
)

type fakeElement struct{ present, displayed bool }

func (e *fakeElement) IsPresent() (bool, error) { return e.present, nil }
func (e *fakeElement) IsDisplayed() (bool, error) { return e.displayed, nil }

type fakeView struct{ fakeElement }

func (v *fakeView) SetContext(Context) {}
func (v *fakeView) Context() (Context, error) { return nil, ErrNoContext }
func (v *fakeView) IsLoaded() (bool, error) { return true, nil }

type presence struct{}

func (presence) IsPresent() (bool, error) { return true, nil }

type deferred struct {
	target Element
	err    error
}

func (d *deferred) IsPresent() (bool, error) { return false, nil }
func (d *deferred) IsDisplayed() (bool, error) { return false, nil }
func (d *deferred) Resolve() (Element, error) { return d.target, d.err }

type idContext struct{}

func (idContext) Find() Selection { return nil }
func (idContext) FindElementByID(string) (Element, error) { return &fakeElement{present: true}, nil }
func (idContext) FindElementsByID(string) ([]Element, error) { return nil, nil }

type wrapping struct{ inner Context }

func (w wrapping) Find() Selection { return nil }
func (w wrapping) Unwrap() Context { return w.inner }

func TestAs_FollowsUnwrapChain(t *testing.T) {
	base := idContext{}
	ctx := wrapping{inner: wrapping{inner: base}}

	got, ok := As[FindsByID](ctx)
	if !ok {
		t.Fatal("As[FindsByID]() ok = false, want true")
	}
	if got != base {
		t.Errorf("As[FindsByID]() = %v, want base context", got)
	}

	if _, ok := As[FindsByXPath](ctx); ok {
		t.Error("As[FindsByXPath]() ok = true, want false")
	}
	if _, ok := As[FindsByID](nil); ok {
		t.Error("As[FindsByID](nil) ok = true, want false")
	}
}

func TestResolveElement(t *testing.T) {
	target := &fakeElement{present: true}

	got, err := ResolveElement(&deferred{target: &deferred{target: target}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != target {
		t.Errorf("ResolveElement() = %v, want target", got)
	}

	cause := errors.New("gone")
	if _, err := ResolveElement(&deferred{err: cause}); !errors.Is(err, cause) {
		t.Errorf("ResolveElement() error = %v, want %v", err, cause)
	}

	if _, err := ResolveElement(&deferred{}); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("ResolveElement(nil target) error = %v, want ErrElementNotFound", err)
	}
}

func TestKindOf_PrefersView(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		kind  Kind
		ok    bool
	}{
		{"view", &fakeView{}, KindView, true},
		{"element", &fakeElement{}, KindElement, true},
		{"findable", presence{}, KindFindable, true},
		{"other", "text", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindOf(tt.value)
			if ok != tt.ok || kind != tt.kind {
				t.Errorf("KindOf() = (%s, %v), want (%s, %v)", kind, ok, tt.kind, tt.ok)
			}
		})
	}
}

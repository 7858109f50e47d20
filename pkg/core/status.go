package core

// Kind is the strongest capability a located value offers.
// The analyzer prefers them in the order View > Element > Findable.
type Kind int

const (
	KindFindable Kind = iota // Can only be tested for presence
	KindElement              // Can also be tested for being displayed
	KindView                 // Has its own load condition
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindFindable:
		return "findable"
	case KindElement:
		return "element"
	case KindView:
		return "view"
	default:
		return "unknown"
	}
}

// KindOf returns the preferred capability of v, and false if v is not even Findable.
func KindOf(v interface{}) (Kind, bool) {
	switch v.(type) {
	case View:
		return KindView, true
	case Element:
		return KindElement, true
	case Findable:
		return KindFindable, true
	default:
		return 0, false
	}
}

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryConfig                          // Programming error: no context, unsupported locator, missing condition
	ErrCategoryNotFound                        // Locator matched nothing
	ErrCategoryEvaluation                      // Condition evaluation failed transiently
	ErrCategoryDriver                          // Driver-side failure
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryConfig:
		return "config"
	case ErrCategoryNotFound:
		return "not_found"
	case ErrCategoryEvaluation:
		return "evaluation"
	case ErrCategoryDriver:
		return "driver"
	default:
		return "unknown"
	}
}

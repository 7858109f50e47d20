package report

import (
	"errors"
	"sync"
	"time"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/logger"
	"github.com/devicelab-dev/pageview/pkg/view"
	"github.com/devicelab-dev/pageview/pkg/viewdef"
)

// Builder accumulates the results of one run.
type Builder struct {
	mu     sync.Mutex
	report Report
}

// NewBuilder starts a report for the given driver and page source.
func NewBuilder(driver, source string) *Builder {
	return &Builder{report: Report{
		Version:   Version,
		Driver:    driver,
		Source:    source,
		StartTime: time.Now(),
	}}
}

// AddView appends a view result.
func (b *Builder) AddView(r ViewResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report.Views = append(b.report.Views, r)
}

// AddLocate appends a locator result.
func (b *Builder) AddLocate(r LocateResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report.Locators = append(b.report.Locators, r)
}

// Finish stamps the end time, computes the summary and returns the report.
func (b *Builder) Finish() *Report {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.report.EndTime = time.Now()
	b.report.Summary = computeSummary(&b.report)
	r := b.report
	return &r
}

func computeSummary(r *Report) Summary {
	var s Summary
	count := func(status Status) {
		s.Total++
		switch status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusError:
			s.Errors++
		}
	}
	for _, v := range r.Views {
		count(v.Status)
	}
	for _, l := range r.Locators {
		count(l.Status)
	}
	return s
}

// CheckView evaluates a view that is already bound to a context.
func CheckView(v *viewdef.View, sourceFile string) ViewResult {
	start := time.Now()
	r := ViewResult{Name: v.Name(), SourceFile: sourceFile}

	fail := func(err error) ViewResult {
		r.Status = StatusError
		r.Error = newError(err)
		r.Duration = time.Since(start).Milliseconds()
		return r
	}

	loaded, err := v.IsLoaded()
	if err != nil {
		return fail(err)
	}
	r.Loaded = loaded

	present, err := v.IsPresent()
	if err != nil {
		return fail(err)
	}
	r.Present = present

	displayed, err := v.IsDisplayed()
	switch {
	case errors.Is(err, core.ErrNoQualifyingFields):
	case err != nil:
		return fail(err)
	default:
		r.Displayed = &displayed
	}

	r.Fields = checkFields(v.Entries())
	r.Status = StatusFailed
	if loaded {
		r.Status = StatusPassed
	}
	r.Duration = time.Since(start).Milliseconds()
	return r
}

func checkFields(entries []viewdef.Entry) []FieldResult {
	results := make([]FieldResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, checkField(e))
	}
	return results
}

func checkField(e viewdef.Entry) FieldResult {
	fr := FieldResult{Name: e.Name, Kind: string(e.Kind), Required: e.Required, Locator: locatorOf(e.Handle)}

	var err error
	switch h := e.Handle.(type) {
	case *view.Element:
		if fr.Present, err = h.IsPresent(); err == nil {
			fr.Displayed, err = h.IsDisplayed()
		}
	case *view.List:
		var members []core.Element
		if members, err = h.All(); err == nil {
			fr.Count = intPtr(len(members))
			fr.Present = len(members) > 0
			fr.Displayed, err = allDisplayed(len(members), func(i int) (bool, error) { return members[i].IsDisplayed() })
		}
	case *view.Sub[*viewdef.View]:
		if fr.Present, err = h.IsPresent(); err == nil {
			fr.Displayed, err = h.IsDisplayed()
			if errors.Is(err, core.ErrNoQualifyingFields) {
				err = nil
			}
		}
		fr.Fields = checkFields(h.View().Entries())
	case *view.Views[*viewdef.View]:
		var members []*viewdef.View
		if members, err = h.All(); err == nil {
			fr.Count = intPtr(len(members))
			fr.Present = len(members) > 0
			fr.Displayed, err = allDisplayed(len(members), func(i int) (bool, error) { return members[i].IsDisplayed() })
		}
	}
	if err != nil {
		logger.Debug("field %s: %v", e.Name, err)
		fr.Error = newError(err)
	}
	return fr
}

// allDisplayed reports whether n > 0 and every member is displayed.
// Members without a displayed condition count as not displayed.
func allDisplayed(n int, displayed func(i int) (bool, error)) (bool, error) {
	if n == 0 {
		return false, nil
	}
	for i := 0; i < n; i++ {
		ok, err := displayed(i)
		if errors.Is(err, core.ErrNoQualifyingFields) {
			return false, nil
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func locatorOf(h core.ContextAware) string {
	switch t := h.(type) {
	case interface{ Locator() core.Locator }:
		return t.Locator().String()
	case core.Anchored:
		if a := t.Anchor(); a != nil {
			return a.String()
		}
	}
	return ""
}

// Locate resolves the string form of a locator against ctx.
func Locate(ctx core.Context, raw string) LocateResult {
	r := LocateResult{Locator: raw, Status: StatusFailed}

	l, err := by.Parse(raw)
	if err != nil {
		r.Status = StatusError
		r.Error = newError(err)
		return r
	}
	r.Locator = l.String()

	found, err := ctx.Find().LocateAll(l)
	if err != nil {
		if core.IsNotFound(err) {
			return r
		}
		r.Status = StatusError
		r.Error = newError(err)
		return r
	}

	r.Count = len(found)
	if r.Count == 0 {
		return r
	}
	r.Status = StatusPassed
	r.Present = true

	first := found[0]
	if r.Displayed, err = first.IsDisplayed(); err != nil {
		r.Error = newError(err)
	}
	if t, ok := first.(core.Texter); ok {
		if text, err := t.Text(); err == nil {
			r.Text = text
		}
	}
	return r
}

func newError(err error) *Error {
	e := &Error{Type: core.CategoryOf(err).String(), Message: err.Error()}
	if e.Type == core.ErrCategoryNone.String() {
		e.Type = "unknown"
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		e.Code = ce.Code
	}
	return e
}

func intPtr(n int) *int { return &n }

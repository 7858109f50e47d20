package by

import (
	"fmt"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// MaxSequenceLength bounds probing of a sequence whose every index stays present.
var MaxSequenceLength = 10000

// SequenceLocator finds an ordered run of elements, one locator per index.
// The run ends at the first index whose locator is not present.
//
// A sequence holds a function, so it cannot be compared with ==. Equal reports
// a sequence equal only to copies of the value Sequence returned.
type SequenceLocator struct {
	At    func(index int) core.Locator
	Start int

	id *int
}

// Sequence locates at(start), at(start+1), ... until one is missing.
func Sequence(at func(index int) core.Locator, start int) SequenceLocator {
	return SequenceLocator{At: at, Start: start, id: new(int)}
}

// Find returns the element at Start. Like Element, it never checks presence.
func (l SequenceLocator) Find(ctx core.Context) (core.Element, error) {
	return l.Element(ctx, l.Start), nil
}

// FindAll probes the sequence once and returns the present prefix.
func (l SequenceLocator) FindAll(ctx core.Context) ([]core.Element, error) {
	var result []core.Element
	for i := l.Start; i < l.Start+MaxSequenceLength; i++ {
		e, ok := l.probe(ctx, i)
		if !ok {
			break
		}
		result = append(result, e)
	}
	return result, nil
}

// Len recomputes the length of the sequence; the scope may have changed since the last call.
func (l SequenceLocator) Len(ctx core.Context) int {
	n := 0
	for i := l.Start; i < l.Start+MaxSequenceLength; i++ {
		if _, ok := l.probe(ctx, i); !ok {
			break
		}
		n++
	}
	return n
}

// Element returns an optimistic reference to the element at index.
func (l SequenceLocator) Element(ctx core.Context, index int) core.Element {
	return ctx.Find().Element(l.At(index))
}

func (l SequenceLocator) String() string {
	return fmt.Sprintf("sequence(start=%d: %s, ...)", l.Start, l.At(l.Start))
}

// probe treats any resolution error as "not present".
func (l SequenceLocator) probe(ctx core.Context, index int) (core.Element, bool) {
	e, err := l.At(index).Find(ctx)
	if err != nil || e == nil {
		return nil, false
	}
	present, err := e.IsPresent()
	if err != nil || !present {
		return nil, false
	}
	return e, true
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	passMark  = "✓"
	failMark  = "✗"
	errorMark = "!"
)

var (
	passColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
	errorColor = color.New(color.FgYellow)
	grayColor  = color.New(color.Faint)
	valueColor = color.New(color.FgCyan)
)

// Printer renders a report for the terminal.
type Printer struct {
	w       io.Writer
	verbose bool // print fields of passing views too
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, verbose bool) *Printer {
	return &Printer{w: w, verbose: verbose}
}

// DisableColor turns ANSI colors off for every printer.
func DisableColor() {
	color.NoColor = true
}

// Print writes the whole report.
func (p *Printer) Print(r *Report) {
	for _, v := range r.Views {
		p.PrintView(v)
	}
	for _, l := range r.Locators {
		p.PrintLocate(l)
	}
	p.PrintSummary(r.Summary)
}

// PrintView writes one view result and, when it did not pass or in verbose mode, its fields.
func (p *Printer) PrintView(v ViewResult) {
	mark, c := marker(v.Status)
	state := "loaded"
	switch v.Status {
	case StatusFailed:
		state = "not loaded"
	case StatusError:
		state = "error"
	}
	c.Fprintf(p.w, "%s %s", mark, v.Name)
	grayColor.Fprintf(p.w, "  %s  present=%v displayed=%s  (%dms)", state, v.Present, optBool(v.Displayed), v.Duration)
	if v.SourceFile != "" {
		grayColor.Fprintf(p.w, "  %s", v.SourceFile)
	}
	fmt.Fprintln(p.w)

	if v.Error != nil {
		errorColor.Fprintf(p.w, "    %s: %s\n", v.Error.Type, v.Error.Message)
	}
	if p.verbose || v.Status != StatusPassed {
		p.printFields(v.Fields, 1)
	}
}

func (p *Printer) printFields(fields []FieldResult, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, f := range fields {
		mark, c := fieldMarker(f)
		c.Fprintf(p.w, "%s%s %s", indent, mark, f.Name)
		grayColor.Fprintf(p.w, "  %s", f.Kind)
		if f.Required {
			grayColor.Fprint(p.w, " required")
		}
		if f.Locator != "" {
			valueColor.Fprintf(p.w, "  %s", f.Locator)
		}
		if f.Count != nil {
			grayColor.Fprintf(p.w, "  count=%d", *f.Count)
		}
		grayColor.Fprintf(p.w, "  present=%v displayed=%v", f.Present, f.Displayed)
		fmt.Fprintln(p.w)
		if f.Error != nil {
			errorColor.Fprintf(p.w, "%s    %s: %s\n", indent, f.Error.Type, f.Error.Message)
		}
		p.printFields(f.Fields, depth+1)
	}
}

// PrintLocate writes one locator result.
func (p *Printer) PrintLocate(l LocateResult) {
	mark, c := marker(l.Status)
	c.Fprintf(p.w, "%s ", mark)
	valueColor.Fprint(p.w, l.Locator)
	grayColor.Fprintf(p.w, "  count=%d displayed=%v", l.Count, l.Displayed)
	if l.Text != "" {
		fmt.Fprintf(p.w, "  %q", l.Text)
	}
	fmt.Fprintln(p.w)
	if l.Error != nil {
		errorColor.Fprintf(p.w, "    %s: %s\n", l.Error.Type, l.Error.Message)
	}
}

// PrintSummary writes the totals line.
func (p *Printer) PrintSummary(s Summary) {
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "%d checks: ", s.Total)
	passColor.Fprintf(p.w, "%d passed", s.Passed)
	fmt.Fprint(p.w, ", ")
	failColor.Fprintf(p.w, "%d failed", s.Failed)
	fmt.Fprint(p.w, ", ")
	errorColor.Fprintf(p.w, "%d errors", s.Errors)
	fmt.Fprintln(p.w)
}

func marker(s Status) (string, *color.Color) {
	switch s {
	case StatusPassed:
		return passMark, passColor
	case StatusFailed:
		return failMark, failColor
	}
	return errorMark, errorColor
}

func fieldMarker(f FieldResult) (string, *color.Color) {
	switch {
	case f.Error != nil:
		return errorMark, errorColor
	case f.Present:
		return passMark, passColor
	case f.Required:
		return failMark, failColor
	}
	return "-", grayColor
}

func optBool(b *bool) string {
	if b == nil {
		return "n/a"
	}
	return fmt.Sprint(*b)
}

// Package report records what `pageview check` and `pageview locate` observed:
// the three conditions of each view, the state of each declared field, and the
// result of each ad-hoc locator. A Report is written as JSON and printed to the terminal.
package report

import "time"

// Version is the report schema version.
const Version = "1.0.0"

// Status represents the outcome of one check.
type Status string

// Status values.
const (
	StatusPassed Status = "passed" // view loaded / locator present
	StatusFailed Status = "failed" // view not loaded / locator absent
	StatusError  Status = "error"  // evaluation raised a programming or driver error
)

// Report is the whole output of one run.
type Report struct {
	Version   string         `json:"version"`
	Driver    string         `json:"driver"`
	Source    string         `json:"source"` // fixture, page or URL
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Summary   Summary        `json:"summary"`
	Views     []ViewResult   `json:"views,omitempty"`
	Locators  []LocateResult `json:"locators,omitempty"`
}

// Summary contains aggregated counts over views and locators.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Errors int `json:"errors"`
}

// ViewResult is the evaluation of one view definition.
type ViewResult struct {
	Name       string        `json:"name"`
	SourceFile string        `json:"sourceFile,omitempty"`
	Status     Status        `json:"status"`
	Loaded     bool          `json:"loaded"`
	Displayed  *bool         `json:"displayed,omitempty"` // nil when no field qualifies
	Present    bool          `json:"present"`
	Duration   int64         `json:"duration"` // milliseconds
	Error      *Error        `json:"error,omitempty"`
	Fields     []FieldResult `json:"fields,omitempty"`
}

// FieldResult is the state of one declared field.
type FieldResult struct {
	Name      string        `json:"name"`
	Kind      string        `json:"kind"`
	Locator   string        `json:"locator"`
	Required  bool          `json:"required"`
	Present   bool          `json:"present"`
	Displayed bool          `json:"displayed"`
	Count     *int          `json:"count,omitempty"` // list and views fields
	Error     *Error        `json:"error,omitempty"`
	Fields    []FieldResult `json:"fields,omitempty"` // view fields
}

// LocateResult is the resolution of one ad-hoc locator.
type LocateResult struct {
	Locator   string `json:"locator"`
	Status    Status `json:"status"`
	Count     int    `json:"count"`
	Present   bool   `json:"present"`
	Displayed bool   `json:"displayed"`
	Text      string `json:"text,omitempty"` // text of the first match
	Error     *Error `json:"error,omitempty"`
}

// Error contains error details.
type Error struct {
	Type    string `json:"type"` // config, not_found, evaluation, driver, unknown
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

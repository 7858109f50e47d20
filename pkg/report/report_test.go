package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/devicelab-dev/pageview/pkg/driver/mock"
	"github.com/devicelab-dev/pageview/pkg/jsengine"
	"github.com/devicelab-dev/pageview/pkg/viewdef"
)

const page = `
children:
  - id: login
    children:
      - {id: user, tag: input, attrs: {name: username}}
      - {id: pass, tag: input}
      - {id: hint, tag: span, text: Forgot password?, displayed: false}
  - id: header
    children:
      - {tag: h1, text: Sign in}
`

const login = `
name: login
fields:
  - {name: user, locator: id=user, required: true}
  - {name: pass, locator: id=pass, required: true}
  - {name: remember, locator: id=remember}
  - name: header
    kind: view
    locator: id=header
    fields:
      - {name: title, locator: "css=h1", required: true}
  - {name: inputs, kind: list, locator: "css=input", atLeast: 2}
`

func setup(t *testing.T, def string) (*viewdef.View, *mock.Driver) {
	t.Helper()
	d, err := mock.Parse([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := viewdef.Parse([]byte(def), "login.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	v, err := viewdef.Build(parsed, jsengine.New())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	v.SetContext(d)
	return v, d
}

func field(t *testing.T, fields []FieldResult, name string) FieldResult {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not in result", name)
	return FieldResult{}
}

func TestCheckView_Passed(t *testing.T) {
	v, _ := setup(t, login)
	r := CheckView(v, "views/login.yaml")

	if r.Status != StatusPassed || !r.Loaded || !r.Present {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.Displayed == nil || !*r.Displayed {
		t.Errorf("expected displayed true, got %v", r.Displayed)
	}
	if r.SourceFile != "views/login.yaml" || r.Name != "login" {
		t.Errorf("unexpected identity %q %q", r.Name, r.SourceFile)
	}
	if len(r.Fields) != 5 {
		t.Fatalf("expected 5 fields, got %d", len(r.Fields))
	}

	remember := field(t, r.Fields, "remember")
	if remember.Present || remember.Required || remember.Error != nil {
		t.Errorf("remember = %+v, want absent optional field without error", remember)
	}

	header := field(t, r.Fields, "header")
	if !header.Present || header.Locator != `id="header"` {
		t.Errorf("header = %+v", header)
	}
	if len(header.Fields) != 1 || !header.Fields[0].Present {
		t.Errorf("header fields = %+v", header.Fields)
	}

	inputs := field(t, r.Fields, "inputs")
	if inputs.Count == nil || *inputs.Count != 2 {
		t.Errorf("inputs count = %v, want 2", inputs.Count)
	}
}

func TestCheckView_Failed(t *testing.T) {
	v, d := setup(t, login)
	if err := d.Remove("pass"); err != nil {
		t.Fatal(err)
	}

	r := CheckView(v, "")
	if r.Status != StatusFailed || r.Loaded {
		t.Fatalf("expected failed, got %+v", r)
	}
	if !r.Present {
		t.Error("view should still be present with user")
	}
	if f := field(t, r.Fields, "pass"); f.Present {
		t.Errorf("pass should be absent: %+v", f)
	}
}

func TestCheckView_ProgrammingError(t *testing.T) {
	v, _ := setup(t, `
name: broken
fields:
  - {name: user, locator: "xpath=//input", required: true}
`)
	r := CheckView(v, "")
	if r.Status != StatusError || r.Error == nil {
		t.Fatalf("expected error status, got %+v", r)
	}
	if r.Error.Type != "config" || r.Error.Code != "locator_not_supported" {
		t.Errorf("unexpected error %+v", r.Error)
	}
}

func TestLocate(t *testing.T) {
	d, err := mock.Parse([]byte(page))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		raw       string
		status    Status
		count     int
		displayed bool
		text      string
		errType   string
	}{
		{"id=user", StatusPassed, 1, true, "", ""},
		{"css=input", StatusPassed, 2, true, "", ""},
		{"text=Sign in", StatusPassed, 1, true, "Sign in", ""},
		{"id=hint", StatusPassed, 1, false, "Forgot password?", ""},
		{"id=missing", StatusFailed, 0, false, "", ""},
		{"xpath=//input", StatusError, 0, false, "", "config"},
		{"id=", StatusError, 0, false, "", "config"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := Locate(d, tt.raw)
			if r.Status != tt.status || r.Count != tt.count || r.Displayed != tt.displayed {
				t.Errorf("Locate(%q) = %+v", tt.raw, r)
			}
			if r.Text != tt.text {
				t.Errorf("Text = %q, want %q", r.Text, tt.text)
			}
			switch {
			case tt.errType == "" && r.Error != nil:
				t.Errorf("unexpected error %+v", r.Error)
			case tt.errType != "" && (r.Error == nil || r.Error.Type != tt.errType):
				t.Errorf("Error = %+v, want type %s", r.Error, tt.errType)
			}
		})
	}
}

func TestBuilder_Summary(t *testing.T) {
	b := NewBuilder("mock", "page.yaml")
	b.AddView(ViewResult{Name: "a", Status: StatusPassed})
	b.AddView(ViewResult{Name: "b", Status: StatusFailed})
	b.AddLocate(LocateResult{Locator: "id=x", Status: StatusError})
	b.AddLocate(LocateResult{Locator: "id=y", Status: StatusPassed})

	r := b.Finish()
	want := Summary{Total: 4, Passed: 2, Failed: 1, Errors: 1}
	if r.Summary != want {
		t.Errorf("Summary = %+v, want %+v", r.Summary, want)
	}
	if r.Version != Version || r.Driver != "mock" || r.Source != "page.yaml" {
		t.Errorf("unexpected header %+v", r)
	}
	if r.EndTime.Before(r.StartTime) {
		t.Error("end time before start time")
	}
}

func TestWriteJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := NewBuilder("html", "login.html")
	b.AddView(ViewResult{Name: "login", Status: StatusPassed, Loaded: true, Present: true})
	b.AddLocate(LocateResult{Locator: `id="user"`, Status: StatusPassed, Count: 1})
	r := b.Finish()

	if err := WriteJSON(fs, "out/reports/run.json", r); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	got, err := ReadJSON(fs, "out/reports/run.json")
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Summary != r.Summary || len(got.Views) != 1 || got.Views[0].Name != "login" {
		t.Errorf("round trip lost data: %+v", got)
	}

	entries, err := afero.ReadDir(fs, "out/reports")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the report in dir, got %d entries", len(entries))
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "bad.json", []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadJSON(fs, "bad.json"); err == nil || !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("ReadJSON() error = %v, want path in message", err)
	}
	if _, err := ReadJSON(fs, "missing.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPrinter(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	displayed := true
	count := 2
	r := &Report{
		Summary: Summary{Total: 3, Passed: 1, Failed: 1, Errors: 1},
		Views: []ViewResult{
			{Name: "login", Status: StatusPassed, Loaded: true, Present: true, Displayed: &displayed,
				Fields: []FieldResult{{Name: "user", Kind: "element", Present: true}}},
			{Name: "checkout", Status: StatusFailed, Present: true,
				Fields: []FieldResult{
					{Name: "pay", Kind: "element", Locator: `id="pay"`, Required: true},
					{Name: "items", Kind: "list", Count: &count, Present: true},
				}},
		},
		Locators: []LocateResult{
			{Locator: `xpath="//a"`, Status: StatusError, Error: &Error{Type: "config", Message: "locator not supported"}},
		},
	}

	var buf bytes.Buffer
	NewPrinter(&buf, false).Print(r)
	out := buf.String()

	for _, want := range []string{
		"✓ login  loaded  present=true displayed=true",
		"✗ checkout  not loaded  present=true displayed=n/a",
		`✗ pay  element required  id="pay"`,
		"✓ items  list  count=2",
		`! xpath="//a"`,
		"config: locator not supported",
		"3 checks: 1 passed, 1 failed, 1 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "✓ user") {
		t.Error("fields of a passing view should be hidden without verbose")
	}

	buf.Reset()
	NewPrinter(&buf, true).Print(r)
	if !strings.Contains(buf.String(), "✓ user") {
		t.Error("verbose output should list fields of passing views")
	}
}

package htmldoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/view"
)

const page = `<!DOCTYPE html>
<html><head><title>Accounts</title></head><body>
<form id="login">
  <input id="user" name="username">
  <input id="pass" name="password" type="password">
  <input id="token" name="token" type="hidden" value="abc">
  <p id="hint" style="color: red; display: none !important">Caps lock is on</p>
</form>
<div id="menu" hidden><a href="/admin">Admin</a></div>
<table id="results">
  <tr class="row"><td class="name">Alice</td><td class="role">admin</td></tr>
  <tr class="row"><td class="name">Bob</td><td class="role">dev</td></tr>
  <tr class="row"><td class="name">Carol</td><td class="role">dev</td></tr>
</table>
<nav><a id="next" href="/next">Next
  page</a><span style="visibility:hidden">ghost</span></nav>
</body></html>`

func newDoc(t *testing.T) *Document {
	t.Helper()
	d, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return d
}

func TestFinders(t *testing.T) {
	d := newDoc(t)

	tests := []struct {
		locator core.Locator
		want    int
	}{
		{by.ID("user"), 1},
		{by.Name("password"), 1},
		{by.CSS("tr.row"), 3},
		{by.CSS("#results td.name"), 3},
		{by.XPath("//td[@class='name']"), 3},
		{by.Text("Bob"), 1},
		{by.PartialText("Caps"), 1},
		{by.LinkText("Next page"), 1},
		{by.Attribute("type", "hidden"), 1},
		{by.Attribute("hidden", ""), 1},
		{by.CSS("li"), 0},
		{by.ID("missing"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.locator.String(), func(t *testing.T) {
			found, err := d.Find().LocateAll(tt.locator)
			if err != nil {
				t.Fatalf("LocateAll() error = %v", err)
			}
			if len(found) != tt.want {
				t.Errorf("LocateAll() found %d, want %d", len(found), tt.want)
			}
		})
	}
}

func TestFindByText_Deepest(t *testing.T) {
	d := newDoc(t)

	e, err := d.Find().Locate(by.Text("Bob"))
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if got := e.(*Element).Node().Data; got != "td" {
		t.Errorf("matched <%s>, want <td>", got)
	}
}

func TestNotFound(t *testing.T) {
	d := newDoc(t)

	_, err := d.Find().Locate(by.ID("missing"))
	if !core.IsNotFound(err) {
		t.Errorf("Locate() error = %v, want not found", err)
	}
}

func TestInvalidLocators(t *testing.T) {
	d := newDoc(t)

	for _, l := range []core.Locator{by.CSS("tr["), by.XPath("//tr[")} {
		if _, err := d.Find().LocateAll(l); !errors.Is(err, core.ErrInvalidLocator) {
			t.Errorf("LocateAll(%s) error = %v, want ErrInvalidLocator", l, err)
		}
	}
}

func TestIsDisplayed(t *testing.T) {
	d := newDoc(t)

	tests := []struct {
		locator core.Locator
		want    bool
	}{
		{by.ID("user"), true},
		{by.ID("next"), true},
		{by.ID("hint"), false},
		{by.ID("token"), false},
		{by.LinkText("Admin"), false},
		{by.Text("ghost"), false},
		{by.CSS("title"), false},
	}

	for _, tt := range tests {
		t.Run(tt.locator.String(), func(t *testing.T) {
			e := d.Find().Element(tt.locator)
			present, err := e.IsPresent()
			if err != nil || !present {
				t.Fatalf("IsPresent() = %v, %v, want true, nil", present, err)
			}
			got, err := e.IsDisplayed()
			if err != nil {
				t.Fatalf("IsDisplayed() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsDisplayed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextAndAttribute(t *testing.T) {
	d := newDoc(t)

	hint := view.NewElement(by.ID("hint"))
	hint.SetContext(d)
	if got, err := hint.Text(); err != nil || got != "Caps lock is on" {
		t.Errorf("Text() = %q, %v", got, err)
	}

	token := view.NewElement(by.Name("token"))
	token.SetContext(d)
	if got, err := token.Attribute("value"); err != nil || got != "abc" {
		t.Errorf("Attribute(value) = %q, %v", got, err)
	}
	if got, err := token.Attribute("placeholder"); err != nil || got != "" {
		t.Errorf("Attribute(placeholder) = %q, %v, want empty", got, err)
	}
}

func TestElementAsContext(t *testing.T) {
	d := newDoc(t)

	results, err := d.Find().Locate(by.ID("results"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := results.(core.Context)

	names, err := ctx.Find().LocateAll(by.CSS(".name"))
	if err != nil || len(names) != 3 {
		t.Errorf("LocateAll(.name) = %d, %v, want 3", len(names), err)
	}
	if _, err := ctx.Find().Locate(by.ID("user")); !core.IsNotFound(err) {
		t.Errorf("Locate(user) inside results error = %v, want not found", err)
	}

	rows, _ := ctx.Find().LocateAll(by.CSS("tr"))
	roles, err := rows[1].(core.Context).Find().LocateAll(by.XPath(".//td[@class='role']"))
	if err != nil || len(roles) != 1 {
		t.Fatalf("relative XPath found %d, %v, want 1", len(roles), err)
	}
	if text, _ := roles[0].(core.Texter).Text(); text != "dev" {
		t.Errorf("role = %q, want dev", text)
	}
}

func TestSameNodeSameElement(t *testing.T) {
	d := newDoc(t)

	a, _ := d.Find().Locate(by.ID("user"))
	b, _ := d.Find().Locate(by.Name("username"))
	if a != b {
		t.Error("two lookups of one node should return the same element")
	}
}

type row struct {
	view.Base
	Name *view.Element
}

func TestViewsOverRows(t *testing.T) {
	d := newDoc(t)

	rows := view.NewViews(by.CSS("tr.row"), func() (*row, error) {
		r := &row{Name: view.NewElement(by.CSS(".name"))}
		return r, r.Init(view.Require("name", r.Name))
	})
	rows.SetContext(d)

	all, err := rows.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	var names []string
	for _, r := range all {
		name, err := r.Name.Text()
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
	}
	if got := strings.Join(names, ","); got != "Alice,Bob,Carol" {
		t.Errorf("names = %s", got)
	}
}

func TestReload(t *testing.T) {
	d := newDoc(t)

	user := view.NewElement(by.ID("user"))
	user.SetContext(d)
	old, err := user.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Reload(strings.NewReader(`<p id="user">moved</p>`)); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if ok, err := old.IsPresent(); err != nil || ok {
		t.Errorf("stale IsPresent() = %v, %v, want false, nil", ok, err)
	}
	if _, err := old.(core.Texter).Text(); !core.IsNotFound(err) {
		t.Errorf("stale Text() error = %v, want not found", err)
	}

	user.Invalidate()
	if text, err := user.Text(); err != nil || text != "moved" {
		t.Errorf("Text() after reload = %q, %v, want moved", text, err)
	}
	if src, err := d.HTML(); err != nil || !strings.Contains(src, `<p id="user">moved</p>`) {
		t.Errorf("HTML() = %q, %v", src, err)
	}
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "pages/login.html", []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadFile(fs, "pages/login.html")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if d.String() != "html(pages/login.html)" {
		t.Errorf("String() = %q", d.String())
	}
	if ok, _ := d.Find().Element(by.ID("user")).IsPresent(); !ok {
		t.Error("user should be present")
	}

	if _, err := LoadFile(fs, "pages/missing.html"); err == nil {
		t.Error("LoadFile() on a missing file should fail")
	}
}

func TestHiddenByStyle(t *testing.T) {
	tests := []struct {
		style string
		want  bool
	}{
		{"", false},
		{"display:none", true},
		{"DISPLAY: None ;", true},
		{"display: none !important", true},
		{"visibility: hidden", true},
		{"visibility: collapse", true},
		{"display: block; color: red", false},
		{"visibility: visible", false},
		{"broken", false},
	}
	for _, tt := range tests {
		if got := hiddenByStyle(tt.style); got != tt.want {
			t.Errorf("hiddenByStyle(%q) = %v, want %v", tt.style, got, tt.want)
		}
	}
}

package playwright

import (
	"errors"
	"testing"

	"github.com/devicelab-dev/pageview/pkg/core"
)

func TestSelectors(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"id", idSelector("user"), `[id="user"]`},
		{"id with quote", idSelector(`a"b`), `[id="a\"b"]`},
		{"name", nameSelector("password"), `[name="password"]`},
		{"xpath", xpathSelector("//tr[2]"), "xpath=//tr[2]"},
		{"css", cssSelector("tr.row > td"), "css=tr.row > td"},
		{"exact text", textSelector("Sign in", true), `text="Sign in"`},
		{"partial text", textSelector("Sign", false), "text=Sign"},
		{"link", linkSelector("Next page"), `a:text-is("Next page")`},
		{"backslash", idSelector(`a\b`), `[id="a\\b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestAttributeSelector(t *testing.T) {
	tests := []struct {
		name, value string
		want        string
		valid       bool
	}{
		{"role", "tab", `[role="tab"]`, true},
		{"data-test-id", "x", `[data-test-id="x"]`, true},
		{"aria-label", `say "hi"`, `[aria-label="say \"hi\""]`, true},
		{"", "x", "", false},
		{"-bad", "x", "", false},
		{"a b", "x", "", false},
		{"a]", "x", "", false},
	}
	for _, tt := range tests {
		got, err := attributeSelector(tt.name, tt.value)
		if !tt.valid {
			if !errors.Is(err, core.ErrInvalidLocator) {
				t.Errorf("attributeSelector(%q) error = %v, want ErrInvalidLocator", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("attributeSelector(%q, %q) = %s, %v, want %s", tt.name, tt.value, got, err, tt.want)
		}
	}
}

func TestSelectBrowser_Unknown(t *testing.T) {
	if _, err := selectBrowser(nil, "opera"); err == nil {
		t.Error("selectBrowser(opera) should fail")
	}
	if got := browserName(""); got != "chromium" {
		t.Errorf("browserName(\"\") = %q, want chromium", got)
	}
}

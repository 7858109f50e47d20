package viewdef

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/core"
)

// Selector is the YAML form of a locator. It is either a string understood by by.Parse
// ("id=user", "//div", "Sign in") or a mapping with exactly one kind:
//
//	locator: {css: "tr.row"}
//	locator: {attribute: {name: role, value: tab}}
//	locator: {chained: [id=results, css=tr]}
//	locator: {idOf: "text=Next"}
type Selector struct {
	Raw       string     `yaml:"-"`
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	XPath     string     `yaml:"xpath"`
	CSS       string     `yaml:"css"`
	Text      string     `yaml:"text"`
	Partial   string     `yaml:"partial"`
	Link      string     `yaml:"link"`
	Attribute *Attribute `yaml:"attribute"`
	Chained   []Selector `yaml:"chained"`
	IDOf      *Selector  `yaml:"idOf"`

	line int
}

// Attribute is the YAML form of by.Attribute.
type Attribute struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// selectorRaw is used for YAML parsing without recursing into UnmarshalYAML.
type selectorRaw struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	XPath     string     `yaml:"xpath"`
	CSS       string     `yaml:"css"`
	Text      string     `yaml:"text"`
	Partial   string     `yaml:"partial"`
	Link      string     `yaml:"link"`
	Attribute *Attribute `yaml:"attribute"`
	Chained   []Selector `yaml:"chained"`
	IDOf      *Selector  `yaml:"idOf"`
}

// UnmarshalYAML allows Selector to be unmarshaled from string or struct.
func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	s.line = node.Line
	if node.Kind == yaml.ScalarNode {
		s.Raw = node.Value
		return nil
	}

	var raw selectorRaw
	if err := node.Decode(&raw); err != nil {
		return err
	}

	s.ID = raw.ID
	s.Name = raw.Name
	s.XPath = raw.XPath
	s.CSS = raw.CSS
	s.Text = raw.Text
	s.Partial = raw.Partial
	s.Link = raw.Link
	s.Attribute = raw.Attribute
	s.Chained = raw.Chained
	s.IDOf = raw.IDOf
	return nil
}

// IsZero reports whether no locator was given.
func (s Selector) IsZero() bool {
	return s.Raw == "" && s.ID == "" && s.Name == "" && s.XPath == "" && s.CSS == "" &&
		s.Text == "" && s.Partial == "" && s.Link == "" && s.Attribute == nil &&
		len(s.Chained) == 0 && s.IDOf == nil
}

// Locator converts the selector into a locator.
func (s Selector) Locator() (core.Locator, error) {
	if s.Raw != "" {
		return by.Parse(s.Raw)
	}

	var found []core.Locator
	add := func(set bool, l func() core.Locator) {
		if set {
			found = append(found, l())
		}
	}
	add(s.ID != "", func() core.Locator { return by.ID(s.ID) })
	add(s.Name != "", func() core.Locator { return by.Name(s.Name) })
	add(s.XPath != "", func() core.Locator { return by.XPath(s.XPath) })
	add(s.CSS != "", func() core.Locator { return by.CSS(s.CSS) })
	add(s.Text != "", func() core.Locator { return by.Text(s.Text) })
	add(s.Partial != "", func() core.Locator { return by.PartialText(s.Partial) })
	add(s.Link != "", func() core.Locator { return by.LinkText(s.Link) })
	add(s.Attribute != nil, func() core.Locator { return by.Attribute(s.Attribute.Name, s.Attribute.Value) })

	if len(s.Chained) > 0 {
		steps := make([]core.Locator, 0, len(s.Chained))
		for _, step := range s.Chained {
			l, err := step.Locator()
			if err != nil {
				return nil, err
			}
			steps = append(steps, l)
		}
		found = append(found, by.Chained(steps...))
	}
	if s.IDOf != nil {
		inner, err := s.IDOf.Locator()
		if err != nil {
			return nil, err
		}
		found = append(found, by.IDOf(inner))
	}

	switch len(found) {
	case 0:
		return nil, core.ErrInvalidLocator.WithMessage("empty locator")
	case 1:
		if s.Attribute != nil && s.Attribute.Name == "" {
			return nil, core.ErrInvalidLocator.WithMessage("attribute locator needs a name")
		}
		return found[0], nil
	}
	return nil, core.ErrInvalidLocator.WithMessagef("locator sets %d kinds, want one: %s", len(found), describeAll(found))
}

func describeAll(locators []core.Locator) string {
	parts := make([]string, len(locators))
	for i, l := range locators {
		parts[i] = l.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Package viewdef reads view definitions from YAML and builds views from them.
//
//	name: login
//	anchor: id=login
//	condition: '!page.displayed("id=spinner")'
//	fields:
//	  - {name: user, locator: id=user, required: true}
//	  - {name: rows, kind: list, locator: "css=tr", required: true, atLeast: 2}
//	  - name: header
//	    kind: view
//	    locator: id=header
//	    fields:
//	      - {name: title, locator: "css=h1", required: true}
package viewdef

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Kind is the type of handle a field declares.
type Kind string

const (
	KindElement Kind = "element"
	KindList    Kind = "list"
	KindView    Kind = "view"
	KindViews   Kind = "views"
)

// Definition describes one view.
type Definition struct {
	Name      string   `yaml:"name"`
	Anchor    Selector `yaml:"anchor"`
	Condition string   `yaml:"condition"` // JavaScript, see pkg/jsengine
	Fields    []Field  `yaml:"fields"`

	SourcePath string `yaml:"-"`
}

// Field describes one declared handle of a view.
type Field struct {
	Name      string    `yaml:"name"`
	Kind      Kind      `yaml:"kind"` // default element
	Locator   Selector  `yaml:"locator"`
	Sequence  *Sequence `yaml:"sequence"` // list of indexed locators instead of Locator
	Required  bool      `yaml:"required"`
	AtLeast   *int      `yaml:"atLeast"`
	AtMost    *int      `yaml:"atMost"`
	Exactly   *int      `yaml:"exactly"`
	Condition string    `yaml:"condition"` // view and views fields
	Fields    []Field   `yaml:"fields"`    // view and views fields

	line int
}

// Sequence is the YAML form of by.Sequence. Template is a locator string where
// ${...} expressions see the index as `i`.
type Sequence struct {
	Template string `yaml:"template"`
	Start    int    `yaml:"start"`
}

// UnmarshalYAML records the field's line for error messages.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	type plain Field
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = Field(p)
	f.line = node.Line
	if f.Kind == "" {
		f.Kind = KindElement
	}
	return nil
}

// ParseError represents a parsing error with location info.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Parse parses a view definition.
func Parse(data []byte, sourcePath string) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &ParseError{Path: sourcePath, Message: err.Error()}
	}
	def.SourcePath = sourcePath
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	}
	if err := validate(def.Fields, sourcePath); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile reads a view definition from fs.
func LoadFile(fs afero.Fs, path string) (*Definition, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path)
}

// LoadDir reads every .yaml/.yml definition under dir, sorted by path.
func LoadDir(fs afero.Fs, dir string) ([]*Definition, error) {
	var paths []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	defs := make([]*Definition, 0, len(paths))
	for _, path := range paths {
		def, err := LoadFile(fs, path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func validate(fields []Field, path string) error {
	seen := make(map[string]bool)
	for _, f := range fields {
		fail := func(format string, args ...interface{}) error {
			return &ParseError{Path: path, Line: f.line, Message: fmt.Sprintf("field %q: ", f.Name) + fmt.Sprintf(format, args...)}
		}
		if f.Name == "" {
			return &ParseError{Path: path, Line: f.line, Message: "field without a name"}
		}
		if seen[f.Name] {
			return fail("duplicate name")
		}
		seen[f.Name] = true

		switch f.Kind {
		case KindElement, KindList, KindView, KindViews:
		default:
			return fail("unknown kind %q", f.Kind)
		}

		if f.Sequence != nil {
			if f.Kind != KindList {
				return fail("sequence is only supported for lists")
			}
			if !f.Locator.IsZero() {
				return fail("set either locator or sequence")
			}
			if f.Sequence.Template == "" {
				return fail("sequence without a template")
			}
		} else if _, err := f.Locator.Locator(); err != nil {
			return fail("%v", err)
		}

		bounded := f.AtLeast != nil || f.AtMost != nil || f.Exactly != nil
		list := f.Kind == KindList || f.Kind == KindViews
		if bounded && !list {
			return fail("bounds are only supported for %s and %s fields", KindList, KindViews)
		}
		if bounded && !f.Required {
			return fail("bounds need required: true")
		}
		if f.Exactly != nil && (f.AtLeast != nil || f.AtMost != nil) {
			return fail("exactly cannot be combined with atLeast or atMost")
		}

		nested := f.Kind == KindView || f.Kind == KindViews
		if !nested && (len(f.Fields) > 0 || f.Condition != "") {
			return fail("fields and condition are only supported for %s and %s fields", KindView, KindViews)
		}
		if nested {
			if err := validate(f.Fields, path); err != nil {
				return err
			}
		}
	}
	return nil
}

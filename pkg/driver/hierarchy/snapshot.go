package hierarchy

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/logger"
	"github.com/devicelab-dev/pageview/pkg/view"
)

// Snapshot is the screen-level context.
type Snapshot struct {
	searcher
	source   string
	platform Platform
	root     *Node
	elements map[*Node]*Element
}

// Parse reads a hierarchy dump.
func Parse(r io.Reader) (*Snapshot, error) {
	root, platform, err := parse(r)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{platform: platform, root: root, elements: make(map[*Node]*Element)}
	s.searcher = searcher{snap: s, node: root, ctx: s}
	return s, nil
}

// LoadFile reads a hierarchy dump from fs.
func LoadFile(fs afero.Fs, path string) (*Snapshot, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page source %s: %w", path, err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	s.source = path
	return s, nil
}

// Platform returns the platform the dump was taken on.
func (s *Snapshot) Platform() Platform { return s.platform }

// Root returns the synthetic root above the top-level windows.
func (s *Snapshot) Root() *Node { return s.root }

// Find returns the screen-level selection.
func (s *Snapshot) Find() core.Selection {
	return view.NewSelection(s)
}

func (s *Snapshot) String() string {
	if s.source != "" {
		return fmt.Sprintf("%s(%s)", s.platform, s.source)
	}
	return string(s.platform)
}

// element returns the element for n. The same node always yields the same element.
func (s *Snapshot) element(n *Node) *Element {
	if e, ok := s.elements[n]; ok {
		return e
	}
	e := &Element{}
	e.searcher = searcher{snap: s, node: n, ctx: e}
	s.elements[n] = e
	return e
}

func (s *Snapshot) record(kind, arg string) {
	logger.Debug("%s lookup %s:%s", s.platform, kind, arg)
}

// Element is a node of the hierarchy. It is also a context searching inside the node.
type Element struct {
	searcher
}

// Node returns the backing node.
func (e *Element) Node() *Node { return e.node }

// Find returns the selection searching inside the element.
func (e *Element) Find() core.Selection {
	return view.NewSelection(e)
}

// IsPresent is always true: a snapshot does not change.
func (e *Element) IsPresent() (bool, error) {
	return true, nil
}

// IsDisplayed follows the platform's visibility attribute and requires a
// non-empty rectangle when bounds are known. Hidden ancestors hide the node.
func (e *Element) IsDisplayed() (bool, error) {
	for n := e.node; n != nil && n != e.snap.root; n = n.Parent {
		if !e.snap.visible(n) {
			return false, nil
		}
	}
	return true, nil
}

func (e *Element) Attribute(name string) (string, error) {
	return e.node.Attr(name), nil
}

// Text returns the visible text: text or content-desc on Android, label or value on iOS.
func (e *Element) Text() (string, error) {
	for _, name := range e.snap.textAttrs()[:2] {
		if v := strings.TrimSpace(e.node.Attr(name)); v != "" {
			return v, nil
		}
	}
	return "", nil
}

func (e *Element) String() string {
	n := e.node
	if id := n.Attr(e.snap.idAttr()); id != "" {
		return fmt.Sprintf("%s#%s", n.Class, id)
	}
	if t, _ := e.Text(); t != "" {
		return fmt.Sprintf("%s %q", n.Class, t)
	}
	return n.Class
}

func (s *Snapshot) visible(n *Node) bool {
	switch s.platform {
	case IOS:
		if v, ok := n.Attrs["visible"]; ok && v != "true" {
			return false
		}
	default:
		if n.Attrs["displayed"] == "false" {
			return false
		}
	}
	return !n.hasBounds || !n.Bounds.Empty()
}

func (s *Snapshot) idAttr() string {
	if s.platform == IOS {
		return "name"
	}
	return "resource-id"
}

func (s *Snapshot) nameAttr() string {
	if s.platform == IOS {
		return "label"
	}
	return "content-desc"
}

func (s *Snapshot) textAttrs() []string {
	if s.platform == IOS {
		return []string{"label", "value", "placeholderValue"}
	}
	return []string{"text", "content-desc", "hint"}
}

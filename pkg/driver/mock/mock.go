// Package mock provides an in-memory driver context for testing views without a browser.
//
// The page is a tree of nodes, usually loaded from a YAML fixture:
//
//	children:
//	  - id: login
//	    children:
//	      - {id: user, tag: input}
//	      - {tag: a, text: Forgot password?}
//	      - {id: help, displayed: false}
//
// The driver supports every finder capability except XPath, counts lookups and
// lets tests mutate the tree between evaluations.
package mock

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/logger"
	"github.com/devicelab-dev/pageview/pkg/view"
)

// Node is one element of the page tree.
type Node struct {
	ID        string            `yaml:"id,omitempty"`
	Name      string            `yaml:"name,omitempty"`
	Tag       string            `yaml:"tag,omitempty"`
	Text      string            `yaml:"text,omitempty"`
	Displayed *bool             `yaml:"displayed,omitempty"` // default true
	Attrs     map[string]string `yaml:"attrs,omitempty"`
	Children  []*Node           `yaml:"children,omitempty"`

	parent  *Node
	removed bool
}

// Attr returns the value of attribute name, "" if unset.
func (n *Node) Attr(name string) string {
	switch name {
	case "id":
		return n.ID
	case "name":
		return n.Name
	case "tag":
		return n.Tag
	}
	return n.Attrs[name]
}

func (n *Node) attached() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.removed {
			return false
		}
	}
	return true
}

func (n *Node) visible() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Displayed != nil && !*cur.Displayed {
			return false
		}
	}
	return true
}

func (n *Node) link() {
	for _, c := range n.Children {
		c.parent = n
		c.link()
	}
}

// walk visits the descendants of n in document order, skipping removed subtrees.
func (n *Node) walk(fn func(*Node)) {
	for _, c := range n.Children {
		if c.removed {
			continue
		}
		fn(c)
		c.walk(fn)
	}
}

func (n *Node) String() string {
	switch {
	case n.ID != "":
		return "#" + n.ID
	case n.Name != "":
		return fmt.Sprintf("[name=%s]", n.Name)
	case n.Tag != "":
		return n.Tag
	case n.Text != "":
		return fmt.Sprintf("%q", n.Text)
	}
	return "node"
}

// Driver is the page-level context.
type Driver struct {
	searcher
	root     *Node
	elements map[*Node]*Element
	lookups  []string
}

// New returns a driver over root.
func New(root *Node) *Driver {
	if root == nil {
		root = &Node{}
	}
	root.link()
	d := &Driver{root: root, elements: make(map[*Node]*Element)}
	d.searcher = searcher{driver: d, node: root, ctx: d}
	return d
}

// Parse builds a driver from a YAML fixture.
func Parse(data []byte) (*Driver, error) {
	var root Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, core.ErrInvalidDefinition.WithMessage("failed to parse fixture").WithCause(err)
	}
	return New(&root), nil
}

// LoadFile reads a YAML fixture from fs.
func LoadFile(fs afero.Fs, path string) (*Driver, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return Parse(data)
}

// Find returns the page-level selection.
func (d *Driver) Find() core.Selection {
	return view.NewSelection(d)
}

// Root returns the root node.
func (d *Driver) Root() *Node { return d.root }

// Lookups returns every lookup performed since the last reset, e.g. `id:user`.
func (d *Driver) Lookups() []string {
	return append([]string(nil), d.lookups...)
}

// LookupCount returns the number of lookups since the last reset.
func (d *Driver) LookupCount() int { return len(d.lookups) }

// ResetLookups clears the lookup log.
func (d *Driver) ResetLookups() { d.lookups = nil }

// Node returns the attached node with the given id.
func (d *Driver) Node(id string) (*Node, bool) {
	var found *Node
	d.root.walk(func(n *Node) {
		if found == nil && n.ID == id {
			found = n
		}
	})
	return found, found != nil
}

// Remove detaches the node with the given id. Elements already resolved for it
// report not present afterwards.
func (d *Driver) Remove(id string) error {
	n, ok := d.Node(id)
	if !ok {
		return core.ErrElementNotFound.WithMessagef("no node with id %q", id)
	}
	n.removed = true
	return nil
}

// SetDisplayed toggles the visibility of the node with the given id.
func (d *Driver) SetDisplayed(id string, displayed bool) error {
	n, ok := d.Node(id)
	if !ok {
		return core.ErrElementNotFound.WithMessagef("no node with id %q", id)
	}
	n.Displayed = &displayed
	return nil
}

// Append adds child under the node with id parentID, or under the root when parentID is "".
func (d *Driver) Append(parentID string, child *Node) error {
	parent := d.root
	if parentID != "" {
		n, ok := d.Node(parentID)
		if !ok {
			return core.ErrElementNotFound.WithMessagef("no node with id %q", parentID)
		}
		parent = n
	}
	child.parent = parent
	child.link()
	parent.Children = append(parent.Children, child)
	return nil
}

// element returns the element for n. The same node always yields the same element.
func (d *Driver) element(n *Node) *Element {
	if e, ok := d.elements[n]; ok {
		return e
	}
	e := &Element{}
	e.searcher = searcher{driver: d, node: n, ctx: e}
	d.elements[n] = e
	return e
}

func (d *Driver) record(kind, arg string) {
	d.lookups = append(d.lookups, kind+":"+arg)
	logger.Debug("mock lookup %s:%s", kind, arg)
}

// Element is a node of the page. It is also a context searching inside the node.
type Element struct {
	searcher
}

// Node returns the backing node.
func (e *Element) Node() *Node { return e.node }

// Find returns the selection searching inside the element.
func (e *Element) Find() core.Selection {
	return view.NewSelection(e)
}

func (e *Element) IsPresent() (bool, error) {
	return e.node.attached(), nil
}

func (e *Element) IsDisplayed() (bool, error) {
	return e.node.attached() && e.node.visible(), nil
}

func (e *Element) Attribute(name string) (string, error) {
	if !e.node.attached() {
		return "", core.ErrElementNotFound.WithMessagef("element %s is no longer attached", e.node)
	}
	return e.node.Attr(name), nil
}

func (e *Element) Text() (string, error) {
	if !e.node.attached() {
		return "", core.ErrElementNotFound.WithMessagef("element %s is no longer attached", e.node)
	}
	return e.node.Text, nil
}

func (e *Element) String() string {
	return e.node.String()
}

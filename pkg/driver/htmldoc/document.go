// Package htmldoc provides a driver context over a static HTML snapshot.
//
// Every finder capability is supported. XPath runs through htmlquery, everything
// else through goquery. Visibility is inferred from markup only: an element is
// displayed unless it or an ancestor is hidden by the hidden attribute, an inline
// display:none or visibility:hidden style, type="hidden", or is a non-rendered tag.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/logger"
	"github.com/devicelab-dev/pageview/pkg/view"
)

// Document is the page-level context.
type Document struct {
	searcher
	source   string
	gen      int
	elements map[*html.Node]*Element
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	d := &Document{}
	if err := d.Reload(r); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// LoadFile reads an HTML document from fs.
func LoadFile(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %s: %w", path, err)
	}
	d, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	d.source = path
	return d, nil
}

// Reload replaces the snapshot. Elements resolved from the previous snapshot
// report not present afterwards.
func (d *Document) Reload(r io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return core.ErrInvalidDefinition.WithMessage("failed to parse HTML").WithCause(err)
	}
	d.gen++
	d.elements = make(map[*html.Node]*Element)
	d.searcher = searcher{doc: d, sel: doc.Selection, ctx: d}
	return nil
}

// Find returns the page-level selection.
func (d *Document) Find() core.Selection {
	return view.NewSelection(d)
}

// HTML renders the current snapshot.
func (d *Document) HTML() (string, error) {
	return goquery.OuterHtml(d.sel)
}

func (d *Document) String() string {
	if d.source != "" {
		return fmt.Sprintf("html(%s)", d.source)
	}
	return "html"
}

// element returns the element for n. The same node always yields the same element
// until the next Reload.
func (d *Document) element(n *html.Node) *Element {
	if e, ok := d.elements[n]; ok {
		return e
	}
	e := &Element{gen: d.gen}
	e.searcher = searcher{doc: d, sel: goquery.NewDocumentFromNode(n).Selection, ctx: e}
	d.elements[n] = e
	return e
}

func (d *Document) record(kind, arg string) {
	logger.Debug("html lookup %s:%s", kind, arg)
}

// Element is an HTML element of the snapshot. It is also a context searching inside it.
type Element struct {
	searcher
	gen int
}

// Node returns the backing node.
func (e *Element) Node() *html.Node { return e.sel.Get(0) }

func (e *Element) Find() core.Selection {
	return view.NewSelection(e)
}

func (e *Element) IsPresent() (bool, error) {
	return e.attached(), nil
}

func (e *Element) IsDisplayed() (bool, error) {
	return e.attached() && visible(e.Node()), nil
}

// Attribute returns the attribute value, "" when it is not set.
func (e *Element) Attribute(name string) (string, error) {
	if !e.attached() {
		return "", e.detached()
	}
	return e.sel.AttrOr(name, ""), nil
}

// Text returns the text content with runs of white space collapsed.
func (e *Element) Text() (string, error) {
	if !e.attached() {
		return "", e.detached()
	}
	return normalize(e.sel.Text()), nil
}

func (e *Element) String() string {
	n := e.Node()
	if id := attr(n, "id"); id != "" {
		return "#" + id
	}
	if name := attr(n, "name"); name != "" {
		return fmt.Sprintf("%s[name=%s]", n.Data, name)
	}
	return n.Data
}

func (e *Element) attached() bool {
	return e.gen == e.doc.gen
}

func (e *Element) detached() error {
	return core.ErrElementNotFound.WithMessagef("element %s belongs to a previous snapshot", e)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

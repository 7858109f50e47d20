// Package hierarchy is a Context over a mobile UI hierarchy snapshot: the XML
// returned by `uiautomator dump` or an Appium page source on Android, and the
// XCUITest page source served by WebDriverAgent on iOS.
//
// Locators map onto the platform's accessibility attributes:
//
//	            Android                       iOS
//	id          resource-id (or its suffix    name (accessibility identifier)
//	            after ":id/")
//	name        content-desc                  label
//	text        text, content-desc, hint      label, value, placeholderValue
//	attribute   any raw attribute             any raw attribute
//
// XPath, CSS and link text are not supported.
package hierarchy

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/devicelab-dev/pageview/pkg/core"
)

// Platform is the source of a snapshot.
type Platform string

// Platforms.
const (
	Android Platform = "android"
	IOS     Platform = "ios"
)

// Bounds is the on-screen rectangle of a node.
type Bounds struct {
	X, Y, Width, Height int
}

// Empty reports whether the rectangle has no area.
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Node is one element of the hierarchy.
type Node struct {
	Class    string // widget class or XCUIElementType
	Attrs    map[string]string
	Bounds   Bounds
	Children []*Node
	Parent   *Node
	Depth    int

	hasBounds bool
}

// Attr returns the raw attribute value.
func (n *Node) Attr(name string) string { return n.Attrs[name] }

func (n *Node) walk(fn func(*Node)) {
	for _, c := range n.Children {
		fn(c)
		c.walk(fn)
	}
}

// parse reads a hierarchy dump. Both the UIAutomator form, where the tag is the
// widget class, and the Appium form, with <node class="..."> tags, are accepted.
func parse(r io.Reader) (*Node, Platform, error) {
	decoder := xml.NewDecoder(r)
	root := &Node{Attrs: map[string]string{}}
	var platform Platform

	var parseElement func(parent *Node) (*Node, error)
	parseElement = func(parent *Node) (*Node, error) {
		for {
			token, err := decoder.Token()
			if err != nil {
				return nil, err
			}

			switch t := token.(type) {
			case xml.StartElement:
				switch {
				case t.Name.Local == "hierarchy":
					platform = Android
					continue
				case t.Name.Local == "AppiumAUT":
					platform = IOS
					continue
				case platform == "" && strings.HasPrefix(t.Name.Local, "XCUIElementType"):
					platform = IOS
				}

				n := &Node{
					Class:  t.Name.Local,
					Attrs:  make(map[string]string, len(t.Attr)),
					Parent: parent,
					Depth:  parent.Depth + 1,
				}
				for _, attr := range t.Attr {
					n.Attrs[attr.Name.Local] = attr.Value
				}
				n.readAttrs()

				for {
					child, err := parseElement(n)
					if err != nil {
						return nil, err
					}
					if child == nil {
						break
					}
					n.Children = append(n.Children, child)
				}
				return n, nil

			case xml.EndElement:
				return nil, nil
			}
		}
	}

	for {
		n, err := parseElement(root)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, "", core.ErrInvalidDefinition.WithMessage("failed to parse page source").WithCause(err)
		}
		if n != nil {
			root.Children = append(root.Children, n)
		}
	}

	if platform == "" {
		return nil, "", core.ErrInvalidDefinition.WithMessage("invalid page source: no hierarchy element found")
	}
	return root, platform, nil
}

func (n *Node) readAttrs() {
	if class := n.Attrs["class"]; class != "" {
		n.Class = class
	}
	if t := n.Attrs["type"]; t != "" {
		n.Class = t
	}

	if b, ok := n.Attrs["bounds"]; ok {
		n.Bounds, n.hasBounds = parseBounds(b)
		return
	}
	if _, ok := n.Attrs["width"]; ok {
		n.Bounds = Bounds{
			X:      atoi(n.Attrs["x"]),
			Y:      atoi(n.Attrs["y"]),
			Width:  atoi(n.Attrs["width"]),
			Height: atoi(n.Attrs["height"]),
		}
		n.hasBounds = true
	}
}

// parseBounds parses the Android form "[x1,y1][x2,y2]".
func parseBounds(s string) (Bounds, bool) {
	s = strings.ReplaceAll(s, "][", ",")
	s = strings.Trim(s, "[]")
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, false
	}

	x1, y1, x2, y2 := atoi(parts[0]), atoi(parts[1]), atoi(parts[2]), atoi(parts[3])
	return Bounds{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

func atoi(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// visible walks from n up to the document and reports whether any node hides it.
func visible(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && hidden(cur) {
			return false
		}
	}
	return true
}

func hidden(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript, atom.Title, atom.Meta, atom.Link:
		return true
	case atom.Input:
		if strings.EqualFold(attr(n, "type"), "hidden") {
			return true
		}
	}
	if hasAttr(n, "hidden") {
		return true
	}
	return hiddenByStyle(attr(n, "style"))
}

// hiddenByStyle checks inline declarations only; stylesheets are not evaluated.
func hiddenByStyle(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important")))
		switch {
		case prop == "display" && value == "none":
			return true
		case prop == "visibility" && (value == "hidden" || value == "collapse"):
			return true
		}
	}
	return false
}

package htmlutils

import (
	"golang.org/x/net/html"
)

// GetNodeAttr returns the value for an attribute in a node, or "" if no such
// attribute is present.
func GetNodeAttr(node *html.Node, attrName string) string {
	value, _ := LookupNodeAttr(node, attrName)
	return value
}

// LookupNodeAttr returns the value for an attribute in a node, and whether
// or not the attribute was present at all.
func LookupNodeAttr(node *html.Node, attrName string) (string, bool) {
	for index := range node.Attr {
		if node.Attr[index].Key == attrName {
			return node.Attr[index].Val, true
		}
	}

	return "", false
}

// WalkNodesPreOrder calls `walker` on each node in pre-order.  If `walker` returns
// false, the the given node's children will be skipped.
func WalkNodesPreOrder(node *html.Node, walker func(*html.Node) bool) {
	var f func(*html.Node)
	f = func(node *html.Node) {
		traverseChildren := walker(node)
		if traverseChildren {
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				f(c)
			}
		}
	}
	f(node)
}

// FindNode returns the first element, in document order, which has the given
// tag name and for which `match` returns true.  `match` may be nil to match
// any element with the tag.  Returns nil if there is no such element.
func FindNode(node *html.Node, tagName string, match func(*html.Node) bool) *html.Node {
	var result *html.Node

	WalkNodesPreOrder(node, func(node *html.Node) bool {
		if result != nil {
			return false
		}
		if node.Type == html.ElementNode && node.Data == tagName && (match == nil || match(node)) {
			result = node
			return false
		}
		return true
	})

	return result
}

// FindMetaProperty returns the first `<meta property="...">` element with the
// given property, or nil if there isn't one.
func FindMetaProperty(node *html.Node, property string) *html.Node {
	return FindNode(node, "meta", func(node *html.Node) bool {
		return GetNodeAttr(node, "property") == property
	})
}

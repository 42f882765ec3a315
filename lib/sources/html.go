package sources

import (
	"bytes"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseHTML(body []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(body))
}

// findAll returns every element below n matching match, in document order.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node

	for child := range n.Descendants() {
		if child.Type == html.ElementNode && match(child) {
			found = append(found, child)
		}
	}

	return found
}

// findFirst returns the first element below n matching match, or nil.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for child := range n.Descendants() {
		if child.Type == html.ElementNode && match(child) {
			return child
		}
	}

	return nil
}

func isTag(tag atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.DataAtom == tag }
}

// hasClasses matches elements of tag carrying every one of classes.
func hasClasses(tag atom.Atom, classes ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.DataAtom != tag {
			return false
		}

		have := strings.Fields(attr(n, "class"))

		for _, class := range classes {
			if !slices.Contains(have, class) {
				return false
			}
		}

		return true
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

// text concatenates the text nodes below n.
func text(n *html.Node) string {
	var sb strings.Builder

	for child := range n.Descendants() {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}

	return sb.String()
}

package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseHTML parses content leniently, handling both full documents and the
// fragments produced by rich-text editors.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	content = strings.TrimPrefix(content, "\ufeff")

	if isDocument(content) {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Parse with a body context so the fragment is not wrapped in <html><body>.
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// isDocument reports whether content starts with a doctype or an <html> tag,
// ignoring leading whitespace and comments.
func isDocument(content string) bool {
	s := strings.TrimSpace(content)
	for strings.HasPrefix(s, "<!--") {
		end := strings.Index(s[len("<!--"):], "-->")
		if end < 0 {
			return false
		}
		s = strings.TrimSpace(s[len("<!--")+end+len("-->"):])
	}
	s = strings.ToLower(s[:min(len(s), len("<!doctype"))])
	return strings.HasPrefix(s, "<!doctype") || strings.HasPrefix(s, "<html")
}

// renderHTML renders the tree back to a string. Fragments render their
// top-level nodes only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// findElements returns every element with the given atom in document order.
func findElements(n *html.Node, a atom.Atom) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// cloneNode deep-copies n. The copy is detached from any parent or sibling.
func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}

package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/legalese/internal/simplify"
)

// skippedElements never contribute visible text
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
	"svg":      true,
}

// blockElements end a line so sentences in adjacent blocks stay apart
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"li": true, "ul": true, "ol": true, "dd": true, "dt": true, "dl": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"br": true, "tr": true, "table": true, "blockquote": true, "pre": true,
	"header": true, "footer": true, "aside": true, "nav": true, "form": true,
}

// HTMLText is the visible text and title of an HTML document
type HTMLText struct {
	Title string
	Text  string
}

// ExtractHTML parses an HTML document and returns its visible text.
// The main content area is preferred: <main>, then <article> or an element
// with role="main", then <body>.
func ExtractHTML(r io.Reader) (*HTMLText, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	root := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "main")
	})
	if root == nil {
		root = findFirst(doc, func(n *html.Node) bool {
			return isElement(n, "article") || (n.Type == html.ElementNode && getAttribute(n, "role") == "main")
		})
	}
	if root == nil {
		root = findFirst(doc, func(n *html.Node) bool {
			return isElement(n, "body")
		})
	}
	if root == nil {
		root = doc
	}

	var title string
	if t := findFirst(doc, func(n *html.Node) bool { return isElement(n, "title") }); t != nil {
		title = collapse(textOf(t))
	}

	return &HTMLText{
		Title: title,
		Text:  visibleText(root),
	}, nil
}

// visibleText renders the text of n with one line per block element
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			buf.WriteString(node.Data)
			return
		case html.ElementNode:
			if skippedElements[node.Data] {
				return
			}
		case html.CommentNode:
			return
		}

		block := node.Type == html.ElementNode && blockElements[node.Data]
		if block {
			buf.WriteString("\n")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			buf.WriteString("\n")
		}
	}
	walk(n)

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// textOf concatenates all text below n
func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(textOf(c))
	}
	return buf.String()
}

func collapse(s string) string {
	return strings.Join(strings.FieldsFunc(s, simplify.IsSpace), " ")
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func getAttribute(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// findFirst finds the first node matching a predicate in document order
func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	if predicate(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, predicate); found != nil {
			return found
		}
	}
	return nil
}

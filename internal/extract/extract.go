// Package extract pulls the structured pieces the checks need out of a
// parsed landing page: the JSON-LD block, meta/link tag values, href
// attributes and inline script text.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"smokecheck/internal/model"
)

var (
	ErrNoStructuredData        = errors.New("no JSON-LD block found")
	ErrMalformedStructuredData = errors.New("malformed JSON-LD block")
)

const ldJSONType = "application/ld+json"

// Parse parses raw HTML into a node tree.
func Parse(rawHTML string) (*html.Node, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return root, nil
}

// JSONLD decodes the first <script type="application/ld+json"> block. When
// the block holds an array, its first object is used. A missing block
// returns ErrNoStructuredData and an undecodable one wraps
// ErrMalformedStructuredData.
func JSONLD(root *html.Node) (model.StructuredData, error) {
	script := findFirst(root, func(n *html.Node) bool {
		return isElement(n, "script") && scriptType(n) == ldJSONType
	})
	if script == nil {
		return nil, ErrNoStructuredData
	}

	raw := strings.TrimSpace(InnerText(script))

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStructuredData, err)
	}

	switch t := v.(type) {
	case map[string]any:
		return model.StructuredData(t), nil
	case []any:
		for _, item := range t {
			if obj, ok := item.(map[string]any); ok {
				return model.StructuredData(obj), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedStructuredData)
}

// Meta returns the value of the first tag identified by key: the content of
// <meta property=key> or <meta name=key>, or the href of <link rel=key>.
func Meta(root *html.Node, key string) (string, bool) {
	var value string
	found := findFirst(root, func(n *html.Node) bool {
		switch {
		case isElement(n, "meta"):
			if strings.EqualFold(attr(n, "property"), key) || strings.EqualFold(attr(n, "name"), key) {
				value = attr(n, "content")
				return true
			}
		case isElement(n, "link"):
			for _, rel := range strings.Fields(attr(n, "rel")) {
				if strings.EqualFold(rel, key) {
					value = attr(n, "href")
					return true
				}
			}
		}
		return false
	})
	if found == nil {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// Links returns every non-empty href in document order. With suffixes, only
// links whose path ends in one of them (case-insensitive) are kept.
func Links(root *html.Node, suffixes ...string) []string {
	var links []string

	var visitNode func(*html.Node)
	visitNode = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if href := strings.TrimSpace(attr(node, "href")); href != "" && hasSuffix(href, suffixes) {
				links = append(links, href)
			}
		}

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visitNode(child)
		}
	}

	visitNode(root)
	return links
}

// ScriptText concatenates the text of every executable inline script.
// JSON-LD and other data blocks are skipped.
func ScriptText(root *html.Node) string {
	var sb strings.Builder

	var visitNode func(*html.Node)
	visitNode = func(node *html.Node) {
		if isElement(node, "script") && isExecutable(scriptType(node)) {
			sb.WriteString(InnerText(node))
			sb.WriteByte('\n')
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visitNode(child)
		}
	}

	visitNode(root)
	return sb.String()
}

// InnerText extracts all text content inside a node.
func InnerText(node *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(node)
	return sb.String()
}

func findFirst(node *html.Node, match func(*html.Node) bool) *html.Node {
	if match(node) {
		return node
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isElement(node *html.Node, tag string) bool {
	return node.Type == html.ElementNode && node.Data == tag
}

func attr(node *html.Node, key string) string {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func scriptType(node *html.Node) string {
	t := strings.ToLower(strings.TrimSpace(attr(node, "type")))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

func isExecutable(typ string) bool {
	return typ == "" || typ == "module" || strings.Contains(typ, "javascript") || strings.Contains(typ, "ecmascript")
}

func hasSuffix(link string, suffixes []string) bool {
	if len(suffixes) == 0 {
		return true
	}
	path := link
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(path)
	for _, s := range suffixes {
		if strings.HasSuffix(path, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

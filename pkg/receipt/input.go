package receipt

import (
	"strings"

	"golang.org/x/net/html"
)

// Input wraps one raw receipt body and lazily derives the views the
// extractors share: a lower-cased copy, a parsed markup tree and a
// visible-text rendering.
type Input struct {
	Raw string

	lower     string
	hasLower  bool
	doc       *html.Node
	parsedDoc bool
	text      string
	hasText   bool
}

func NewInput(raw string) *Input {
	return &Input{Raw: raw}
}

// Lower returns the lower-cased raw input, used for format detection.
func (in *Input) Lower() string {
	if !in.hasLower {
		in.lower = strings.ToLower(in.Raw)
		in.hasLower = true
	}
	return in.lower
}

// Doc returns the parsed markup tree, or nil when the input is not
// parseable as markup.
func (in *Input) Doc() *html.Node {
	if !in.parsedDoc {
		doc, err := html.Parse(strings.NewReader(in.Raw))
		if err == nil {
			in.doc = doc
		}
		in.parsedDoc = true
	}
	return in.doc
}

// Text returns the visible-text rendering of the input: tag contents with
// script/style stripped and whitespace collapsed.
func (in *Input) Text() string {
	if !in.hasText {
		if doc := in.Doc(); doc != nil {
			in.text = visibleText(doc)
		} else {
			in.text = strings.Join(strings.Fields(in.Raw), " ")
		}
		in.hasText = true
	}
	return in.text
}

func visibleText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style", "head":
				return
			}
		}
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// elementsWithClass collects the visible text of every element whose class
// attribute contains the given substring (case-insensitive).
func elementsWithClass(doc *html.Node, substr string) []string {
	if doc == nil {
		return nil
	}
	var out []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, attr := range node.Attr {
				if attr.Key == "class" && strings.Contains(strings.ToLower(attr.Val), substr) {
					out = append(out, visibleText(node))
					break
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// firstElement returns the first element with the given tag name, or nil.
func firstElement(doc *html.Node, tag string) *html.Node {
	if doc == nil {
		return nil
	}
	var found *html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if found != nil {
			return
		}
		if node.Type == html.ElementNode && node.Data == tag {
			found = node
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// metaContent returns the content attribute of a meta tag with the given
// property, or "".
func metaContent(doc *html.Node, property string) string {
	if doc == nil {
		return ""
	}
	var content string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if content != "" {
			return
		}
		if node.Type == html.ElementNode && node.Data == "meta" {
			var prop, val string
			for _, attr := range node.Attr {
				switch attr.Key {
				case "property", "name":
					prop = attr.Val
				case "content":
					val = attr.Val
				}
			}
			if prop == property {
				content = val
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return content
}

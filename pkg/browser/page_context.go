package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/entrhq/anvil/pkg/llm/tokenizer"
)

const (
	// DefaultContextTokens is the page content budget handed to the generator.
	DefaultContextTokens = 6000

	// approxCharsPerToken sizes the pre-clean character cut so tokenization
	// runs on bounded input.
	approxCharsPerToken = 4
)

// PageContext is the cleaned page content handed to the tool generator.
type PageContext struct {
	URL         string
	Title       string
	Description string
	HTML        string
	Truncated   bool
}

// PromptText renders the context as the block the generator embeds in its
// system prompt.
func (pc *PageContext) PromptText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", pc.URL)
	if pc.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", pc.Title)
	}
	if pc.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", pc.Description)
	}
	b.WriteString("\nPage HTML (cleaned, scripts and styles removed):\n")
	b.WriteString(pc.HTML)
	if pc.Truncated {
		b.WriteString("\n[page content truncated]")
	}
	return b.String()
}

// PageContext extracts the session's current page as generator context:
// title, meta description, and cleaned HTML trimmed to maxTokens tokens.
// A non-positive budget uses DefaultContextTokens.
func (m *Manager) PageContext(ctx context.Context, sessionID string, maxTokens int) (*PageContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session, err := m.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.UpdateLastUsed()

	if maxTokens <= 0 {
		maxTokens = DefaultContextTokens
	}

	raw, err := session.Page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	cleaned, err := cleanPageHTML(raw, maxTokens*approxCharsPerToken)
	if err != nil {
		return nil, err
	}

	pc := &PageContext{
		URL:         session.CurrentURL,
		Title:       cleaned.Title,
		Description: cleaned.Description,
		HTML:        cleaned.HTML,
		Truncated:   cleaned.Truncated,
	}
	if trimmed, cut := m.trimmer.trim(pc.HTML, maxTokens); cut {
		pc.HTML = trimmed
		pc.Truncated = true
	}
	return pc, nil
}

// contextTrimmer enforces the token budget on cleaned page content. The
// encoding can be unavailable offline; trimming then degrades to the
// character cut the cleaner already applied.
type contextTrimmer struct {
	once sync.Once
	tok  *tokenizer.Tokenizer
}

func newContextTrimmer() *contextTrimmer {
	return &contextTrimmer{}
}

func (ct *contextTrimmer) trim(text string, maxTokens int) (string, bool) {
	ct.once.Do(func() {
		ct.tok, _ = tokenizer.New()
	})
	if ct.tok == nil || maxTokens <= 0 {
		return text, false
	}
	if ct.tok.CountTokens(text) <= maxTokens {
		return text, false
	}
	return ct.tok.Truncate(text, maxTokens), true
}

// cleanedPage is the output of cleanPageHTML.
type cleanedPage struct {
	HTML        string
	Title       string
	Description string
	Truncated   bool
}

// cleanPageHTML parses raw page HTML and rebuilds it with scripts, styles,
// and other non-content machinery removed, keeping semantic structure and
// the attributes generated scripts need for element targeting. Output is
// capped at maxChars.
func cleanPageHTML(raw string, maxChars int) (*cleanedPage, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	title, description := pageMeta(doc)
	c := &cleaner{limit: maxChars}
	truncated := c.node(doc, 0)

	return &cleanedPage{
		HTML:        c.out.String(),
		Title:       title,
		Description: description,
		Truncated:   truncated,
	}, nil
}

// cleaner rebuilds a DOM into compact indented HTML under a character limit.
type cleaner struct {
	out   strings.Builder
	used  int
	limit int
}

// node processes one node and its subtree. Returns true once the limit is hit.
func (c *cleaner) node(n *html.Node, depth int) bool {
	if c.used >= c.limit {
		return true
	}

	switch n.Type {
	case html.CommentNode:
		return false
	case html.TextNode:
		return c.text(n)
	case html.ElementNode:
		if strippedTag(strings.ToLower(n.Data)) {
			return false
		}
		return c.element(n, depth)
	default:
		return c.children(n, depth)
	}
}

func (c *cleaner) text(n *html.Node) bool {
	text := strings.TrimSpace(n.Data)
	if text == "" {
		return false
	}

	if c.used+len(text) > c.limit {
		remaining := c.limit - c.used
		c.out.WriteString(text[:remaining])
		c.out.WriteString("...")
		c.used = c.limit
		return true
	}

	c.out.WriteString(text)
	c.used += len(text)
	return false
}

func (c *cleaner) element(n *html.Node, depth int) bool {
	tag := strings.ToLower(n.Data)

	if depth > 0 && blockTag(tag) {
		c.out.WriteString("\n")
		c.out.WriteString(strings.Repeat("  ", depth))
	}

	c.out.WriteString("<")
	c.out.WriteString(tag)
	for _, attr := range n.Attr {
		if keepAttr(tag, attr.Key) {
			fmt.Fprintf(&c.out, ` %s="%s"`, strings.ToLower(attr.Key), html.EscapeString(attr.Val))
		}
	}
	c.out.WriteString(">")
	c.used += len(tag) + 2

	truncated := c.children(n, depth+1)

	if !voidTag(tag) {
		if blockTag(tag) {
			c.out.WriteString("\n")
			c.out.WriteString(strings.Repeat("  ", depth))
		}
		c.out.WriteString("</")
		c.out.WriteString(tag)
		c.out.WriteString(">")
		c.used += len(tag) + 3
	}
	return truncated
}

func (c *cleaner) children(n *html.Node, depth int) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if c.node(child, depth) {
			return true
		}
	}
	return false
}

// strippedTag reports elements removed entirely: non-content machinery that
// only burns prompt budget.
func strippedTag(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "iframe", "embed", "object",
		"svg", "canvas", "template", "link", "meta":
		return true
	}
	return false
}

// blockTag reports block-level elements, which get their own indented lines.
func blockTag(tag string) bool {
	switch tag {
	case "div", "p", "section", "article", "header", "footer", "nav", "main",
		"aside", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li",
		"table", "thead", "tbody", "tr", "td", "th", "form", "fieldset",
		"blockquote", "pre":
		return true
	}
	return false
}

// voidTag reports self-closing elements that take no closing tag.
func voidTag(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// keepAttr reports attributes preserved in cleaned output. The policy keeps
// what generated scripts need for element targeting: identity, ARIA roles,
// data hooks, and form semantics.
func keepAttr(tag, attr string) bool {
	attr = strings.ToLower(attr)

	switch attr {
	case "id", "class", "role", "aria-label", "aria-describedby":
		return true
	}
	if strings.HasPrefix(attr, "data-") {
		return true
	}

	switch tag {
	case "a":
		return attr == "href" || attr == "target"
	case "img":
		return attr == "src" || attr == "alt"
	case "input", "textarea", "select":
		return attr == "name" || attr == "type" || attr == "placeholder" || attr == "value"
	case "option":
		return attr == "value" || attr == "selected"
	case "button":
		return attr == "type" || attr == "name" || attr == "value"
	case "label":
		return attr == "for"
	case "form":
		return attr == "action" || attr == "method"
	case "table":
		return attr == "summary"
	}
	return false
}

// pageMeta extracts the title and meta description in a single head walk.
func pageMeta(doc *html.Node) (title, description string) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" && description != "" {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				var name, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "name":
						name = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if description == "" && name == "description" {
					description = strings.TrimSpace(content)
				}
			case "body":
				// Metadata lives in the head.
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return title, description
}

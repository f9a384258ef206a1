// internal/markdown/html.go
package markdown

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ToHTML parses src and renders it as an HTML fragment.
func ToHTML(src string) string {
	return RenderHTML(Parse(src))
}

// RenderHTML renders doc as an HTML fragment. All text is escaped, so the
// output is safe to embed regardless of what the source contained.
func RenderHTML(doc *Document) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range doc.Blocks {
		renderBlock(&b, block)
	}
	return b.String()
}

func renderBlock(b *strings.Builder, block *Block) {
	switch block.Kind {
	case BlockHeading:
		level := min(max(block.Level, 1), 6)
		fmt.Fprintf(b, "<h%d>", level)
		renderInlines(b, block.Inlines)
		fmt.Fprintf(b, "</h%d>\n", level)

	case BlockParagraph:
		if block.Tight {
			renderInlines(b, block.Inlines)
			b.WriteString("\n")
			return
		}
		b.WriteString("<p>")
		renderInlines(b, block.Inlines)
		b.WriteString("</p>\n")

	case BlockCode:
		if block.Language != "" {
			lang := html.EscapeString(block.Language)
			fmt.Fprintf(b, `<pre class="code-block code-block--lang"><code class="language-%s">`, lang)
		} else {
			b.WriteString(`<pre class="code-block code-block--plain"><code>`)
		}
		b.WriteString(html.EscapeString(block.Literal))
		b.WriteString("</code></pre>\n")

	case BlockList:
		tag := "ul"
		if block.Ordered {
			tag = "ol"
		}
		if block.Ordered && block.Start != 1 {
			fmt.Fprintf(b, "<ol start=\"%d\">\n", block.Start)
		} else {
			fmt.Fprintf(b, "<%s>\n", tag)
		}
		for _, item := range block.Children {
			renderBlock(b, item)
		}
		fmt.Fprintf(b, "</%s>\n", tag)

	case BlockListItem:
		b.WriteString("<li>")
		for _, child := range block.Children {
			renderBlock(b, child)
		}
		b.WriteString("</li>\n")

	case BlockQuote:
		b.WriteString("<blockquote>\n")
		for _, child := range block.Children {
			renderBlock(b, child)
		}
		b.WriteString("</blockquote>\n")

	case BlockThematicBreak:
		b.WriteString("<hr>\n")
	}
}

func renderInlines(b *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch in.Kind {
		case InlineText:
			b.WriteString(html.EscapeString(in.Text))

		case InlineCode:
			b.WriteString("<code>")
			b.WriteString(html.EscapeString(in.Text))
			b.WriteString("</code>")

		case InlineEmphasis:
			b.WriteString("<em>")
			renderInlines(b, in.Children)
			b.WriteString("</em>")

		case InlineStrong:
			b.WriteString("<strong>")
			renderInlines(b, in.Children)
			b.WriteString("</strong>")

		case InlineLink:
			if !isSafeURL(in.URL) {
				renderInlines(b, in.Children)
				continue
			}
			fmt.Fprintf(b, `<a href="%s"`, html.EscapeString(in.URL))
			if in.Title != "" {
				fmt.Fprintf(b, ` title="%s"`, html.EscapeString(in.Title))
			}
			b.WriteString(` target="_blank" rel="noopener noreferrer">`)
			renderInlines(b, in.Children)
			b.WriteString("</a>")

		case InlineImage:
			if !isSafeURL(in.URL) {
				b.WriteString(html.EscapeString(in.Text))
				continue
			}
			fmt.Fprintf(b, `<img src="%s" alt="%s">`, html.EscapeString(in.URL), html.EscapeString(in.Text))

		case InlineLineBreak:
			b.WriteString("<br>\n")
		}
	}
}

// isSafeURL accepts relative, http, https and mailto targets. Control characters and spaces
// are dropped before the check since browsers ignore them when reading the scheme.
func isSafeURL(raw string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, raw)
	if gmhtml.IsDangerousURL([]byte(strings.ToLower(cleaned))) {
		return false
	}

	u, err := url.Parse(cleaned)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return true
	default:
		return false
	}
}

// internal/markdown/parse.go
package markdown

import (
	"bufio"
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// CommonMark only; tables and other extensions fall back to literal text.
var md = goldmark.New()

// Parse builds the document tree for src. It accepts any input, including
// unterminated fences and stray markup.
func Parse(src string) *Document {
	doc := &Document{}
	if strings.TrimSpace(src) == "" {
		return doc
	}

	source := []byte(src)
	root := md.Parser().Parse(text.NewReader(source))
	doc.Blocks = convertBlocks(root, source, false)
	return doc
}

func convertBlocks(parent ast.Node, source []byte, tight bool) []*Block {
	var blocks []*Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := convertBlock(n, source, tight); b != nil {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func convertBlock(n ast.Node, source []byte, tight bool) *Block {
	switch node := n.(type) {
	case *ast.Heading:
		return &Block{Kind: BlockHeading, Level: node.Level, Inlines: convertInlines(node, source)}

	case *ast.Paragraph:
		return &Block{Kind: BlockParagraph, Tight: tight, Inlines: convertInlines(node, source)}

	case *ast.TextBlock:
		return &Block{Kind: BlockParagraph, Tight: true, Inlines: convertInlines(node, source)}

	case *ast.FencedCodeBlock:
		return &Block{Kind: BlockCode, Language: string(node.Language(source)), Literal: linesOf(node, source)}

	case *ast.CodeBlock:
		return &Block{Kind: BlockCode, Literal: linesOf(node, source)}

	case *ast.List:
		list := &Block{Kind: BlockList, Ordered: node.IsOrdered(), Start: node.Start}
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			list.Children = append(list.Children, &Block{
				Kind:     BlockListItem,
				Children: convertBlocks(item, source, node.IsTight),
			})
		}
		return list

	case *ast.Blockquote:
		return &Block{Kind: BlockQuote, Children: convertBlocks(node, source, false)}

	case *ast.ThematicBreak:
		return &Block{Kind: BlockThematicBreak}

	case *ast.HTMLBlock:
		literal := linesOf(node, source)
		if node.HasClosure() {
			literal += string(node.ClosureLine.Value(source))
		}
		return literalParagraph(literal)

	default:
		// Unknown blocks keep their source text.
		if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
			return literalParagraph(linesOf(n, source))
		}
		return nil
	}
}

func literalParagraph(literal string) *Block {
	literal = strings.TrimRight(literal, "\n")
	if literal == "" {
		return nil
	}
	return &Block{Kind: BlockParagraph, Inlines: []Inline{{Kind: InlineText, Text: literal}}}
}

func convertInlines(parent ast.Node, source []byte) []Inline {
	var inlines []Inline
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		inlines = appendInline(inlines, n, source)
	}
	return inlines
}

func appendInline(inlines []Inline, n ast.Node, source []byte) []Inline {
	switch node := n.(type) {
	case *ast.Text:
		inlines = appendText(inlines, textValue(node, source))
		if node.SoftLineBreak() || node.HardLineBreak() {
			inlines = append(inlines, Inline{Kind: InlineLineBreak})
		}
		return inlines

	case *ast.String:
		return appendText(inlines, string(node.Value))

	case *ast.CodeSpan:
		return append(inlines, Inline{Kind: InlineCode, Text: plainText(node, source)})

	case *ast.Emphasis:
		kind := InlineEmphasis
		if node.Level >= 2 {
			kind = InlineStrong
		}
		return append(inlines, Inline{Kind: kind, Children: convertInlines(node, source)})

	case *ast.Link:
		return append(inlines, Inline{
			Kind:     InlineLink,
			URL:      string(node.Destination),
			Title:    unescape(node.Title),
			Children: convertInlines(node, source),
		})

	case *ast.AutoLink:
		label := string(node.Label(source))
		return append(inlines, Inline{
			Kind:     InlineLink,
			URL:      string(node.URL(source)),
			Children: []Inline{{Kind: InlineText, Text: label}},
		})

	case *ast.Image:
		return append(inlines, Inline{
			Kind:  InlineImage,
			URL:   string(node.Destination),
			Title: unescape(node.Title),
			Text:  plainText(node, source),
		})

	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(source))
		}
		return appendText(inlines, b.String())

	default:
		if n.HasChildren() {
			return append(inlines, convertInlines(n, source)...)
		}
		return inlines
	}
}

// appendText merges adjacent text runs.
func appendText(inlines []Inline, s string) []Inline {
	if s == "" {
		return inlines
	}
	if last := len(inlines) - 1; last >= 0 && inlines[last].Kind == InlineText {
		inlines[last].Text += s
		return inlines
	}
	return append(inlines, Inline{Kind: InlineText, Text: s})
}

// textValue returns the literal text of n. Outside code spans and raw HTML this resolves
// backslash escapes and entity or numeric character references.
func textValue(n *ast.Text, source []byte) string {
	v := n.Segment.Value(source)
	if n.IsRaw() {
		return string(v)
	}
	return unescape(v)
}

// unescape applies goldmark's own escape and reference handling, then turns the
// HTML it produces back into plain text.
func unescape(v []byte) string {
	if len(v) == 0 {
		return ""
	}
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	gmhtml.DefaultWriter.Write(w, v)
	_ = w.Flush()
	return html.UnescapeString(buf.String())
}

// plainText concatenates the text of every descendant of n.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.WriteString(textValue(t, source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func linesOf(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// internal/markdown/text.go
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// PlainText renders doc as unstyled text, keeping block structure.
func PlainText(doc *Document) string {
	if doc == nil || len(doc.Blocks) == 0 {
		return ""
	}
	var b strings.Builder
	writePlainBlocks(&b, doc.Blocks, "")
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writePlainBlocks(b *strings.Builder, blocks []*Block, indent string) {
	for _, block := range blocks {
		switch block.Kind {
		case BlockHeading:
			fmt.Fprintf(b, "%s%s %s\n\n", indent, strings.Repeat("#", block.Level), inlineText(block.Inlines))
		case BlockParagraph:
			for _, line := range strings.Split(inlineText(block.Inlines), "\n") {
				b.WriteString(indent + line + "\n")
			}
			if !block.Tight {
				b.WriteString("\n")
			}
		case BlockCode:
			for _, line := range strings.Split(strings.TrimRight(block.Literal, "\n"), "\n") {
				b.WriteString(indent + "    " + line + "\n")
			}
			b.WriteString("\n")
		case BlockList:
			for i, item := range block.Children {
				marker := "- "
				if block.Ordered {
					marker = fmt.Sprintf("%d. ", block.Start+i)
				}
				var itemBuf strings.Builder
				writePlainBlocks(&itemBuf, item.Children, "")
				lines := strings.Split(strings.TrimRight(itemBuf.String(), "\n"), "\n")
				for j, line := range lines {
					prefix := strings.Repeat(" ", len(marker))
					if j == 0 {
						prefix = marker
					}
					b.WriteString(indent + prefix + line + "\n")
				}
			}
			b.WriteString("\n")
		case BlockQuote:
			writePlainBlocks(b, block.Children, indent+"> ")
		case BlockThematicBreak:
			b.WriteString(indent + "---\n\n")
		}
	}
}

func inlineText(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch in.Kind {
		case InlineText, InlineCode:
			b.WriteString(in.Text)
		case InlineImage:
			b.WriteString(in.Text)
		case InlineLineBreak:
			b.WriteString("\n")
		case InlineLink:
			text := inlineText(in.Children)
			b.WriteString(text)
			if in.URL != text {
				fmt.Fprintf(&b, " (%s)", in.URL)
			}
		default:
			b.WriteString(inlineText(in.Children))
		}
	}
	return b.String()
}

// RenderTerminal renders src with ANSI styling for a terminal of the given width.
// It falls back to PlainText if the styled renderer fails.
func RenderTerminal(src string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		out, renderErr := r.Render(src)
		if renderErr == nil {
			return out
		}
	}
	return PlainText(Parse(src))
}

// internal/markdown/markdown_test.go
package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Tree(t *testing.T) {
	doc := Parse("# Title\n\nSome **bold** and *soft* text with `code`.\n\n> quoted\n\n1. one\n2. two\n")

	require.Len(t, doc.Blocks, 4)

	heading := doc.Blocks[0]
	assert.Equal(t, BlockHeading, heading.Kind)
	assert.Equal(t, 1, heading.Level)
	assert.Equal(t, []Inline{{Kind: InlineText, Text: "Title"}}, heading.Inlines)

	para := doc.Blocks[1]
	assert.Equal(t, BlockParagraph, para.Kind)
	var kinds []InlineKind
	for _, in := range para.Inlines {
		kinds = append(kinds, in.Kind)
	}
	assert.Equal(t, []InlineKind{InlineText, InlineStrong, InlineText, InlineEmphasis, InlineText, InlineCode, InlineText}, kinds)
	assert.Equal(t, "code", para.Inlines[5].Text)

	quote := doc.Blocks[2]
	assert.Equal(t, BlockQuote, quote.Kind)
	require.Len(t, quote.Children, 1)
	assert.Equal(t, BlockParagraph, quote.Children[0].Kind)

	list := doc.Blocks[3]
	assert.Equal(t, BlockList, list.Kind)
	assert.True(t, list.Ordered)
	assert.Equal(t, 1, list.Start)
	require.Len(t, list.Children, 2)
	assert.True(t, list.Children[0].Children[0].Tight)
}

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "heading and bold",
			src:      "# Title\n\nSome **bold** text.",
			contains: []string{"<h1>Title</h1>", "<strong>bold</strong>", "<p>Some <strong>bold</strong> text.</p>"},
		},
		{
			name:     "header levels",
			src:      "## Two\n### Three\n#### Four",
			contains: []string{"<h2>Two</h2>", "<h3>Three</h3>", "<h4>Four</h4>"},
		},
		{
			name: "tagged and untagged fences render differently",
			src:  "```java\nint x = 1 < 2;\n```\n\n```\nplain\n```",
			contains: []string{
				`<pre class="code-block code-block--lang"><code class="language-java">int x = 1 &lt; 2;` + "\n</code></pre>",
				`<pre class="code-block code-block--plain"><code>plain` + "\n</code></pre>",
			},
		},
		{
			name:     "inline code is escaped",
			src:      "Use `List<T>` here.",
			contains: []string{"<code>List&lt;T&gt;</code>"},
		},
		{
			name:     "nested emphasis",
			src:      "***both*** and **bold with *italic* inside**",
			contains: []string{"<strong>bold with <em>italic</em> inside</strong>"},
		},
		{
			name:     "links open in a new browsing context",
			src:      "[docs](https://go.dev/doc)",
			contains: []string{`<a href="https://go.dev/doc" target="_blank" rel="noopener noreferrer">docs</a>`},
		},
		{
			name:     "dangerous links lose their target",
			src:      "[click](javascript:alert(1))",
			contains: []string{"<p>click</p>"},
			excludes: []string{"<a"},
		},
		{
			name:     "backslash escapes are resolved",
			src:      "Use \\*literal\\* stars",
			contains: []string{"<p>Use *literal* stars</p>"},
			excludes: []string{"<em>", "\\"},
		},
		{
			name:     "entity and numeric references are resolved once",
			src:      "AT&amp;T and &copy; 2024 &#35;1",
			contains: []string{"<p>AT&amp;T and \u00a9 2024 #1</p>"},
			excludes: []string{"&amp;amp;"},
		},
		{
			name:     "link titles are unescaped",
			src:      `[docs](https://go.dev "Tom &amp; \"Jerry\"")`,
			contains: []string{`title="Tom &amp; &#34;Jerry&#34;"`},
		},
		{
			name:     "escapes stay literal inside code spans",
			src:      "`a\\*b &amp;`",
			contains: []string{"<code>a\\*b &amp;amp;</code>"},
		},
		{
			name:     "unordered list",
			src:      "- one\n* two",
			contains: []string{"<ul>", "<li>one\n</li>"},
		},
		{
			name:     "ordered list with start",
			src:      "3. three\n4. four",
			contains: []string{`<ol start="3">`, "<li>four\n</li>", "</ol>"},
		},
		{
			name:     "list inside blockquote",
			src:      "> - quoted item",
			contains: []string{"<blockquote>\n<ul>\n<li>quoted item\n</li>\n</ul>\n</blockquote>"},
		},
		{
			name:     "single newline becomes a line break",
			src:      "first line\nsecond line\n\nnext paragraph",
			contains: []string{"<p>first line<br>\nsecond line</p>", "<p>next paragraph</p>"},
		},
		{
			name:     "raw html passes through as text",
			src:      "<script>alert(1)</script>\n\nhi <b>there</b>",
			contains: []string{"&lt;script&gt;alert(1)&lt;/script&gt;", "hi &lt;b&gt;there&lt;/b&gt;"},
			excludes: []string{"<script>", "<b>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ToHTML(tt.src)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestToHTML_MalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n",
		"```go\nfunc main() {\n",
		"**unclosed bold",
		"[broken link](",
		"> > > deeply\n>>>> nested",
		"- \n- \n-",
		"#######  seven hashes",
		"\x00\xff\xfe",
		"[x](<java\tscript:alert(1)>)",
		"[y](<\x01javascript:alert(1)>)",
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			ToHTML(in)
			PlainText(Parse(in))
		}, "input %q", in)
	}

	assert.Equal(t, "", ToHTML(""))
	assert.Contains(t, ToHTML("```go\nfunc main() {\n"), `<code class="language-go">func main() {`)
	assert.Contains(t, ToHTML("**unclosed bold"), "**unclosed bold")
}

func TestToHTML_UnsafeTargets(t *testing.T) {
	inputs := []string{
		"[x](javascript:alert(1))",
		"[x](JavaScript:alert(1))",
		"[x](<java\tscript:alert(1)>)",
		"[x](<\x01javascript:alert(1)>)",
		"[x](vbscript:msgbox(1))",
		"[x](data:text/html;base64,PHNjcmlwdD4=)",
		"[x](file:///etc/passwd)",
		"![img](<java\tscript:alert(1)>)",
		"![img](data:text/html,hi)",
	}

	for _, in := range inputs {
		out := ToHTML(in)
		assert.NotContains(t, out, "<a ", "input %q", in)
		assert.NotContains(t, out, "<img", "input %q", in)
		assert.NotContains(t, strings.ToLower(out), "script:", "input %q", in)
	}

	assert.Contains(t, ToHTML("[rel](/docs/a.md)"), `<a href="/docs/a.md"`)
	assert.Contains(t, ToHTML("[mail](mailto:team@example.com)"), `<a href="mailto:team@example.com"`)
	assert.Contains(t, ToHTML("![logo](https://go.dev/logo.png)"), `<img src="https://go.dev/logo.png" alt="logo">`)
}

func TestPlainText(t *testing.T) {
	out := PlainText(Parse("# Title\n\nSee [docs](https://go.dev).\n\n- a\n- b\n\n```\ncode\n```"))

	assert.True(t, strings.HasPrefix(out, "# Title\n\n"))
	assert.Contains(t, out, "See docs (https://go.dev).")
	assert.Contains(t, out, "- a\n- b\n")
	assert.Contains(t, out, "    code\n")
	assert.Equal(t, "", PlainText(Parse("")))
}

func TestRenderTerminal(t *testing.T) {
	out := RenderTerminal("# Wildcards\n\nUpper bounded.", 60)
	assert.Contains(t, out, "Wildcards")
	assert.Contains(t, out, "Upper bounded.")
}

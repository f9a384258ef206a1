// internal/markdown/tree.go
package markdown

// BlockKind identifies a block-level node.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockCode
	BlockList
	BlockListItem
	BlockQuote
	BlockThematicBreak
)

// Block is a node of the document tree. Which fields are meaningful depends on Kind.
type Block struct {
	Kind BlockKind

	// BlockHeading
	Level int

	// BlockCode. Language is empty for untagged fences and indented code.
	Language string
	Literal  string

	// BlockList
	Ordered bool
	Start   int

	// BlockParagraph inside a tight list item renders without <p>.
	Tight bool

	// BlockHeading, BlockParagraph
	Inlines []Inline

	// BlockList, BlockListItem, BlockQuote
	Children []*Block
}

// InlineKind identifies a span-level node.
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineCode
	InlineEmphasis
	InlineStrong
	InlineLink
	InlineImage
	InlineLineBreak
)

// Inline is a span inside a heading or paragraph.
type Inline struct {
	Kind InlineKind

	// InlineText, InlineCode, and the alt text of InlineImage
	Text string

	// InlineLink, InlineImage
	URL   string
	Title string

	// InlineEmphasis, InlineStrong, InlineLink
	Children []Inline
}

// Document is a parsed markdown source.
type Document struct {
	Blocks []*Block
}

//
// soldout-go Markdown Processor
// A Go-native core based on the libsoldout/upskirt lineage
// by Natacha Porté and Russ Ross.
//

package soldout

import "bytes"

// Extension is a bitwise-OR'ed collection of optional parsing behaviors.
type Extension uint32

// These are the supported markdown parsing extensions. OR these values
// together to select multiple extensions. Only ExtAutolink changes the
// core's inline dispatch table; the rest are carried so callers' flag
// values round-trip and future renderers may inspect them.
const (
	ExtNoIntraEmphasis Extension = 1 << iota
	ExtTables
	ExtFencedCode
	ExtAutolink
	ExtStrikethrough
	ExtLaxHTMLBlocks
	ExtSpaceHeaders
)

// AutolinkType classifies the span recognized by the '<' handler.
type AutolinkType int

// These are the possible values passed to the Autolink callback.
const (
	LinkNotAutolink AutolinkType = iota
	LinkNormal
	LinkExplicitEmail
	LinkImplicitEmail
)

// ListFlag carries bits describing a list or list item.
type ListFlag int

// These are the possible flag values for the List/ListItem callbacks.
// Multiple flag values may be ORed together.
const (
	ListTypeOrdered ListFlag = 1 << iota
	ListItemContainsBlock
	ListItemEndOfList
)

// TableAlignment carries bits describing a table cell's alignment.
// Declared-but-inert: no block parser in this package produces tables,
// but the constant is kept so a renderer written against this facade
// compiles against the same surface as the C ancestor's mkd_renderer.
type TableAlignment int

const (
	TableAlignLeft  TableAlignment = 1 << iota
	TableAlignRight
	TableAlignCenter = TableAlignLeft | TableAlignRight
)

// TAB_SIZE-equivalent: the size of a tab stop for expandTabs.
const tabSize = 4

// blockTags are the bare HTML tags recognized as block-level; markdown
// inside them is left alone rather than escaped. Not exercised by the
// core (no raw-HTML-block recognizer is implemented — LaxHTMLBlocks is
// declared but inert); nothing in this package reads it.
var blockTags = map[string]bool{
	"p": true, "dl": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "ol": true, "ul": true,
	"del": true, "div": true, "ins": true, "pre": true, "form": true,
	"math": true, "table": true, "iframe": true, "script": true,
	"fieldset": true, "noscript": true, "blockquote": true,
}

// Renderer is the rendering interface: a table of callbacks, one per
// syntactic construct, decoupling parsing from emission. A nil
// block-level field skips that block's rendering; a nil or
// zero-returning span-level field means "emit the raw span instead".
//
// This is mostly of interest if you are implementing a new output
// format — see the xhtml and manpage packages for two instantiations.
type Renderer struct {
	// block-level callbacks --- nil skips the block
	BlockCode  func(out *bytes.Buffer, text []byte, opaque interface{})
	BlockQuote func(out *bytes.Buffer, text []byte, opaque interface{})
	BlockHTML  func(out *bytes.Buffer, text []byte, opaque interface{})
	Header     func(out *bytes.Buffer, text []byte, level int, opaque interface{})
	HRule      func(out *bytes.Buffer, opaque interface{})
	List       func(out *bytes.Buffer, text []byte, flags ListFlag, opaque interface{})
	ListItem   func(out *bytes.Buffer, text []byte, flags ListFlag, opaque interface{})
	Paragraph  func(out *bytes.Buffer, text []byte, opaque interface{})

	// span-level callbacks --- nil or return 0 prints the span verbatim
	Autolink       func(out *bytes.Buffer, link []byte, kind AutolinkType, opaque interface{}) int
	CodeSpan       func(out *bytes.Buffer, text []byte, opaque interface{}) int
	DoubleEmphasis func(out *bytes.Buffer, text []byte, opaque interface{}) int
	Emphasis       func(out *bytes.Buffer, text []byte, delim byte, opaque interface{}) int
	Image          func(out *bytes.Buffer, link []byte, title []byte, alt []byte, opaque interface{}) int
	LineBreak      func(out *bytes.Buffer, opaque interface{}) int
	Link           func(out *bytes.Buffer, link []byte, title []byte, content []byte, opaque interface{}) int
	RawHTMLTag     func(out *bytes.Buffer, tag []byte, opaque interface{}) int
	TripleEmphasis func(out *bytes.Buffer, text []byte, opaque interface{}) int

	// low-level callbacks --- nil copies input directly into the output
	Entity     func(out *bytes.Buffer, entity []byte, opaque interface{})
	NormalText func(out *bytes.Buffer, text []byte, opaque interface{})

	// document header and footer, invoked once each around all block
	// emission
	Prolog func(out *bytes.Buffer, opaque interface{})
	Epilog func(out *bytes.Buffer, opaque interface{})

	// EmphasisChars declares which bytes act as emphasis delimiters.
	// Commonly "*_". An empty value disables emphasis recognition
	// regardless of whether Emphasis/DoubleEmphasis/TripleEmphasis are
	// set.
	EmphasisChars string

	// Opaque is user data threaded through to every callback.
	Opaque interface{}
}

type inlineHandler func(out *bytes.Buffer, rndr *render, data []byte, offset int) int

// render holds everything one invocation of Run needs: the renderer
// table, the resolved reference table, the 256-entry inline dispatch
// table, and nesting/extension bookkeeping. It lives for exactly one
// top-level parse.
type render struct {
	rndr       *Renderer
	refs       referenceTable
	inline     [256]inlineHandler
	ext        Extension
	nesting    int
	maxNesting int
}

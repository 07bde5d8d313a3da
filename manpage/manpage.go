// Package manpage renders parsed markdown as mdoc(7) manual page
// source, suitable for feeding to groff -mdoc.
package manpage

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/faelys/soldout-go"
)

// Metadata describes the manual page's header (the .Dd/.Dt/.Os trio).
type Metadata struct {
	Title   string
	Section int
	Date    time.Time
}

// dateString formats Date the way a mdoc .Dd line expects it, or uses
// the current date if Date is the zero value.
func (m Metadata) dateString() string {
	if m.Date.IsZero() {
		return time.Now().Format("January 2, 2006")
	}
	return m.Date.Format("January 2, 2006")
}

// New builds a soldout.Renderer emitting mdoc source with the given
// header metadata.
func New(m Metadata) *soldout.Renderer {
	if m.Section == 0 {
		m.Section = 1
	}
	return &soldout.Renderer{
		Prolog:         prologFor(m),
		Epilog:         epilog,
		BlockCode:      blockCode,
		BlockQuote:     blockQuote,
		Header:         header,
		List:           list,
		ListItem:       listItem,
		Paragraph:      paragraph,
		CodeSpan:       codeSpan,
		DoubleEmphasis: doubleEmphasis,
		Emphasis:       emphasis,
		LineBreak:      linebreak,
		NormalText:     normalText,
		EmphasisChars:  "*_",
	}
}

// Render is a convenience wrapper around soldout.Run using a renderer
// built from m.
func Render(input []byte, ext soldout.Extension, m Metadata) []byte {
	return soldout.Run(input, New(m), ext)
}

// escapeText copies src into ob, escaping the mdoc special character
// '-' as "\-" so literal hyphens don't get rendered as typographic
// minus signs.
func escapeText(ob *bytes.Buffer, src []byte) {
	for i := 0; i < len(src); i++ {
		if src[i] == '-' {
			ob.WriteString(`\-`)
		} else {
			ob.WriteByte(src[i])
		}
	}
}

func prologFor(m Metadata) func(ob *bytes.Buffer, opaque interface{}) {
	title := strings.ToUpper(m.Title)
	return func(ob *bytes.Buffer, opaque interface{}) {
		fmt.Fprintf(ob, ".\\\" Generated by soldout-go\n.Dd %s\n.Dt %s %d\n.Os",
			m.dateString(), title, m.Section)
	}
}

func epilog(ob *bytes.Buffer, opaque interface{}) {
	ob.WriteByte('\n')
}

func blockCode(ob *bytes.Buffer, text []byte, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	ob.WriteString(".Bd -literal\n")
	escapeText(ob, text)
	ob.WriteString(".Ed")
}

func blockQuote(ob *bytes.Buffer, text []byte, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	ob.WriteString(".Eo\n")
	escapeText(ob, text)
	ob.WriteString("\n.Ec")
}

func codeSpan(ob *bytes.Buffer, text []byte, opaque interface{}) int {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	ob.WriteString(".Bd -literal\n")
	escapeText(ob, text)
	ob.WriteString(".Ed")
	return 1
}

func header(ob *bytes.Buffer, text []byte, level int, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	switch level {
	case 1:
		ob.WriteString(".Sh ")
	case 2:
		ob.WriteString(".Ss ")
	default:
		ob.WriteString(".Pp\n.Em ")
	}
	ob.Write(text)
}

func doubleEmphasis(ob *bytes.Buffer, text []byte, opaque interface{}) int {
	if len(text) == 0 {
		return 0
	}
	ob.WriteString(`\fB`)
	ob.Write(text)
	ob.WriteString(`\fP`)
	return 1
}

func emphasis(ob *bytes.Buffer, text []byte, delim byte, opaque interface{}) int {
	if len(text) == 0 {
		return 0
	}
	ob.WriteString(`\fI`)
	ob.Write(text)
	ob.WriteString(`\fP`)
	return 1
}

func linebreak(ob *bytes.Buffer, opaque interface{}) int {
	ob.WriteString(".br")
	return 1
}

func paragraph(ob *bytes.Buffer, text []byte, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	ob.WriteString(".Pp\n")
	ob.Write(text)
}

func list(ob *bytes.Buffer, text []byte, flags soldout.ListFlag, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	if flags&soldout.ListTypeOrdered != 0 {
		ob.WriteString(".Bl -enum\n")
	} else {
		ob.WriteString(".Bl -bullet\n")
	}
	ob.Write(text)
	ob.WriteString(".El")
}

func listItem(ob *bytes.Buffer, text []byte, flags soldout.ListFlag, opaque interface{}) {
	ob.WriteString(".It\n")
	for len(text) > 0 && text[len(text)-1] == '\n' {
		text = text[:len(text)-1]
	}
	ob.Write(text)
	ob.WriteByte('\n')
}

func normalText(ob *bytes.Buffer, text []byte, opaque interface{}) {
	escapeText(ob, text)
}

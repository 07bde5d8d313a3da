// Package xhtml renders parsed markdown as XHTML 1.0, the generic
// renderer from the upskirt lineage with the strict self-closing tags
// of the XHTML variant (<hr />, <br />, <img ... />).
package xhtml

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/faelys/soldout-go"
)

// Options controls the document wrapper emitted around the rendered
// body. A zero Options renders a bare body with no prolog or epilog.
type Options struct {
	// Title, when non-empty, is escaped into a <title> element and
	// triggers emission of a full XHTML document (doctype, head,
	// body wrapper) instead of a bare fragment.
	Title string
}

// New builds a soldout.Renderer that emits XHTML 1.0. opts may be the
// zero value to render a bare fragment.
func New(opts Options) *soldout.Renderer {
	r := &soldout.Renderer{
		BlockCode:      blockCode,
		BlockQuote:     blockQuote,
		Header:         header,
		HRule:          hrule,
		List:           list,
		ListItem:       listItem,
		Paragraph:      paragraph,
		Autolink:       autolink,
		CodeSpan:       codeSpan,
		DoubleEmphasis: doubleEmphasis,
		Emphasis:       emphasis,
		Image:          image,
		LineBreak:      linebreak,
		Link:           link,
		RawHTMLTag:     rawHTMLTag,
		TripleEmphasis: tripleEmphasis,
		EmphasisChars:  "*_",
	}
	if opts.Title != "" {
		r.Prolog = prologFor(opts.Title)
		r.Epilog = epilog
	}
	return r
}

// Render is a convenience wrapper around soldout.Run using a renderer
// built from opts.
func Render(input []byte, ext soldout.Extension, opts Options) ([]byte, error) {
	r := New(opts)
	out := soldout.Run(input, r, ext)
	if out == nil {
		return nil, errors.New("xhtml: rendering produced no output")
	}
	return out, nil
}

func prologFor(title string) func(ob *bytes.Buffer, opaque interface{}) {
	return func(ob *bytes.Buffer, opaque interface{}) {
		ob.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
		ob.WriteString("<!DOCTYPE html PUBLIC \"-//W3C//DTD XHTML 1.0 Strict//EN\" ")
		ob.WriteString("\"http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd\">\n")
		ob.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\"><head><title>")
		escapeText(ob, []byte(title))
		ob.WriteString("</title></head><body>\n")
	}
}

func epilog(ob *bytes.Buffer, opaque interface{}) {
	ob.WriteString("</body></html>\n")
}

func blockCode(ob *bytes.Buffer, text []byte, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	ob.WriteString("<pre><code>")
	ob.Write(text)
	ob.WriteString("</code></pre>\n")
}

func blockQuote(ob *bytes.Buffer, text []byte, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	ob.WriteString("<blockquote>\n")
	ob.Write(text)
	ob.WriteString("</blockquote>\n")
}

func header(ob *bytes.Buffer, text []byte, level int, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	fmt.Fprintf(ob, "<h%d>", level)
	ob.Write(text)
	fmt.Fprintf(ob, "</h%d>\n", level)
}

func hrule(ob *bytes.Buffer, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	ob.WriteString("<hr />\n")
}

func list(ob *bytes.Buffer, text []byte, flags soldout.ListFlag, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	if flags&soldout.ListTypeOrdered != 0 {
		ob.WriteString("<ol>\n")
	} else {
		ob.WriteString("<ul>\n")
	}
	ob.Write(text)
	if flags&soldout.ListTypeOrdered != 0 {
		ob.WriteString("</ol>\n")
	} else {
		ob.WriteString("</ul>\n")
	}
}

func listItem(ob *bytes.Buffer, text []byte, flags soldout.ListFlag, opaque interface{}) {
	ob.WriteString("<li>")
	for len(text) > 0 && text[len(text)-1] == '\n' {
		text = text[:len(text)-1]
	}
	ob.Write(text)
	ob.WriteString("</li>\n")
}

func paragraph(ob *bytes.Buffer, text []byte, opaque interface{}) {
	if ob.Len() > 0 {
		ob.WriteByte('\n')
	}
	ob.WriteString("<p>")
	ob.Write(text)
	ob.WriteString("</p>\n")
}

func autolink(ob *bytes.Buffer, link []byte, kind soldout.AutolinkType, opaque interface{}) int {
	if len(link) == 0 {
		return 0
	}
	ob.WriteString("<a href=\"")
	if kind == soldout.LinkImplicitEmail {
		ob.WriteString("mailto:")
	}
	ob.Write(link)
	ob.WriteString("\">")
	if kind == soldout.LinkExplicitEmail && len(link) > 7 {
		ob.Write(link[7:])
	} else {
		ob.Write(link)
	}
	ob.WriteString("</a>")
	return 1
}

func codeSpan(ob *bytes.Buffer, text []byte, opaque interface{}) int {
	ob.WriteString("<code>")
	ob.Write(text)
	ob.WriteString("</code>")
	return 1
}

func doubleEmphasis(ob *bytes.Buffer, text []byte, opaque interface{}) int {
	if len(text) == 0 {
		return 0
	}
	ob.WriteString("<strong>")
	ob.Write(text)
	ob.WriteString("</strong>")
	return 1
}

func emphasis(ob *bytes.Buffer, text []byte, delim byte, opaque interface{}) int {
	if len(text) == 0 {
		return 0
	}
	ob.WriteString("<em>")
	ob.Write(text)
	ob.WriteString("</em>")
	return 1
}

func tripleEmphasis(ob *bytes.Buffer, text []byte, opaque interface{}) int {
	if len(text) == 0 {
		return 0
	}
	ob.WriteString("<strong><em>")
	ob.Write(text)
	ob.WriteString("</em></strong>")
	return 1
}

func image(ob *bytes.Buffer, link []byte, title []byte, alt []byte, opaque interface{}) int {
	if len(link) == 0 {
		return 0
	}
	ob.WriteString("<img src=\"")
	ob.Write(link)
	ob.WriteString("\" alt=\"")
	ob.Write(alt)
	if len(title) > 0 {
		ob.WriteString("\" title=\"")
		ob.Write(title)
	}
	ob.WriteString("\" />")
	return 1
}

func linebreak(ob *bytes.Buffer, opaque interface{}) int {
	ob.WriteString("<br />\n")
	return 1
}

func link(ob *bytes.Buffer, linkURL []byte, title []byte, content []byte, opaque interface{}) int {
	ob.WriteString("<a href=\"")
	ob.Write(linkURL)
	if len(title) > 0 {
		ob.WriteString("\" title=\"")
		ob.Write(title)
	}
	ob.WriteString("\">")
	ob.Write(content)
	ob.WriteString("</a>")
	return 1
}

func rawHTMLTag(ob *bytes.Buffer, tag []byte, opaque interface{}) int {
	ob.Write(tag)
	return 1
}

func escapeText(ob *bytes.Buffer, data []byte) {
	for _, c := range data {
		switch c {
		case '&':
			ob.WriteString("&amp;")
		case '<':
			ob.WriteString("&lt;")
		case '>':
			ob.WriteString("&gt;")
		default:
			ob.WriteByte(c)
		}
	}
}

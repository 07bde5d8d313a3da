package soldout

import (
	"bytes"
	"testing"
)

// testRenderer returns a minimal Renderer emitting a compact, easy to
// assert on textual trace of which callbacks fired and with what
// content, rather than real markup.
func testRenderer() *Renderer {
	return &Renderer{
		BlockCode:  func(out *bytes.Buffer, text []byte, opaque interface{}) { out.WriteString("<code>" + string(text) + "</code>\n") },
		BlockQuote: func(out *bytes.Buffer, text []byte, opaque interface{}) { out.WriteString("<quote>" + string(text) + "</quote>\n") },
		Header: func(out *bytes.Buffer, text []byte, level int, opaque interface{}) {
			out.WriteString("<h>")
			out.Write(text)
			out.WriteString("</h>\n")
		},
		HRule: func(out *bytes.Buffer, opaque interface{}) { out.WriteString("<hr>\n") },
		List: func(out *bytes.Buffer, text []byte, flags ListFlag, opaque interface{}) {
			out.WriteString("<list>")
			out.Write(text)
			out.WriteString("</list>\n")
		},
		ListItem: func(out *bytes.Buffer, text []byte, flags ListFlag, opaque interface{}) {
			for len(text) > 0 && text[len(text)-1] == '\n' {
				text = text[:len(text)-1]
			}
			out.WriteString("<item>")
			out.Write(text)
			out.WriteString("</item>\n")
		},
		Paragraph: func(out *bytes.Buffer, text []byte, opaque interface{}) {
			out.WriteString("<p>")
			out.Write(text)
			out.WriteString("</p>\n")
		},
		Autolink: func(out *bytes.Buffer, link []byte, kind AutolinkType, opaque interface{}) int {
			out.WriteString("<a>")
			out.Write(link)
			out.WriteString("</a>")
			return 1
		},
		CodeSpan: func(out *bytes.Buffer, text []byte, opaque interface{}) int {
			out.WriteString("<c>")
			out.Write(text)
			out.WriteString("</c>")
			return 1
		},
		DoubleEmphasis: func(out *bytes.Buffer, text []byte, opaque interface{}) int {
			out.WriteString("<b>")
			out.Write(text)
			out.WriteString("</b>")
			return 1
		},
		Emphasis: func(out *bytes.Buffer, text []byte, delim byte, opaque interface{}) int {
			out.WriteString("<i>")
			out.Write(text)
			out.WriteString("</i>")
			return 1
		},
		Link: func(out *bytes.Buffer, link []byte, title []byte, content []byte, opaque interface{}) int {
			out.WriteString("<l href=")
			out.Write(link)
			out.WriteString(">")
			out.Write(content)
			out.WriteString("</l>")
			return 1
		},
		TripleEmphasis: func(out *bytes.Buffer, text []byte, opaque interface{}) int {
			out.WriteString("<bi>")
			out.Write(text)
			out.WriteString("</bi>")
			return 1
		},
		EmphasisChars: "*_",
	}
}

func TestRunParagraph(t *testing.T) {
	out := Run([]byte("hello world\n"), testRenderer(), 0)
	if string(out) != "<p>hello world</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunATXHeader(t *testing.T) {
	out := Run([]byte("# Title\n"), testRenderer(), 0)
	if string(out) != "<h>Title</h>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunSetextHeader(t *testing.T) {
	out := Run([]byte("Title\n=====\n"), testRenderer(), 0)
	if string(out) != "<h>Title</h>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunHRule(t *testing.T) {
	out := Run([]byte("***\n"), testRenderer(), 0)
	if string(out) != "<hr>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunBlockQuote(t *testing.T) {
	out := Run([]byte("> quoted text\n"), testRenderer(), 0)
	if string(out) != "<quote><p>quoted text</p>\n</quote>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunBlockCode(t *testing.T) {
	out := Run([]byte("    some code\n"), testRenderer(), 0)
	if string(out) != "<code>some code\n</code>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunUnorderedList(t *testing.T) {
	out := Run([]byte("* one\n* two\n"), testRenderer(), 0)
	if string(out) != "<list><item>one</item>\n<item>two</item>\n</list>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunEmphasis(t *testing.T) {
	out := Run([]byte("a *b* c\n"), testRenderer(), 0)
	if string(out) != "<p>a <i>b</i> c</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunDoubleEmphasis(t *testing.T) {
	out := Run([]byte("a **b** c\n"), testRenderer(), 0)
	if string(out) != "<p>a <b>b</b> c</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunTripleEmphasis(t *testing.T) {
	// literal "***x***": opening run of three identical delimiters,
	// routed through parseEmph3's own closing-run-of-three branch.
	out := Run([]byte("a ***b*** c\n"), testRenderer(), 0)
	if string(out) != "<p>a <bi>b</bi> c</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunEmphasisAsymmetricNesting(t *testing.T) {
	// "**_x_**": the opening run is two '*', so this never reaches
	// parseEmph3 at all — parseEmph2 closes on the outer "**" and
	// recurses into parseInline on "_b_", nesting Emphasis inside
	// DoubleEmphasis instead of firing TripleEmphasis.
	out := Run([]byte("a **_b_** c\n"), testRenderer(), 0)
	if string(out) != "<p>a <b><i>b</i></b> c</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunCodeSpan(t *testing.T) {
	out := Run([]byte("a `code` c\n"), testRenderer(), 0)
	if string(out) != "<p>a <c>code</c> c</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunLink(t *testing.T) {
	out := Run([]byte("see [golang](http://golang.org)\n"), testRenderer(), 0)
	if string(out) != "<p>see <l href=http://golang.org>golang</l></p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunReferenceLink(t *testing.T) {
	input := "see [golang][go]\n\n[go]: http://golang.org \"Go\"\n"
	out := Run([]byte(input), testRenderer(), 0)
	if string(out) != "<p>see <l href=http://golang.org>golang</l></p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunAutolinkExtension(t *testing.T) {
	out := Run([]byte("visit http://example.com now\n"), testRenderer(), ExtAutolink)
	if string(out) != "<p>visit <a>http://example.com</a> now</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunAutolinkAngleBrackets(t *testing.T) {
	out := Run([]byte("<http://example.com>\n"), testRenderer(), 0)
	if string(out) != "<p><a>http://example.com</a></p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunNilRenderer(t *testing.T) {
	if out := Run([]byte("hello\n"), nil, 0); out != nil {
		t.Errorf("Run with nil renderer should return nil, got %q", out)
	}
}

func TestRunCRLFNormalization(t *testing.T) {
	out := Run([]byte("one\r\ntwo\r\n"), testRenderer(), 0)
	if string(out) != "<p>one\ntwo</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunLoneTrailingCR(t *testing.T) {
	// a bare '\r' with nothing after it: the per-character
	// normalization loop itself emits no '\n' for it (there's no
	// following byte to confirm it isn't half of a CRLF pair), but
	// Run's own trailing-newline safety net still closes the
	// paragraph correctly.
	out := Run([]byte("hello\r"), testRenderer(), 0)
	if string(out) != "<p>hello</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunCRImmediatelyAfterLFAtEOF(t *testing.T) {
	// a '\r' immediately following a '\n', both at end of input: the
	// '\n' is written for the '\n' itself, and the trailing '\r' again
	// has no following byte to check, so it contributes nothing.
	out := Run([]byte("hello\n\r"), testRenderer(), 0)
	if string(out) != "<p>hello</p>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunLineBreak(t *testing.T) {
	r := testRenderer()
	r.LineBreak = func(out *bytes.Buffer, opaque interface{}) int {
		out.WriteString("<br>")
		return 1
	}
	out := Run([]byte("one  \ntwo\n"), r, 0)
	if string(out) != "<p>one <br>two</p>\n" {
		t.Errorf("got %q", out)
	}
}

package soldout

import "bytes"

const inlineWorkUnit = 64

//
// Inline parsing
//
// parseInline walks a span of bytes, emitting verbatim runs of inactive
// bytes and dispatching active bytes to their registered handler. A
// handler returning zero means "no match"; the caller emits the byte
// raw and advances by one.
//

func parseInline(ob *bytes.Buffer, rndr *render, data []byte) {
	if rndr.nesting >= rndr.maxNesting {
		return
	}
	rndr.nesting++
	defer func() { rndr.nesting-- }()

	i, size := 0, len(data)
	for i < size {
		// copy inactive bytes straight through
		start := i
		for i < size && rndr.inline[data[i]] == nil {
			i++
		}
		if i > start {
			if rndr.rndr.NormalText != nil {
				rndr.rndr.NormalText(ob, data[start:i], rndr.rndr.Opaque)
			} else {
				ob.Write(data[start:i])
			}
		}
		if i >= size {
			break
		}

		n := rndr.inline[data[i]](ob, rndr, data[i:], i)
		if n == 0 {
			// no handler match: emit the byte verbatim and advance
			ob.WriteByte(data[i])
			i++
		} else {
			i += n
		}
	}
}

//
// Emphasis
//

// findEmphChar looks for the next occurrence of c, skipping over code
// spans and links so that emphasis doesn't straddle those constructs.
func findEmphChar(data []byte, c byte) int {
	i := 1
	size := len(data)

	for i < size {
		for i < size && data[i] != c && data[i] != '`' && data[i] != '[' {
			i++
		}
		if i >= size {
			return 0
		}
		if data[i] == c {
			return i
		}

		if data[i-1] == '\\' {
			i++
			continue
		}

		if data[i] == '`' {
			tmpI := 0
			i++
			for i < size && data[i] != '`' {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			if i >= size {
				return tmpI
			}
			i++
		} else if data[i] == '[' {
			tmpI := 0
			i++
			for i < size && data[i] != ']' {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			i++
			for i < size && (data[i] == ' ' || data[i] == '\t' || data[i] == '\n') {
				i++
			}
			if i >= size {
				return tmpI
			}
			if data[i] != '[' && data[i] != '(' {
				if tmpI != 0 {
					return tmpI
				}
				continue
			}
			cc := data[i]
			i++
			for i < size && data[i] != cc {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			if i >= size {
				return tmpI
			}
			i++
		}
	}
	return 0
}

// parseEmph1 parses single emphasis, closed by a delimiter that is not
// preceded by whitespace and not itself followed by another delimiter.
func parseEmph1(ob *bytes.Buffer, rndr *render, data []byte, c byte) int {
	if rndr.rndr.Emphasis == nil {
		return 0
	}

	i := 0
	size := len(data)
	// skip one symbol if coming from emph3
	if size > 1 && data[0] == c && data[1] == c {
		i = 1
	}

	for i < size {
		length := findEmphChar(data[i:], c)
		if length == 0 {
			return 0
		}
		i += length
		if i >= size {
			return 0
		}

		if i+1 < size && data[i+1] == c {
			i++
			continue
		}
		if data[i] == c && !isspace(data[i-1]) {
			work := new(bytes.Buffer)
			parseInline(work, rndr, data[:i])
			if rndr.rndr.Emphasis(ob, work.Bytes(), c, rndr.rndr.Opaque) == 0 {
				return 0
			}
			return i + 1
		}
	}
	return 0
}

// parseEmph2 parses double emphasis (strong).
func parseEmph2(ob *bytes.Buffer, rndr *render, data []byte, c byte) int {
	if rndr.rndr.DoubleEmphasis == nil {
		return 0
	}

	i := 0
	size := len(data)
	for i < size {
		length := findEmphChar(data[i:], c)
		if length == 0 {
			return 0
		}
		i += length
		if i+1 < size && data[i] == c && data[i+1] == c && i > 0 && !isspace(data[i-1]) {
			work := new(bytes.Buffer)
			parseInline(work, rndr, data[:i])
			if rndr.rndr.DoubleEmphasis(ob, work.Bytes(), rndr.rndr.Opaque) == 0 {
				return 0
			}
			return i + 2
		}
		i++
	}
	return 0
}

// parseEmph3 parses triple emphasis, finding the first closing run and
// delegating to emph1/emph2 when only a shorter run closes there.
func parseEmph3(ob *bytes.Buffer, rndr *render, data []byte, c byte) int {
	i := 0
	size := len(data)

	for i < size {
		length := findEmphChar(data[i:], c)
		if length == 0 {
			return 0
		}
		i += length

		if data[i] != c || isspace(data[i-1]) {
			continue
		}

		if i+2 < size && data[i+1] == c && data[i+2] == c && rndr.rndr.TripleEmphasis != nil {
			work := new(bytes.Buffer)
			parseInline(work, rndr, data[:i])
			if rndr.rndr.TripleEmphasis(ob, work.Bytes(), rndr.rndr.Opaque) == 0 {
				return 0
			}
			return i + 3
		} else if i+1 < size && data[i+1] == c {
			// double symbol found at i: hand over to emph1 with the
			// window widened two bytes to the left, so it sees the
			// two unconsumed delimiters of the original triple run as
			// its own opening pair (mirrors the C source's
			// parse_emph1(data - 2, size + 2, c) pointer arithmetic).
			length = parseEmph1(ob, rndr, prependDelim(data, c, 2), c)
			if length == 0 {
				return 0
			}
			return length - 2
		} else {
			// single symbol found at i: hand over to emph2 with the
			// window widened one byte to the left (mirrors
			// parse_emph2(data - 1, size + 1, c)).
			length = parseEmph2(ob, rndr, prependDelim(data, c, 1), c)
			if length == 0 {
				return 0
			}
			return length - 1
		}
	}
	return 0
}

// prependDelim returns data with n copies of c prepended, standing in
// for the C source's negative pointer offsets (the n bytes immediately
// before an emph3 window are always copies of its opening delimiter).
func prependDelim(data []byte, c byte, n int) []byte {
	widened := make([]byte, 0, len(data)+n)
	for k := 0; k < n; k++ {
		widened = append(widened, c)
	}
	return append(widened, data...)
}

// charEmphasis is the dispatch entry for every declared emphasis
// delimiter byte.
func charEmphasis(ob *bytes.Buffer, rndr *render, data []byte, offset int) int {
	c := data[0]
	size := len(data)

	if size > 2 && data[1] != c {
		// whitespace cannot follow an opening emphasis
		if isspace(data[1]) {
			return 0
		}
		ret := parseEmph1(ob, rndr, data[1:], c)
		if ret == 0 {
			return 0
		}
		return ret + 1
	}
	if size > 3 && data[1] == c && data[2] != c {
		if isspace(data[2]) {
			return 0
		}
		ret := parseEmph2(ob, rndr, data[2:], c)
		if ret == 0 {
			return 0
		}
		return ret + 2
	}
	if size > 4 && data[1] == c && data[2] == c && data[3] != c {
		if isspace(data[3]) {
			return 0
		}
		ret := parseEmph3(ob, rndr, data[3:], c)
		if ret == 0 {
			return 0
		}
		return ret + 3
	}
	return 0
}

//
// Line break: '\n' preceded by two spaces
//

// charLineBreak fires on a '\n' reached by the active-byte dispatch and
// checks whether it was preceded by two literal spaces (a hard break in
// the Markdown sense). The preceding bytes are read back from ob rather
// than data, since both have already been written by the time this
// handler runs.
func charLineBreak(ob *bytes.Buffer, rndr *render, data []byte, offset int) int {
	if rndr.rndr.LineBreak == nil {
		return 0
	}
	if offset < 2 {
		return 0
	}
	out := ob.Bytes()
	if len(out) < 2 || out[len(out)-1] != ' ' || out[len(out)-2] != ' ' {
		return 0
	}
	// strip the trailing space already written to ob
	ob.Truncate(ob.Len() - 1)
	if rndr.rndr.LineBreak(ob, rndr.rndr.Opaque) == 0 {
		ob.WriteByte(' ')
		return 0
	}
	return 1
}

//
// Code span: a run of N backticks, closed by the next run of exactly N
//

func charCodeSpan(ob *bytes.Buffer, rndr *render, data []byte, offset int) int {
	size := len(data)
	nb := 0
	for nb < size && data[nb] == '`' {
		nb++
	}

	// find the closing run of exactly nb backticks
	i, end := 0, nb
	for end < size && i < nb {
		if data[end] == '`' {
			i++
		} else {
			i = 0
		}
		end++
		if i == nb && end < size && data[end] == '`' {
			// a longer run of backticks does not close the span
			for end < size && data[end] == '`' {
				end++
			}
			i = 0
		}
	}
	if i < nb && end >= size {
		return 0
	}

	fBegin := nb
	for fBegin < end-nb && (data[fBegin] == ' ' || data[fBegin] == '\t') {
		fBegin++
	}
	fEnd := end - nb
	for fEnd > fBegin && (data[fEnd-1] == ' ' || data[fEnd-1] == '\t') {
		fEnd--
	}

	var content []byte
	if fBegin < fEnd {
		work := new(bytes.Buffer)
		htmlEscape(work, data[fBegin:fEnd])
		content = work.Bytes()
	}
	if rndr.rndr.CodeSpan == nil || rndr.rndr.CodeSpan(ob, content, rndr.rndr.Opaque) == 0 {
		return 0
	}
	return end
}

//
// Escape: '\' followed by one literal byte
//

func charEscape(ob *bytes.Buffer, rndr *render, data []byte, offset int) int {
	if len(data) <= 1 {
		return 0
	}
	c := data[1]
	if c == '<' || c == '>' || c == '&' {
		htmlEscape(ob, data[1:2])
	} else {
		ob.WriteByte(c)
	}
	return 2
}

//
// Entity: '&#?[A-Za-z0-9]+;' is emitted verbatim; otherwise '&' becomes
// '&amp;' and parsing resumes at the next byte.
//

func charEntity(ob *bytes.Buffer, rndr *render, data []byte, offset int) int {
	end := 1
	size := len(data)
	if end < size && data[end] == '#' {
		end++
	}
	start := end
	for end < size && isalnum(data[end]) {
		end++
	}
	if end > start && end < size && data[end] == ';' {
		ob.Write(data[:end+1])
		return end + 1
	}
	ob.WriteString("&amp;")
	return 1
}

//
// Bare '>' is always escaped
//

func charRAngle(ob *bytes.Buffer, rndr *render, data []byte, offset int) int {
	ob.WriteString("&gt;")
	return 1
}

//
// '<': raw tags and autolinks
//

// isMailAutolink looks for the address part of a mail autolink and the
// closing '>'. Address is assumed to be [-@._a-zA-Z0-9]+ with exactly
// one '@'.
func isMailAutolink(data []byte) int {
	i, nb := 0, 0
	for i < len(data) {
		c := data[i]
		if c == '-' || c == '.' || c == '_' || c == '@' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			if c == '@' {
				nb++
			}
			i++
			continue
		}
		break
	}
	if i >= len(data) || data[i] != '>' || nb != 1 {
		return 0
	}
	return i + 1
}

func hasPrefixFold(data []byte, prefix string) bool {
	if len(data) < len(prefix) {
		return false
	}
	return bytes.EqualFold(data[:len(prefix)], []byte(prefix))
}

// tagLength returns the length of the tag/autolink starting at data[0]
// (which must be '<'), or 0 if data does not contain a valid one.
func tagLength(data []byte) (int, AutolinkType) {
	size := len(data)
	if size < 3 {
		return 0, LinkNotAutolink
	}
	if data[0] != '<' {
		return 0, LinkNotAutolink
	}
	i := 1
	if data[1] == '/' {
		i = 2
	}
	if !((data[i] >= 'a' && data[i] <= 'z') || (data[i] >= 'A' && data[i] <= 'Z')) {
		return 0, LinkNotAutolink
	}

	autolink := LinkNotAutolink
	switch {
	case size > 6 && hasPrefixFold(data[1:], "http") && (data[5] == ':' || ((data[5] == 's' || data[5] == 'S') && data[6] == ':')):
		if data[5] == ':' {
			i = 6
		} else {
			i = 7
		}
		autolink = LinkNormal
	case size > 5 && hasPrefixFold(data[1:], "ftp:"):
		i = 5
		autolink = LinkNormal
	case size > 7 && hasPrefixFold(data[1:], "mailto:"):
		i = 8
		// autolink stays LinkNotAutolink; resolved by the mail test below
	}

	if i >= size {
		return 0, LinkNotAutolink
	}
	if autolink != LinkNotAutolink {
		j := i
		for i < size && data[i] != '>' && data[i] != '\'' && data[i] != '"' && data[i] != ' ' && data[i] != '\t' {
			i++
		}
		if i >= size {
			return 0, LinkNotAutolink
		}
		if i > j && data[i] == '>' {
			return i + 1, autolink
		}
		autolink = LinkNotAutolink
	} else if j := isMailAutolink(data[i:]); j != 0 {
		if i == 8 {
			autolink = LinkExplicitEmail // "<mailto:addr>"
		} else {
			autolink = LinkImplicitEmail // bare "<addr>"
		}
		return i + j, autolink
	}

	for i < size && data[i] != '>' {
		i++
	}
	if i >= size {
		return 0, LinkNotAutolink
	}
	return i + 1, LinkNotAutolink
}

func charLangle(ob *bytes.Buffer, rndr *render, data []byte, offset int) int {
	end, autolink := tagLength(data)
	if end == 0 {
		ob.WriteString("&lt;")
		return 1
	}
	if rndr.rndr.Autolink != nil && autolink != LinkNotAutolink {
		work := new(bytes.Buffer)
		attrEscape(work, data[1:end-1])
		if rndr.rndr.Autolink(ob, work.Bytes(), autolink, rndr.rndr.Opaque) == 0 {
			ob.WriteString("&lt;")
			return 1
		}
		return end
	}
	if rndr.rndr.RawHTMLTag != nil {
		if rndr.rndr.RawHTMLTag(ob, data[:end], rndr.rndr.Opaque) == 0 {
			ob.WriteString("&lt;")
			return 1
		}
		return end
	}
	ob.WriteString("&lt;")
	return 1
}

//
// Link / image: '['
//

func charLink(ob *bytes.Buffer, rndr *render, data []byte, offset int) int {
	// The '!' prefix (if any) was already emitted to ob by the caller's
	// verbatim-run copy before this handler ran; detect it there since
	// Go slices can't look behind data[0] the way data[-1] does in C.
	isImg := offset > 0 && ob.Len() > 0 && ob.Bytes()[ob.Len()-1] == '!'

	size := len(data)
	if (isImg && rndr.rndr.Image == nil) || (!isImg && rndr.rndr.Link == nil) {
		return 0
	}

	i := 1
	for i < size && (data[i] != ']' || data[i-1] == '\\') {
		i++
	}
	if i >= size {
		return 0
	}
	txtE := i
	i++

	for i < size && (data[i] == ' ' || data[i] == '\t' || data[i] == '\n') {
		i++
	}
	if i >= size {
		return 0
	}

	var link, title []byte
	linkB, linkE, titleB, titleE := 0, 0, 0, 0

	if data[i] == '(' {
		i++
		for i < size && (data[i] == ' ' || data[i] == '\t') {
			i++
		}
		linkB = i
		for i < size && data[i] != '\'' && data[i] != '"' && data[i] != ')' {
			i++
		}
		if i >= size {
			return 0
		}
		linkE = i

		if data[i] == '\'' || data[i] == '"' {
			i++
			titleB = i
			for i < size && data[i] != '\'' && data[i] != '"' && data[i] != ')' {
				i++
			}
			if i >= size {
				return 0
			}
			if data[i] == ')' {
				titleB = 0
				linkE = i
			} else {
				titleE = i
				i++
				for i < size && (data[i] == ' ' || data[i] == '\t') {
					i++
				}
				if i >= size || data[i] != ')' {
					return 0
				}
			}
		}

		for linkE > linkB && (data[linkE-1] == ' ' || data[linkE-1] == '\t') {
			linkE--
		}

		if linkE > linkB {
			work := new(bytes.Buffer)
			attrEscape(work, data[linkB:linkE])
			link = work.Bytes()
		}
		if titleE > titleB {
			work := new(bytes.Buffer)
			attrEscape(work, data[titleB:titleE])
			title = work.Bytes()
		}
		i++
	} else if data[i] == '[' {
		i++
		linkB = i
		for i < size && data[i] != ']' {
			i++
		}
		if i >= size {
			return 0
		}
		linkE = i

		var id []byte
		if linkB == linkE {
			id = data[1:txtE]
		} else {
			id = data[linkB:linkE]
		}
		ref := rndr.refs.search(id)
		if ref == nil {
			return 0
		}
		link = ref.link
		title = ref.title
		i++
	} else {
		return 0
	}

	var content []byte
	if txtE > 1 {
		work := new(bytes.Buffer)
		if isImg {
			attrEscape(work, data[1:txtE])
		} else {
			parseInline(work, rndr, data[1:txtE])
		}
		content = work.Bytes()
	}

	if isImg {
		if ob.Len() > 0 && ob.Bytes()[ob.Len()-1] == '!' {
			ob.Truncate(ob.Len() - 1)
		}
		if rndr.rndr.Image(ob, link, title, content, rndr.rndr.Opaque) == 0 {
			ob.WriteByte('!')
			return 0
		}
	} else {
		if rndr.rndr.Link(ob, link, title, content, rndr.rndr.Opaque) == 0 {
			return 0
		}
	}
	return i
}

// buildInlineTable fills in a 256-entry dispatch table from the
// capabilities declared on rndr: emphasis, code span, line break and
// link/image handlers are only installed when the renderer has the
// matching callback; the '<', '>', '&' and '\\' handlers are always
// installed.
func buildInlineTable(rndr *render) {
	if rndr.rndr.Emphasis != nil || rndr.rndr.DoubleEmphasis != nil || rndr.rndr.TripleEmphasis != nil {
		for i := 0; i < len(rndr.rndr.EmphasisChars); i++ {
			rndr.inline[rndr.rndr.EmphasisChars[i]] = charEmphasis
		}
	}
	if rndr.rndr.CodeSpan != nil {
		rndr.inline['`'] = charCodeSpan
	}
	if rndr.rndr.LineBreak != nil {
		rndr.inline['\n'] = charLineBreak
	}
	if rndr.rndr.Image != nil || rndr.rndr.Link != nil {
		rndr.inline['['] = charLink
	}
	rndr.inline['<'] = charLangle
	rndr.inline['>'] = charRAngle
	rndr.inline['&'] = charEntity
	rndr.inline['\\'] = charEscape
}

//
// soldout-go Markdown Processor
// A Go-native core based on the libsoldout/upskirt lineage
// by Natacha Porté and Russ Ross.
//

package soldout

import "bytes"

// Run parses the markdown document in input and renders it with
// rndr's callbacks, returning the resulting output. ext selects which
// optional behaviors are enabled; see the Ext* constants.
//
// Run performs two passes over the document: the first scans for
// link-reference definitions (storing them in a sorted table) and
// normalizes line endings, expanding tabs as it goes; the second
// recursively classifies and renders the normalized text block by
// block, dispatching inline spans through the 256-entry active-byte
// table built from rndr's non-nil callbacks.
func Run(input []byte, rndr *Renderer, ext Extension) []byte {
	if rndr == nil {
		return nil
	}

	r := &render{
		rndr:       rndr,
		maxNesting: 16,
		ext:        ext,
	}
	buildInlineTable(r)
	if ext&ExtAutolink != 0 {
		r.inline['h'] = charAutolink // http, https
		r.inline['H'] = charAutolink
		r.inline['f'] = charAutolink // ftp
		r.inline['F'] = charAutolink
		r.inline['m'] = charAutolink // mailto
		r.inline['M'] = charAutolink
	}

	// first pass: strip out reference definitions, normalize every
	// remaining line's ending to a single '\n', expanding tabs
	text := new(bytes.Buffer)
	beg := 0
	for beg < len(input) {
		if end := isReference(r, input[beg:]); end > 0 {
			beg += end
			continue
		}
		end := beg
		for end < len(input) && input[end] != '\n' && input[end] != '\r' {
			end++
		}
		if end > beg {
			expandTabs(text, input[beg:end])
		}
		for end < len(input) && (input[end] == '\n' || input[end] == '\r') {
			if input[end] == '\n' ||
				((end == 0 || input[end-1] != '\n') && end+1 < len(input) && input[end+1] != '\n') {
				text.WriteByte('\n')
			}
			end++
		}
		beg = end
	}

	// second pass: block-level rendering of the normalized text
	output := new(bytes.Buffer)
	if rndr.Prolog != nil {
		rndr.Prolog(output, rndr.Opaque)
	}

	if text.Len() > 0 {
		body := text.Bytes()
		if last := body[len(body)-1]; last != '\n' && last != '\r' {
			text.WriteByte('\n')
			body = text.Bytes()
		}
		parseBlock(output, r, body)
	}

	if rndr.Epilog != nil {
		rndr.Epilog(output, rndr.Opaque)
	}

	if r.nesting != 0 {
		panic("soldout: nesting level did not end at zero")
	}

	if output.Len() == 0 {
		return []byte{}
	}
	return output.Bytes()
}

// charAutolink recognizes a bare "http://...", "https://...", "ftp://..."
// or "mailto:..." URL not wrapped in angle brackets, active only when
// ExtAutolink is set.
func charAutolink(ob *bytes.Buffer, rndr *render, data []byte, offset int) int {
	if rndr.rndr.Autolink == nil {
		return 0
	}

	// require a word boundary to the left: start of buffer, or the
	// previous output byte is not alphanumeric
	if ob.Len() > 0 && isalnum(ob.Bytes()[ob.Len()-1]) {
		return 0
	}

	var end int
	switch {
	case hasPrefixFold(data, "mailto:"):
		end = scanBareAutolink(data, len("mailto:"))
	case hasPrefixFold(data, "http://"):
		end = scanBareAutolink(data, len("http://"))
	case hasPrefixFold(data, "https://"):
		end = scanBareAutolink(data, len("https://"))
	case hasPrefixFold(data, "ftp://"):
		end = scanBareAutolink(data, len("ftp://"))
	default:
		return 0
	}
	if end == 0 {
		return 0
	}

	// trim common trailing punctuation that's probably not part of the URL
	for end > 0 {
		switch data[end-1] {
		case '.', ',', ';', ')', '!', '?':
			end--
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}

	work := new(bytes.Buffer)
	attrEscape(work, data[:end])
	if rndr.rndr.Autolink(ob, work.Bytes(), LinkNormal, rndr.rndr.Opaque) == 0 {
		return 0
	}
	return end
}

// scanBareAutolink scans forward from prefixLen past a run of non-space,
// non-angle-bracket bytes, returning the total span length, or 0 if the
// scheme prefix is immediately followed by nothing usable.
func scanBareAutolink(data []byte, prefixLen int) int {
	i := prefixLen
	for i < len(data) && !isspace(data[i]) && data[i] != '<' && data[i] != '>' {
		i++
	}
	if i <= prefixLen {
		return 0
	}
	return i
}

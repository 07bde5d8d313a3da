package soldout

import "bytes"

const blockWorkUnit = 64

//
// Block-level parsing
//

// isEmpty reports whether the line (up to the first '\n') is blank.
func isEmpty(data []byte) bool {
	for i := 0; i < len(data) && data[i] != '\n'; i++ {
		if data[i] != ' ' && data[i] != '\t' {
			return false
		}
	}
	return true
}

// isHRule reports whether a line is a horizontal rule: after up to
// three leading spaces, at least three copies of one of '*', '-', '_',
// interspersed only with spaces/tabs.
func isHRule(data []byte) bool {
	i, n := 0, 0
	if len(data) < 3 {
		return false
	}
	if data[0] == ' ' {
		i++
		if data[1] == ' ' {
			i++
			if data[2] == ' ' {
				i++
			}
		}
	}

	if i+2 >= len(data) || (data[i] != '*' && data[i] != '-' && data[i] != '_') {
		return false
	}
	c := data[i]

	for i < len(data) && data[i] != '\n' {
		switch {
		case data[i] == c:
			n++
		case data[i] != ' ' && data[i] != '\t':
			return false
		}
		i++
	}
	return n >= 3
}

// isHeaderLine returns the setext header level (1 for '=', 2 for '-')
// if the line is solely an underline of that character, or 0.
func isHeaderLine(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	i := 0
	if data[0] == '=' {
		for i = 1; i < len(data) && data[i] == '='; i++ {
		}
		for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
			i++
		}
		if i >= len(data) || data[i] == '\n' {
			return 1
		}
		return 0
	}
	if data[0] == '-' {
		for i = 1; i < len(data) && data[i] == '-'; i++ {
		}
		for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
			i++
		}
		if i >= len(data) || data[i] == '\n' {
			return 2
		}
		return 0
	}
	return 0
}

// prefixQuote returns the length of a blockquote prefix (up to three
// leading spaces then '>' optionally followed by one space or tab), or
// 0 if data doesn't begin with one.
func prefixQuote(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i < len(data) && data[i] == '>' {
		if i+1 < len(data) && (data[i+1] == ' ' || data[i+1] == '\t') {
			return i + 2
		}
		return i + 1
	}
	return 0
}

// prefixCode returns the length of an indented-code prefix (one tab, or
// four spaces), or 0.
func prefixCode(data []byte) int {
	if len(data) > 0 && data[0] == '\t' {
		return 1
	}
	if len(data) > 3 && data[0] == ' ' && data[1] == ' ' && data[2] == ' ' && data[3] == ' ' {
		return 4
	}
	return 0
}

// prefixLi returns the length of a list-item continuation prefix (a
// tab, or up to four leading spaces).
func prefixLi(data []byte) int {
	i := 0
	if i < len(data) && data[i] == '\t' {
		return 1
	}
	for i < 4 && i < len(data) && data[i] == ' ' {
		i++
	}
	return i
}

// prefixOLi returns the length of an ordered-list marker prefix (up to
// three leading spaces, digits, '.'), or 0. A space or tab must follow
// the '.', but is not counted in the returned length.
func prefixOLi(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i >= len(data) || data[i] < '0' || data[i] > '9' {
		return 0
	}
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	if i+1 >= len(data) || data[i] != '.' || (data[i+1] != ' ' && data[i+1] != '\t') {
		return 0
	}
	return i + 1
}

// prefixULi returns the length of an unordered-list marker prefix (up
// to three leading spaces, one of '*+-'), or 0. A space or tab must
// follow the marker, but is not counted in the returned length.
func prefixULi(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i+1 >= len(data) ||
		(data[i] != '*' && data[i] != '+' && data[i] != '-') ||
		(data[i+1] != ' ' && data[i+1] != '\t') {
		return 0
	}
	return i + 1
}

// parseBlock classifies and dispatches each block in data in turn,
// recursing for container blocks. The outer loop always makes forward
// progress: every branch advances beg by at least one byte.
func parseBlock(ob *bytes.Buffer, rndr *render, data []byte) {
	if rndr.nesting >= rndr.maxNesting {
		return
	}
	rndr.nesting++
	defer func() { rndr.nesting-- }()

	beg := 0
	for beg < len(data) {
		line := data[beg:]
		switch {
		case line[0] == '#':
			beg += parseATXHeader(ob, rndr, line)
		case isEmpty(line):
			for beg < len(data) && data[beg] != '\n' {
				beg++
			}
			beg++
		case isHRule(line):
			if rndr.rndr.HRule != nil {
				rndr.rndr.HRule(ob, rndr.rndr.Opaque)
			}
			for beg < len(data) && data[beg] != '\n' {
				beg++
			}
			beg++
		case prefixQuote(line) > 0:
			beg += parseBlockQuote(ob, rndr, line)
		case prefixCode(line) > 0:
			beg += parseBlockCode(ob, rndr, line)
		case prefixULi(line) > 0:
			beg += parseList(ob, rndr, line, 0)
		case prefixOLi(line) > 0:
			beg += parseList(ob, rndr, line, ListTypeOrdered)
		default:
			beg += parseParagraph(ob, rndr, line)
		}
	}
}

// lineEnd returns the offset just past the end of the line starting at
// data[beg] (i.e. just past its trailing '\n', or len(data) if none).
func lineEnd(data []byte, beg int) int {
	end := beg + 1
	for end < len(data) && data[end-1] != '\n' {
		end++
	}
	return end
}

func parseBlockQuote(ob *bytes.Buffer, rndr *render, data []byte) int {
	var work bytes.Buffer
	beg, end := 0, 0

	for beg < len(data) {
		end = lineEnd(data, beg)
		line := data[beg:end]
		if pre := prefixQuote(line); pre > 0 {
			beg += pre
		} else if isEmpty(line) &&
			(end >= len(data) || (prefixQuote(data[end:]) == 0 && !isEmpty(data[end:]))) {
			break
		}
		if beg < end {
			work.Write(data[beg:end])
		}
		beg = end
	}

	var out bytes.Buffer
	parseBlock(&out, rndr, work.Bytes())
	if rndr.rndr.BlockQuote != nil {
		rndr.rndr.BlockQuote(ob, out.Bytes(), rndr.rndr.Opaque)
	}
	return end
}

func parseParagraph(ob *bytes.Buffer, rndr *render, data []byte) int {
	i, end := 0, 0
	level := 0

	for i < len(data) {
		end = lineEnd(data, i)
		line := data[i:end]
		if isEmpty(line) {
			break
		}
		if lvl := isHeaderLine(line); lvl != 0 {
			level = lvl
			break
		}
		if data[i] == '#' || isHRule(line) {
			end = i
			break
		}
		i = end
	}

	size := i
	for size > 0 && data[size-1] == '\n' {
		size--
	}

	if level == 0 {
		var tmp bytes.Buffer
		parseInline(&tmp, rndr, data[:size])
		if rndr.rndr.Paragraph != nil {
			rndr.rndr.Paragraph(ob, tmp.Bytes(), rndr.rndr.Opaque)
		}
		return end
	}

	if size > 0 {
		bodyEnd := size
		size--
		for size > 0 && data[size] != '\n' {
			size--
		}
		beg := size + 1
		for size > 0 && data[size-1] == '\n' {
			size--
		}
		if size > 0 {
			var tmp bytes.Buffer
			parseInline(&tmp, rndr, data[:size])
			if rndr.rndr.Paragraph != nil {
				rndr.rndr.Paragraph(ob, tmp.Bytes(), rndr.rndr.Opaque)
			}
			if rndr.rndr.Header != nil {
				rndr.rndr.Header(ob, data[beg:bodyEnd], level, rndr.rndr.Opaque)
			}
			return end
		}
		size = bodyEnd
	}
	if rndr.rndr.Header != nil {
		rndr.rndr.Header(ob, data[:size], level, rndr.rndr.Opaque)
	}
	return end
}

func parseBlockCode(ob *bytes.Buffer, rndr *render, data []byte) int {
	var work bytes.Buffer
	beg := 0

	for beg < len(data) {
		end := lineEnd(data, beg)
		line := data[beg:end]
		if pre := prefixCode(line); pre > 0 {
			beg += pre
		} else if !isEmpty(line) {
			break
		}
		if beg < end {
			htmlEscape(&work, data[beg:end])
		}
		beg = end
	}

	for work.Len() > 0 && work.Bytes()[work.Len()-1] == '\n' {
		work.Truncate(work.Len() - 1)
	}
	work.WriteByte('\n')
	if rndr.rndr.BlockCode != nil {
		rndr.rndr.BlockCode(ob, work.Bytes(), rndr.rndr.Opaque)
	}
	return beg
}

func parseListItem(ob *bytes.Buffer, rndr *render, data []byte, flags *ListFlag) int {
	var work bytes.Buffer
	beg := 0

	for beg < len(data) {
		end := lineEnd(data, beg)
		line := data[beg:end]
		if isEmpty(line) {
			if end < len(data) && !isEmpty(data[end:]) {
				rest := data[end:]
				if prefixOLi(rest) > 0 || prefixULi(rest) > 0 {
					*flags |= ListItemContainsBlock
				}
				if prefixLi(rest) == 0 {
					beg = end
					break
				}
				*flags |= ListItemContainsBlock
			}
		}
		pre := prefixLi(line)
		if pre > 0 {
			beg += pre
		} else if prefixOLi(line) > 0 || prefixULi(line) > 0 {
			break
		}
		if beg < end {
			work.Write(data[beg:end])
		}
		beg = end
	}

	var body []byte
	if *flags&ListItemContainsBlock != 0 {
		var blk bytes.Buffer
		parseBlock(&blk, rndr, work.Bytes())
		body = blk.Bytes()
	} else {
		body = work.Bytes()
	}
	if rndr.rndr.ListItem != nil {
		rndr.rndr.ListItem(ob, body, *flags, rndr.rndr.Opaque)
	}
	return beg
}

func parseList(ob *bytes.Buffer, rndr *render, data []byte, flags ListFlag) int {
	var work bytes.Buffer
	i := 0

	for i < len(data) {
		pre := prefixOLi(data[i:])
		if pre == 0 {
			pre = prefixULi(data[i:])
		}
		if pre == 0 {
			break
		}
		i += pre
		i += parseListItem(&work, rndr, data[i:], &flags)
	}

	if rndr.rndr.List != nil {
		rndr.rndr.List(ob, work.Bytes(), flags, rndr.rndr.Opaque)
	}
	return i
}

func parseATXHeader(ob *bytes.Buffer, rndr *render, data []byte) int {
	if len(data) == 0 || data[0] != '#' {
		return 0
	}
	level := 0
	for level < len(data) && level < 6 && data[level] == '#' {
		level++
	}
	i := level
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	contentStart := i
	end := i
	for end < len(data) && data[end] != '\n' {
		end++
	}
	skip := end
	for end > contentStart && data[end-1] == '#' {
		end--
	}
	for end > contentStart && (data[end-1] == ' ' || data[end-1] == '\t') {
		end--
	}
	if rndr.rndr.Header != nil {
		rndr.rndr.Header(ob, data[contentStart:end], level, rndr.rndr.Opaque)
	}
	return skip
}

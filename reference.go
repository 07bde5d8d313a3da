package soldout

import (
	"bytes"
	"sort"
)

//
// Link references
//
// This section implements support for references that (usually) appear
// as footnotes in a document, and can be referenced anywhere in the
// document. The basic format is:
//
//    [1]: http://www.google.com/ "Google"
//    [2]: http://www.github.com/ "Github"
//
// Anywhere in the document, the reference can be linked to by its label:
//
//    This library is hosted on [Github][2], a git hosting site.

// reference is a parsed link-reference definition: an id, a link, and
// an optional title.
type reference struct {
	id    []byte
	link  []byte
	title []byte
}

// referenceTable is an ordered sequence of references, kept sorted by
// id (case-insensitive) to support binary search. Duplicate ids are
// first-wins: insert is a no-op if the id is already present.
type referenceTable []*reference

func (t referenceTable) search(id []byte) *reference {
	i := sort.Search(len(t), func(i int) bool {
		return bytes.Compare(bytes.ToLower(t[i].id), bytes.ToLower(id)) >= 0
	})
	if i < len(t) && bytes.EqualFold(t[i].id, id) {
		return t[i]
	}
	return nil
}

// insert adds r in sorted position, unless an entry with the same id
// (case-insensitive) already exists — first definition wins.
func (t *referenceTable) insert(r *reference) {
	i := sort.Search(len(*t), func(i int) bool {
		return bytes.Compare(bytes.ToLower((*t)[i].id), bytes.ToLower(r.id)) >= 0
	})
	if i < len(*t) && bytes.EqualFold((*t)[i].id, r.id) {
		return // first-wins
	}
	*t = append(*t, nil)
	copy((*t)[i+1:], (*t)[i:])
	(*t)[i] = r
}

// isReference checks whether data starts with a reference link
// definition. If so, it is parsed and inserted into rndr's reference
// table (when rndr is non-nil). Returns the number of bytes to skip to
// move past the definition, or zero if the data does not begin with
// one.
//
// Grammar (recognized in one line plus at most one continuation line):
//
//	^ {0,3} [ ID ] :  (sp|tab)*  (newline (sp|tab)+)?  (<|ε) LINK (>|ε)
//	  ( (sp|tab)* ( newline (sp|tab)+ )? ( ' TITLE ' | " TITLE " | ( TITLE ) ) )?
//	  (sp|tab)* (newline | EOF)
func isReference(rndr *render, data []byte) int {
	// up to 3 optional leading spaces
	if len(data) < 4 {
		return 0
	}
	i := 0
	for i < 3 && data[i] == ' ' {
		i++
	}
	if data[i] == ' ' {
		return 0
	}

	// id part: anything but a newline between brackets
	if data[i] != '[' {
		return 0
	}
	i++
	idOffset := i
	for i < len(data) && data[i] != '\n' && data[i] != '\r' && data[i] != ']' {
		i++
	}
	if i >= len(data) || data[i] != ']' {
		return 0
	}
	idEnd := i

	// spacer: colon (space | tab)* newline? (space | tab)*
	i++
	if i >= len(data) || data[i] != ':' {
		return 0
	}
	i++
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i < len(data) && (data[i] == '\n' || data[i] == '\r') {
		i++
		if i < len(data) && data[i] == '\n' && data[i-1] == '\r' {
			i++
		}
	}
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i >= len(data) {
		return 0
	}

	// link: whitespace-free sequence, optionally between angle brackets
	if data[i] == '<' {
		i++
	}
	linkOffset := i
	for i < len(data) && data[i] != ' ' && data[i] != '\t' && data[i] != '\n' && data[i] != '\r' {
		i++
	}
	linkEnd := i
	if linkEnd > linkOffset && data[linkEnd-1] == '>' {
		linkEnd--
	}

	// optional spacer: (space | tab)* (newline | ' | " | ()
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i < len(data) && data[i] != '\n' && data[i] != '\r' &&
		data[i] != '\'' && data[i] != '"' && data[i] != '(' {
		return 0
	}

	// compute end-of-line
	lineEnd := 0
	if i >= len(data) || data[i] == '\r' || data[i] == '\n' {
		lineEnd = i
	}
	if i+1 < len(data) && data[i] == '\r' && data[i+1] == '\n' {
		lineEnd++
	}

	// optional (space|tab)* spacer after a newline
	if lineEnd > 0 {
		i = lineEnd + 1
		for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
			i++
		}
	}

	// optional title: any non-newline sequence enclosed in '"() alone
	// on its line
	titleOffset, titleEnd := 0, 0
	if i+1 < len(data) && (data[i] == '\'' || data[i] == '"' || data[i] == '(') {
		i++
		titleOffset = i
		for i < len(data) && data[i] != '\n' && data[i] != '\r' {
			i++
		}
		if i+1 < len(data) && data[i] == '\n' && data[i+1] == '\r' {
			titleEnd = i + 1
		} else {
			titleEnd = i
		}
		i--
		for i > titleOffset && (data[i] == ' ' || data[i] == '\t') {
			i--
		}
		if i > titleOffset && (data[i] == '\'' || data[i] == '"' || data[i] == ')') {
			lineEnd = titleEnd
			titleEnd = i
		}
	}
	if lineEnd == 0 { // garbage after the link
		return 0
	}

	if rndr == nil {
		return lineEnd
	}

	id := bytes.ToLower(data[idOffset:idEnd])
	r := &reference{id: id, link: data[linkOffset:linkEnd]}
	if titleEnd > titleOffset {
		r.title = data[titleOffset:titleEnd]
	}
	rndr.refs.insert(r)

	return lineEnd
}

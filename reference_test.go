package soldout

import "testing"

func TestIsReferenceBasic(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		link   string
		title  string
		wantID string
	}{
		{
			name:   "plain",
			input:  "[1]: http://www.google.com/\n",
			link:   "http://www.google.com/",
			wantID: "1",
		},
		{
			name:   "titled",
			input:  "[1]: http://www.google.com/ \"Google\"\n",
			link:   "http://www.google.com/",
			title:  "Google",
			wantID: "1",
		},
		{
			name:   "angle bracket link",
			input:  "[go]: <http://golang.org/>\n",
			link:   "http://golang.org/",
			wantID: "go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &render{}
			n := isReference(r, []byte(tt.input))
			// isReference's span stops at the line's trailing '\n'
			// rather than past it; that last byte is swept up by the
			// general newline-collapsing pass in Run, not here.
			want := len(tt.input) - 1
			if n != want {
				t.Fatalf("isReference consumed %d bytes, want %d", n, want)
			}
			if len(r.refs) != 1 {
				t.Fatalf("got %d references, want 1", len(r.refs))
			}
			ref := r.refs[0]
			if string(ref.id) != tt.wantID {
				t.Errorf("id = %q, want %q", ref.id, tt.wantID)
			}
			if string(ref.link) != tt.link {
				t.Errorf("link = %q, want %q", ref.link, tt.link)
			}
			if string(ref.title) != tt.title {
				t.Errorf("title = %q, want %q", ref.title, tt.title)
			}
		})
	}
}

func TestIsReferenceRejectsGarbage(t *testing.T) {
	tests := []string{
		"not a reference\n",
		"[1] http://example.com/\n", // missing colon
		"     [1]: http://example.com/\n", // too much leading indentation
	}
	for _, in := range tests {
		r := &render{}
		if n := isReference(r, []byte(in)); n != 0 {
			t.Errorf("isReference(%q) = %d, want 0", in, n)
		}
	}
}

func TestReferenceTableFirstWins(t *testing.T) {
	var refs referenceTable
	refs.insert(&reference{id: []byte("a"), link: []byte("first")})
	refs.insert(&reference{id: []byte("a"), link: []byte("second")})

	got := refs.search([]byte("a"))
	if got == nil {
		t.Fatal("search returned nil")
	}
	if string(got.link) != "first" {
		t.Errorf("link = %q, want %q (first definition should win)", got.link, "first")
	}
}

func TestReferenceTableCaseInsensitive(t *testing.T) {
	var refs referenceTable
	refs.insert(&reference{id: []byte("Foo"), link: []byte("bar")})

	if refs.search([]byte("foo")) == nil {
		t.Error("search(\"foo\") should match id \"Foo\"")
	}
	if refs.search([]byte("FOO")) == nil {
		t.Error("search(\"FOO\") should match id \"Foo\"")
	}
	if refs.search([]byte("baz")) != nil {
		t.Error("search(\"baz\") should not match")
	}
}

func TestReferenceTableSortedOrder(t *testing.T) {
	var refs referenceTable
	ids := []string{"delta", "alpha", "charlie", "bravo"}
	for _, id := range ids {
		refs.insert(&reference{id: []byte(id), link: []byte("x")})
	}
	for i := 1; i < len(refs); i++ {
		if string(refs[i-1].id) > string(refs[i].id) {
			t.Fatalf("references not sorted: %q before %q", refs[i-1].id, refs[i].id)
		}
	}
}

package soldout

import "testing"

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"\n", true},
		{"   \n", true},
		{"\t\n", true},
		{"a\n", false},
		{"  a\n", false},
	}
	for _, tt := range tests {
		if got := isEmpty([]byte(tt.in)); got != tt.want {
			t.Errorf("isEmpty(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsHRule(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"***\n", true},
		{"* * *\n", true},
		{"---\n", true},
		{"___\n", true},
		{"  ---\n", true},
		{"--\n", false},
		{"hello\n", false},
		{"- - -\n", true},
	}
	for _, tt := range tests {
		if got := isHRule([]byte(tt.in)); got != tt.want {
			t.Errorf("isHRule(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsHeaderLine(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"===\n", 1},
		{"---\n", 2},
		{"== a ==\n", 0},
		{"hello\n", 0},
		{"=\n", 1},
	}
	for _, tt := range tests {
		if got := isHeaderLine([]byte(tt.in)); got != tt.want {
			t.Errorf("isHeaderLine(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPrefixHelpers(t *testing.T) {
	if prefixQuote([]byte("> quoted\n")) != 2 {
		t.Error("prefixQuote failed on simple case")
	}
	if prefixQuote([]byte("no quote\n")) != 0 {
		t.Error("prefixQuote should reject non-quote")
	}
	if prefixCode([]byte("    code\n")) != 4 {
		t.Error("prefixCode failed on four-space indent")
	}
	if prefixCode([]byte("\tcode\n")) != 1 {
		t.Error("prefixCode failed on tab indent")
	}
	if prefixULi([]byte("* item\n")) != 1 {
		t.Error("prefixULi failed on '*' marker")
	}
	if prefixULi([]byte("- item\n")) != 1 {
		t.Error("prefixULi failed on '-' marker")
	}
	if prefixOLi([]byte("1. item\n")) != 2 {
		t.Error("prefixOLi failed on numeric marker")
	}
	if prefixOLi([]byte("not a list\n")) != 0 {
		t.Error("prefixOLi should reject non-list")
	}
}

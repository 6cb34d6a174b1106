package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"emphasis", "Fresh **bread**", []string{"<p>Fresh <strong>bread</strong></p>"}},
		{"list", "- one\n- two", []string{"<ul>", "<li>one</li>", "<li>two</li>"}},
		{"link", "[Order](https://example.com)", []string{`<a href="https://example.com">Order</a>`}},
		{"hard wrap", "line one\nline two", []string{"line one<br>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.in)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("ToHTML(%q) = %q, missing %q", tt.in, got, w)
				}
			}
		})
	}
}

func TestToHTMLEscapesRawHTML(t *testing.T) {
	got, err := ToHTML("hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML should not pass through: %q", got)
	}
}

func TestInline(t *testing.T) {
	got, err := Inline("Bake *better*")
	if err != nil {
		t.Fatalf("Inline: %v", err)
	}
	if got != "Bake <em>better</em>" {
		t.Errorf("Inline = %q", got)
	}

	multi, _ := Inline("one\n\ntwo")
	if !strings.Contains(multi, "<p>one</p>") {
		t.Errorf("multi-block input should keep paragraphs, got %q", multi)
	}
}

package markdown

import (
	"strings"
	"testing"
)

func TestParseWithFrontmatter(t *testing.T) {
	p := NewParser()

	out, meta, err := p.ParseWithFrontmatter([]byte("---\ntitle: Retainer\n---\n## Terms\n\nFee is **fixed**.\n"))
	if err != nil {
		t.Fatalf("ParseWithFrontmatter() error: %v", err)
	}
	if meta["title"] != "Retainer" {
		t.Errorf("title = %v", meta["title"])
	}
	html := string(out)
	if !strings.Contains(html, "Terms</h2>") || !strings.Contains(html, "<strong>fixed</strong>") {
		t.Errorf("html = %q", html)
	}
	if strings.Contains(html, "title:") {
		t.Error("front matter leaked into the body")
	}
}

func TestParseDropsRawHTML(t *testing.T) {
	out, err := NewParser().Parse([]byte("Call client <script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Errorf("raw HTML kept: %q", out)
	}
}

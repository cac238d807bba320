// Package markdown converts markdown templates and case notes to HTML.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Parser renders GitHub-flavoured markdown. Raw HTML in the source is
// dropped, so notes and templates cannot inject markup.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer, &frontmatter.Extender{}),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		),
	}
}

// Parse converts source, ignoring any front matter.
func (p *Parser) Parse(source []byte) ([]byte, error) {
	out, _, err := p.ParseWithFrontmatter(source)
	return out, err
}

// ParseWithFrontmatter converts source and decodes its YAML front matter.
// Missing or undecodable front matter yields an empty map.
func (p *Parser) ParseWithFrontmatter(source []byte) ([]byte, map[string]any, error) {
	ctx := parser.NewContext()
	var out bytes.Buffer
	if err := p.md.Convert(source, &out, parser.WithContext(ctx)); err != nil {
		return nil, nil, err
	}

	meta := map[string]any{}
	if fm := frontmatter.Get(ctx); fm != nil {
		if err := fm.Decode(&meta); err != nil {
			meta = map[string]any{}
		}
	}
	return out.Bytes(), meta, nil
}

// Package export converts stored HTML documents to other formats.
package export

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockPreformatted
)

// Block is one run of text extracted from an HTML document.
type Block struct {
	Kind  BlockKind
	Level int // heading level, 1-6
	Text  string
}

// Extract flattens an HTML document into text blocks in document order.
// It returns the <title> text (if any) and the blocks of the body.
func Extract(src []byte) (title string, blocks []Block, err error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return "", nil, err
	}

	e := &extractor{}
	e.walk(doc)
	e.flushLoose()
	return e.title, e.blocks, nil
}

type extractor struct {
	title  string
	blocks []Block
	loose  strings.Builder
}

func (e *extractor) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		e.loose.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Title:
			e.title = collapse(textOf(n))
			return
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			e.add(Block{Kind: BlockHeading, Level: int(n.Data[1] - '0'), Text: collapse(textOf(n))})
			return
		case atom.P, atom.Blockquote, atom.Tr, atom.Dt, atom.Dd:
			e.add(Block{Kind: BlockParagraph, Text: collapseLines(textOf(n))})
			return
		case atom.Li:
			e.add(Block{Kind: BlockListItem, Text: collapseLines(textOf(n))})
			return
		case atom.Pre:
			e.add(Block{Kind: BlockPreformatted, Text: strings.Trim(textOf(n), "\n")})
			return
		case atom.Br:
			e.loose.WriteString("\n")
			return
		case atom.Div, atom.Section, atom.Article, atom.Table, atom.Ul, atom.Ol, atom.Hr, atom.Header, atom.Footer:
			// Block containers end any loose text before them.
			e.flushLoose()
			defer e.flushLoose()
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
}

func (e *extractor) add(b Block) {
	e.flushLoose()
	if strings.TrimSpace(b.Text) == "" {
		return
	}
	e.blocks = append(e.blocks, b)
}

func (e *extractor) flushLoose() {
	text := collapseLines(e.loose.String())
	e.loose.Reset()
	if text != "" {
		e.blocks = append(e.blocks, Block{Kind: BlockParagraph, Text: text})
	}
}

// textOf concatenates the text below n, turning <br> into newlines.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteString("\n")
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
		case n.Type == html.ElementNode && (n.DataAtom == atom.Td || n.DataAtom == atom.Th):
			if n.PrevSibling != nil {
				b.WriteString("  ")
			}
			fallthrough
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseLines collapses whitespace within each line and drops blank lines.
func collapseLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

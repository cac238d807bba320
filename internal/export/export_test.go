package export

import (
	"bytes"
	"testing"
)

const sample = `<!doctype html>
<html><head><title>Notice of Appearance</title><style>p{color:red}</style></head>
<body>
<h1>IN THE CIRCUIT COURT</h1>
<p>State v.   Doe<br>CR-2024-001</p>
<ul><li>First</li><li>Second</li></ul>
<div>Loose text</div>
<pre>line one
line two</pre>
<script>alert(1)</script>
</body></html>`

func TestExtract(t *testing.T) {
	title, blocks, err := Extract([]byte(sample))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if title != "Notice of Appearance" {
		t.Errorf("title = %q", title)
	}

	want := []Block{
		{Kind: BlockHeading, Level: 1, Text: "IN THE CIRCUIT COURT"},
		{Kind: BlockParagraph, Text: "State v. Doe\nCR-2024-001"},
		{Kind: BlockListItem, Text: "First"},
		{Kind: BlockListItem, Text: "Second"},
		{Kind: BlockParagraph, Text: "Loose text"},
		{Kind: BlockPreformatted, Text: "line one\nline two"},
	}

	if len(blocks) != len(want) {
		t.Fatalf("got %d blocks %+v, want %d", len(blocks), blocks, len(want))
	}
	for i := range want {
		if blocks[i] != want[i] {
			t.Errorf("block %d = %+v, want %+v", i, blocks[i], want[i])
		}
	}
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	err := PDF(&buf, []byte(sample), PDFOptions{Title: "Fallback", Link: "https://example.com/documents/1"})
	if err != nil {
		t.Fatalf("PDF() error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("PDF() output does not start with %%PDF")
	}
}

func TestPDFWithoutLink(t *testing.T) {
	var buf bytes.Buffer
	err := PDF(&buf, []byte("<p>Plain</p>"), PDFOptions{Title: "Plain"})
	if err != nil {
		t.Fatalf("PDF() error: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("PDF() wrote nothing")
	}
}

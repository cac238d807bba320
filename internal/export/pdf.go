package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// PDFOptions controls the PDF rendering of a document.
type PDFOptions struct {
	// Title is used when the document has no <title>.
	Title string
	// Link, when set, is encoded as a QR code in the footer of every page.
	Link string
}

var headingSizes = [...]float64{0, 18, 16, 14, 12, 11, 11}

// PDF renders an HTML document as a plain A4 PDF and writes it to w.
func PDF(w io.Writer, src []byte, opts PDFOptions) error {
	title, blocks, err := Extract(src)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if title == "" {
		title = opts.Title
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 30)
	pdf.SetTitle(title, true)

	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if opts.Link != "" {
		png, err := qrcode.Encode(opts.Link, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("failed to encode QR code: %w", err)
		}
		imgOptions := gofpdf.ImageOptions{
			ImageType: "PNG",
			ReadDpi:   true,
		}
		pdf.RegisterImageOptionsReader("qr", imgOptions, bytes.NewReader(png))

		pdf.SetFooterFunc(func() {
			pdf.ImageOptions("qr", 20, 272, 18, 18, false, imgOptions, 0, opts.Link)
			pdf.SetXY(42, 278)
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(0, 4, tr(opts.Link), "", 1, "L", false, 0, opts.Link)
			pdf.SetX(42)
			pdf.CellFormat(0, 4, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		})
	}

	pdf.AddPage()

	for _, b := range blocks {
		switch b.Kind {
		case BlockHeading:
			pdf.SetFont("Helvetica", "B", headingSizes[b.Level])
			pdf.MultiCell(0, 7, tr(b.Text), "", "L", false)
			pdf.Ln(2)
		case BlockListItem:
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetX(25)
			pdf.MultiCell(0, 5.5, tr("• "+b.Text), "", "L", false)
			pdf.Ln(1)
		case BlockPreformatted:
			pdf.SetFont("Courier", "", 10)
			pdf.MultiCell(0, 5, tr(b.Text), "", "L", false)
			pdf.Ln(3)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 5.5, tr(strings.TrimSpace(b.Text)), "", "L", false)
			pdf.Ln(3)
		}
	}

	return pdf.Output(w)
}

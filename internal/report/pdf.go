package report

import (
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
)

const (
	pdfMargin     = 25.4 // one inch
	pdfLineHeight = 5.5
)

// PDFRenderer draws documents as Letter-size PDFs.
type PDFRenderer struct{}

// Render implements Renderer.
func (PDFRenderer) Render(doc Document, dir, base string) (string, error) {
	path := filepath.Join(dir, base+".pdf")

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accents survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, b := range doc.Blocks {
		switch b.Kind {
		case BlockTitle:
			pdf.SetFont("Helvetica", "B", 20)
			pdf.MultiCell(0, 10, tr(b.Text), "", "L", false)
			pdf.Ln(6)
		case BlockHeading:
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 8, tr(b.Text), "", "L", false)
		case BlockSubheading:
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, tr(b.Text), "", "L", false)
		case BlockParagraph:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, pdfLineHeight, tr(b.Text), "", "L", false)
		case BlockBullet:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, pdfLineHeight, tr("• "+b.Text), "", "L", false)
		case BlockBadge:
			pdf.SetFont("Helvetica", "B", 12)
			pdf.SetTextColor(b.Color.R, b.Color.G, b.Color.B)
			pdf.MultiCell(0, 7, tr(b.Text), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		case BlockTable:
			drawTable(pdf, tr, b.Table)
		case BlockSpacer:
			pdf.Ln(5)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", eris.Wrapf(err, "report: write pdf %s", path)
	}
	return path, nil
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, t *Table) {
	if t == nil {
		return
	}
	pageW, _ := pdf.GetPageSize()
	width := pageW - 2*pdfMargin
	colW := []float64{width * 0.65, width * 0.35}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(0x44, 0x72, 0xC4)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range t.Header {
		pdf.CellFormat(colW[i%2], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(0xF2, 0xF2, 0xF2)
	for ri, row := range t.Rows {
		style := ""
		if t.BoldLastRow && ri == len(t.Rows)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		for i, cell := range row {
			pdf.CellFormat(colW[i%2], 7, tr(cell), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Tables wider than this many columns are printed in landscape.
const landscapeColumns = 5

func renderPDF(data Dataset) ([]byte, error) {
	orientation, usable := "P", 190.0
	if len(data.Columns) > landscapeColumns {
		orientation, usable = "L", 277.0
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	colWidth := usable / float64(len(data.Columns))

	pdf.SetFont("Arial", "B", 10)
	for _, label := range data.Labels() {
		pdf.CellFormat(colWidth, 8, fit(pdf, label, colWidth), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i := range data.Rows {
		for _, value := range data.row(i) {
			pdf.CellFormat(colWidth, 7, fit(pdf, value, colWidth), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(data.Rows) == 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(usable, 7, "No records", "1", 1, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fit shortens text with an ellipsis until it fits a cell of width mm.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	const padding = 2.0
	if pdf.GetStringWidth(text) <= width-padding {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if pdf.GetStringWidth(candidate) <= width-padding {
			return candidate
		}
	}
	return ""
}

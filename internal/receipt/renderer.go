package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/lfmorais/pedidos-serverless/internal/orders"
)

// Render produces the printable receipt PDF for an order. Identical input
// yields byte-identical output: the layout is pure and both document dates
// are pinned to the order timestamp rather than the clock. A redelivered
// message therefore overwrites the archived object with the same bytes.
func Render(o orders.Order) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	// fpdf stamps both /CreationDate and /ModDate from time.Now unless
	// overridden; either one left unpinned breaks byte determinism
	fixed := creationDate(o.Timestamp)
	pdf.SetCreationDate(fixed)
	pdf.SetModificationDate(fixed)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLeftMargin(marginSide)
	pdf.SetRightMargin(marginSide)
	pdf.AddPage()

	// core fonts are cp1252; translate accented item and customer text
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := topOffset
	for _, ln := range Lines(o) {
		if ln.Height > 0 {
			style := ""
			if ln.Bold {
				style = "B"
			}
			align := "L"
			if ln.Center {
				align = "C"
			}
			pdf.SetY(y)
			pdf.SetFont("Helvetica", style, ln.Size)
			pdf.CellFormat(cellWidth, ln.Height, tr(ln.Text), "", 1, align, false, 0, "")
		}
		y += ln.Advance
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func creationDate(ts string) time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		// any fixed non-zero date keeps the output deterministic; a zero
		// value would make fpdf fall back to time.Now
		return time.Unix(0, 0).UTC()
	}
	return t.UTC()
}

package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/lfmorais/pedidos-serverless/internal/orders"
)

// Geometry of the thermal-printer coupon: 80x210mm page, 42-character
// separator rules, items wrapped at 32 characters.
const (
	pageWidth  = 80.0
	pageHeight = 210.0
	cellWidth  = 74.0
	marginSide = 3.0
	topOffset  = 5.0

	ruleWidth = 42
	wrapWidth = 32
)

// Line is one printable row of the receipt: its text, font treatment, cell
// height and how far the cursor advances afterwards. A zero-height line is
// pure vertical spacing.
type Line struct {
	Text    string
	Bold    bool
	Size    float64
	Height  float64
	Advance float64
	Center  bool
}

func rule(c string) Line {
	return Line{Text: strings.Repeat(c, ruleWidth), Size: 8, Height: 3, Advance: 4, Center: true}
}

func spacer(h float64) Line {
	return Line{Advance: h}
}

// Lines lays out the whole document for an order. Pure and deterministic:
// all text and geometry decisions live here, Render only draws them.
func Lines(o orders.Order) []Line {
	ls := []Line{
		{Text: "PIZZARIA DO FABIN", Bold: true, Size: 16, Height: 7, Advance: 7, Center: true},
		{Text: "Sistema de Pedidos", Size: 8, Height: 4, Advance: 5, Center: true},
		rule("="),
		{Text: "COMPROVANTE DE PEDIDO", Bold: true, Size: 12, Height: 5, Advance: 6, Center: true},
		rule("="),
		{Text: "Pedido: " + o.ID, Bold: true, Size: 9, Height: 4, Advance: 5},
		{Text: "Cliente: " + o.Cliente, Size: 9, Height: 4, Advance: 5},
		{Text: fmt.Sprintf("Mesa: %d", o.Mesa), Size: 9, Height: 4, Advance: 5},
		{Text: "Data: " + formatTimestamp(o.Timestamp), Size: 9, Height: 4, Advance: 6},
		rule("-"),
		{Text: "ITENS DO PEDIDO", Bold: true, Size: 10, Height: 5, Advance: 5, Center: true},
		rule("-"),
	}

	for i, item := range o.Itens {
		for _, text := range wrap(fmt.Sprintf("%d. %s", i+1, item), wrapWidth) {
			ls = append(ls, Line{Text: text, Size: 9, Height: 4, Advance: 4})
		}
	}
	ls = append(ls, spacer(2))

	ls = append(ls,
		Line{Text: fmt.Sprintf("Total de itens: %d", len(o.Itens)), Bold: true, Size: 9, Height: 4, Advance: 6},
		rule("-"),
		Line{Text: "STATUS: PROCESSADO", Bold: true, Size: 10, Height: 5, Advance: 6, Center: true},
		Line{Text: "Pedido processado com sucesso", Size: 8, Height: 3, Advance: 5, Center: true},
		rule("="),
		Line{Text: "Obrigado pela preferencia!", Bold: true, Size: 9, Height: 5, Advance: 5, Center: true},
		Line{Text: "Comprovante gerado automaticamente", Size: 7, Height: 3, Advance: 4, Center: true},
		rule("="),
	)
	return ls
}

// formatTimestamp renders the stored RFC3339 timestamp the way the kitchen
// reads dates. A malformed timestamp falls back to the raw string instead
// of failing the render.
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("02/01/2006 15:04:05")
}

// wrap splits text into lines of at most width characters, flushing at word
// boundaries. A word joins the current line while len(line)+len(word)+1
// fits; otherwise the line is flushed and the word starts the next one.
// Words are never split, so a single over-long word exceeds width on its
// own line.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+len(word)+1 <= width {
			line += " " + word
		} else {
			lines = append(lines, line)
			line = word
		}
	}
	return append(lines, line)
}

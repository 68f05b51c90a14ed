// Package pdf renders settlement statements with gofpdf.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/core/ports/clients"
	"github.com/SscSPs/couple_finance_app/internal/utils"
	"github.com/phpdave11/gofpdf"
)

const (
	pageBreakY  = 270
	maxRows     = 500
	maxTitleLen = 70
)

var columnWidths = []float64{28, 98, 26, 30}

// StatementRenderer draws an A4 balance statement.
type StatementRenderer struct {
	brand string
}

// NewStatementRenderer returns a renderer that prints brand in the header
// and footer.
func NewStatementRenderer(brand string) *StatementRenderer {
	return &StatementRenderer{brand: brand}
}

var _ clients.StatementRenderer = (*StatementRenderer)(nil)

// RenderStatement returns the PDF bytes for statement.
func (r *StatementRenderer) RenderStatement(statement domain.SettlementStatement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; accents in names and descriptions need translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(false, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(r.brand+" - Estado de cuenta"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, tr("Grupo: "+statement.GroupName))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr("Miembro: "+statement.MemberName))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Fecha: "+statement.GeneratedAt.Format(time.DateOnly))
	pdf.Ln(10)

	balance := statement.Breakdown.Balance
	amount := utils.FormatCOP(balance)
	if balance < 0 {
		amount = "-" + utils.FormatCOP(-balance)
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)
	summaryW := []float64{60, 62, 60}
	pdf.CellFormat(summaryW[0], 10, "Balance", "1", 0, "C", true, 0, "")
	pdf.CellFormat(summaryW[1], 10, "Estado", "1", 0, "C", true, 0, "")
	pdf.CellFormat(summaryW[2], 10, "Movimientos", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(summaryW[0], 10, amount, "1", 0, "C", false, 0, "")
	pdf.CellFormat(summaryW[1], 10, tr(domain.BalanceStatus(balance)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(summaryW[2], 10, fmt.Sprintf("%d", len(statement.Breakdown.Breakdown)), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	drawHeader(pdf)
	for i, entry := range statement.Breakdown.Breakdown {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "...truncado", "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
			drawHeader(pdf)
		}

		sign := ""
		label := "Te deben"
		if entry.Type == domain.EntryOwe {
			sign = "-"
			label = "Debes"
		}
		pdf.CellFormat(columnWidths[0], 8, entry.Date.Format(time.DateOnly), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[1], 8, tr(trimTo(entry.Description, maxTitleLen)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[2], 8, label, "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[3], 8, sign+utils.FormatCOP(entry.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, tr("Generado por "+r.brand+" - "+statement.GeneratedAt.Format(time.RFC3339)), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render statement: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(columnWidths[0], 8, "FECHA", "1", 0, "C", true, 0, "")
	pdf.CellFormat(columnWidths[1], 8, "DESCRIPCION", "1", 0, "L", true, 0, "")
	pdf.CellFormat(columnWidths[2], 8, "TIPO", "1", 0, "C", true, 0, "")
	pdf.CellFormat(columnWidths[3], 8, "MONTO", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

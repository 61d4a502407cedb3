package output

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/divvyplan/internal/calc"
	"github.com/iwvelando/divvyplan/pkg/constants"
	"github.com/iwvelando/divvyplan/pkg/money"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
)

type pdfReport struct {
	pdf    *fpdf.Fpdf
	report Report
}

// PDFFormat outputs a one page PDF statement of the deal.
func PDFFormat(w io.Writer, report Report) error {
	r := &pdfReport{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		report: report,
	}

	r.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	r.pdf.SetAutoPageBreak(true, pdfMarginTop)
	r.pdf.SetTitle("DivvyPlan Summary", false)
	r.pdf.SetCreator("divvyplan", false)
	if !report.generatedAt.IsZero() {
		r.pdf.SetCreationDate(report.generatedAt)
	}

	r.pdf.AddPage()
	r.addHeader()
	r.addBreakdown()
	r.addDirectors()
	r.addFooter()

	return r.pdf.Output(w)
}

func (r *pdfReport) addHeader() {
	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(pdfContentWidth, 12, "DivvyPlan Summary", "", 1, "L", false, 0, "")

	if !r.report.generatedAt.IsZero() {
		r.pdf.SetFont("Arial", "I", 10)
		r.pdf.SetTextColor(80, 80, 80)
		r.pdf.CellFormat(pdfContentWidth, 6, fmt.Sprintf("Generated: %s (tax year %s)", r.report.generatedAt.Format("2 January 2006"), r.report.TaxYear), "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(4)
}

func (r *pdfReport) addBreakdown() {
	r.drawSectionHeader("Deal")

	deal := r.report.Deal
	breakdown := r.report.Result.Breakdown
	widths := []float64{pdfContentWidth * 0.6, pdfContentWidth * 0.4}

	rows := [][]string{
		{"Deal amount", money.GBP(deal.DealAmount)},
		{"VAT registered", yesNo(deal.VATRegistered)},
		{"Amount includes VAT", yesNo(deal.IncludesVAT)},
		{"Net (ex VAT)", money.GBP(breakdown.Net)},
		{fmt.Sprintf("VAT (%s)", money.Percent(r.report.settings.VATRate)), money.GBP(breakdown.VAT)},
	}
	if breakdown.Expenses > 0 {
		rows = append(rows,
			[]string{"Expenses", money.GBP(breakdown.Expenses)},
			[]string{"Profit", money.GBP(breakdown.Profit)},
		)
	}
	rows = append(rows,
		[]string{fmt.Sprintf("Corporation tax (%s)", money.Percent(r.report.settings.CorpTaxRate)), money.GBP(breakdown.CorpTax)},
	)

	r.drawTableHeader([]string{"Item", "Amount"}, widths)
	for _, row := range rows {
		r.drawTableRow(row, widths, false)
	}
	r.drawTableRow([]string{"Dividend pool", money.GBP(breakdown.DividendPool)}, widths, true)
	r.pdf.Ln(6)
}

func (r *pdfReport) addDirectors() {
	r.drawSectionHeader(fmt.Sprintf("Directors (%s dividend tax, %s split)", money.Percent(r.report.Rate), r.report.SplitMethod))

	widths := []float64{pdfContentWidth * 0.32, pdfContentWidth * 0.14, pdfContentWidth * 0.18, pdfContentWidth * 0.18, pdfContentWidth * 0.18}
	r.drawTableHeader([]string{"Director", "Split", "Dividend", "Tax", "Take-home"}, widths)

	result := r.report.Result
	for _, d := range result.Directors {
		name := truncate(d.Name, 28)
		if d.AdjustedByPenny {
			name += " *"
		}
		r.drawTableRow([]string{
			name,
			money.Percent(d.SplitPercent),
			money.GBP(d.DividendShare),
			money.GBP(d.PersonalDividendTax),
			money.GBP(d.TakeHome),
		}, widths, false)
	}
	r.drawTableRow([]string{
		"Total",
		"",
		money.GBP(result.Breakdown.DividendPool),
		money.GBP(result.TotalPersonalTax),
		money.GBP(result.TotalTakeHome),
	}, widths, true)

	if !r.report.ValidSplit {
		r.pdf.Ln(3)
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.SetTextColor(180, 0, 0)
		r.pdf.CellFormat(pdfContentWidth, 6,
			fmt.Sprintf("Warning: director splits total %.2f%%, expected 100%%", splitTotal(r.report)*constants.PercentageMultiplier),
			"", 1, "L", false, 0, "")
	}
	r.pdf.Ln(6)
}

func (r *pdfReport) addFooter() {
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(100, 100, 100)
	r.pdf.MultiCell(pdfContentWidth, 5, calc.SummaryDisclaimer, "", "L", false)
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(pdfContentWidth, 9, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(pdfMarginLeft, r.pdf.GetY(), pdfMarginLeft+pdfContentWidth, r.pdf.GetY())
	r.pdf.Ln(3)
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)

	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, pdfText(cell), "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

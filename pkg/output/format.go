// Package output renders deal results for the terminal and for export.
package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/divvyplan/internal/calc"
	"github.com/iwvelando/divvyplan/pkg/constants"
	"github.com/iwvelando/divvyplan/pkg/datetime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Report is everything needed to render one calculated deal.
type Report struct {
	Deal        calc.DealInput        `json:"deal" yaml:"deal"`
	SplitMethod calc.SplitMethod      `json:"splitMethod" yaml:"splitMethod"`
	Tier        calc.DividendRateTier `json:"dividendRateTier" yaml:"dividendRateTier"`
	Rate        float64               `json:"dividendRate" yaml:"dividendRate"`
	Result      calc.DealResult       `json:"result" yaml:"result"`
	ValidSplit  bool                  `json:"validSplit" yaml:"validSplit"`
	Summary     string                `json:"summary" yaml:"summary"`
	TaxYear     string                `json:"taxYear" yaml:"taxYear"`

	settings    calc.Settings
	generatedAt time.Time
}

// NewReport computes the deal and packages it for rendering.
func NewReport(deal calc.DealInput, directors []calc.Director, method calc.SplitMethod, tier calc.DividendRateTier, settings calc.Settings) Report {
	result := calc.ComputeDealResult(deal, directors, method, tier, settings)
	now := time.Now()
	return Report{
		Deal:        deal,
		SplitMethod: method,
		Tier:        tier,
		Rate:        calc.ResolveRate(tier, settings),
		Result:      result,
		ValidSplit:  calc.IsValidSplitFor(method, directors),
		Summary:     calc.FormatSummary(deal, result, settings, tier),
		TaxYear:     datetime.TaxYear(now),
		settings:    settings,
		generatedAt: now,
	}
}

// Write renders the report in the named format.
func Write(w io.Writer, format string, report Report) error {
	switch format {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, report)
	case constants.OutputFormatPDF:
		return PDFFormat(w, report)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// PrettyFormat outputs the summary text followed by a per-director table.
func PrettyFormat(w io.Writer, report Report) error {
	p := message.NewPrinter(language.English)

	var buf bytes.Buffer
	buf.WriteString(report.Summary)
	buf.WriteString("\n\n")

	if !report.ValidSplit {
		_, _ = p.Fprintf(&buf, "Warning: director splits total %.2f%%, expected 100%%\n\n", splitTotal(report)*constants.PercentageMultiplier)
	}

	fmt.Fprintf(&buf, "Director             | Split   | Dividend      | Tax           | Take-home\n")
	fmt.Fprintf(&buf, "____________________ | _______ | _____________ | _____________ | _____________\n")
	for _, d := range report.Result.Directors {
		marker := ""
		if d.AdjustedByPenny {
			marker = " *"
		}
		_, _ = p.Fprintf(&buf, "%-20s | %6.2f%% | £%12.2f | £%12.2f | £%12.2f%s\n",
			truncate(d.Name, 20), d.SplitPercent*constants.PercentageMultiplier,
			d.DividendShare, d.PersonalDividendTax, d.TakeHome, marker)
	}
	_, _ = p.Fprintf(&buf, "%-20s | %7s | £%12.2f | £%12.2f | £%12.2f\n",
		"Total", "", report.Result.Breakdown.DividendPool, report.Result.TotalPersonalTax, report.Result.TotalTakeHome)

	for _, d := range report.Result.Directors {
		if d.AdjustedByPenny {
			buf.WriteString("\n* adjusted by a penny so the shares add up to the dividend pool\n")
			break
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// YAMLFormat outputs the report as YAML.
func YAMLFormat(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

func splitTotal(report Report) float64 {
	var total float64
	for _, d := range report.Result.Directors {
		total += d.SplitPercent
	}
	return total
}

func truncate(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}

// pdfText converts the pound sign to the Latin-1 byte the core PDF fonts expect.
func pdfText(s string) string {
	return strings.ReplaceAll(s, "£", "\xa3")
}

package present

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/roi-estimator/internal/roi"
)

const (
	notApplicable = "N/A"
	notReachable  = "Not within horizon"

	// Caption states the single simplifying assumption of the model.
	Caption = "Model assumes incremental revenue uplift applies evenly across the evaluation horizon."
)

// Detail is one line of the calculation breakdown.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is everything the page and the text report display for one evaluation.
type View struct {
	Input    roi.Input
	Currency string

	ROI        string
	ROIDefined bool

	NetProfit         string
	NetProfitNegative bool

	Payback          string
	PaybackReachable bool
	// BeyondHorizon is set when payback happens, but later than the evaluation horizon.
	BeyondHorizon bool

	Details []Detail
	Caption string
}

// Build formats res for display.
func Build(in roi.Input, res roi.Result, currency string) View {
	v := View{
		Input:             in,
		Currency:          currency,
		ROI:               FormatROI(res.ROI),
		ROIDefined:        res.ROI.Defined(),
		NetProfit:         FormatWhole(res.NetProfit),
		NetProfitNegative: math.Round(res.NetProfit) < 0,
		Payback:           FormatPayback(res.Payback),
		PaybackReachable:  res.Payback.Reachable(),
		BeyondHorizon:     res.Payback.Reachable() && !res.Payback.WithinHorizon(in.HorizonMonths),
		Caption:           Caption,
	}

	v.Details = []Detail{
		{
			Label: fmt.Sprintf("Incremental revenue (over %d mo)", in.HorizonMonths),
			Value: FormatMoney(currency, res.IncrementalRevenue),
		},
		{
			Label: fmt.Sprintf("Incremental profit (margin %d%%)", in.MarginPercent),
			Value: FormatMoney(currency, res.IncrementalProfit),
		},
		{
			Label: "Total service cost",
			Value: FormatMoney(currency, res.TotalServiceCost),
		},
	}
	return v
}

// FormatROI renders a ratio as a percentage with one decimal, e.g. "-35.7%".
func FormatROI(r roi.Ratio) string {
	pct, ok := r.Percent()
	if !ok {
		return notApplicable
	}
	return grouped(pct, 1) + "%"
}

// FormatPayback renders "<N> months" or the unreachable marker.
func FormatPayback(p roi.Payback) string {
	months, ok := p.Months()
	if !ok {
		return notReachable
	}
	return fmt.Sprintf("%d months", months)
}

// FormatWhole rounds to whole units with thousands separators.
func FormatWhole(v float64) string {
	return grouped(v, 0)
}

// FormatMoney prefixes the currency code to a whole-unit amount, e.g. "EUR90,000".
func FormatMoney(currency string, v float64) string {
	return currency + FormatWhole(v)
}

// grouped rounds half away from zero to the given decimals and separates
// thousands. Digits go through big.Int so amounts past the int64 range keep
// every digit, and values that round to zero never print as "-0".
func grouped(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	abs := math.Abs(v)
	// Above 2^53 a float64 has no fractional part left to round.
	if abs < 1<<53 {
		scale := math.Pow(10, float64(decimals))
		abs = math.Round(abs*scale) / scale
	}

	whole, frac, _ := strings.Cut(strconv.FormatFloat(abs, 'f', decimals, 64), ".")
	n, _ := new(big.Int).SetString(whole, 10)
	out := humanize.BigComma(n)
	if frac != "" {
		out += "." + frac
	}
	if v < 0 && abs != 0 {
		out = "-" + out
	}
	return out
}

// Text renders v as a plain-text report.
func Text(v View) string {
	var b strings.Builder

	b.WriteString("ROI Calculator\n\n")
	b.WriteString("Inputs:\n")
	fmt.Fprintf(&b, "  Baseline monthly revenue: %s\n", FormatMoney(v.Currency, v.Input.BaselineRevenue))
	fmt.Fprintf(&b, "  Contribution margin: %d%%\n", v.Input.MarginPercent)
	fmt.Fprintf(&b, "  Expected revenue uplift: %d%%\n", v.Input.UpliftPercent)
	fmt.Fprintf(&b, "  Evaluation horizon: %d months\n", v.Input.HorizonMonths)
	fmt.Fprintf(&b, "  Setup fee: %s\n", FormatMoney(v.Currency, v.Input.SetupFee))
	fmt.Fprintf(&b, "  Monthly retainer: %s\n", FormatMoney(v.Currency, v.Input.MonthlyRetainer))

	b.WriteString("\nResults:\n")
	fmt.Fprintf(&b, "  ROI: %s\n", v.ROI)
	fmt.Fprintf(&b, "  Net profit (%s): %s\n", v.Currency, v.NetProfit)
	fmt.Fprintf(&b, "  Payback period: %s\n", v.Payback)
	if v.BeyondHorizon {
		fmt.Fprintf(&b, "  Note: payback falls after the %d month horizon\n", v.Input.HorizonMonths)
	}

	b.WriteString("\nDetails:\n")
	for _, d := range v.Details {
		fmt.Fprintf(&b, "  %s: %s\n", d.Label, d.Value)
	}

	b.WriteString("\n")
	b.WriteString(v.Caption)
	b.WriteString("\n")
	return b.String()
}

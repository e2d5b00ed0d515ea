// Package roi implements the ROI, net profit and payback model.
package roi

import (
	"errors"
	"fmt"
	"math"
)

// Input domain bounds. Callers clamp against these before calling Calculate.
const (
	MinHorizonMonths = 1
	MaxHorizonMonths = 24
	MinPercent       = 0
	MaxPercent       = 100
)

// ErrOutOfDomain is returned by Input.Validate for a field outside its domain.
var ErrOutOfDomain = errors.New("value out of domain")

// Input represents the business and pricing terms of a single evaluation.
type Input struct {
	BaselineRevenue float64
	MarginPercent   int
	UpliftPercent   int
	HorizonMonths   int
	SetupFee        float64
	MonthlyRetainer float64
}

// Validate reports the first field outside its domain. Calculate never calls it.
func (in Input) Validate() error {
	switch {
	case in.BaselineRevenue < 0 || math.IsNaN(in.BaselineRevenue) || math.IsInf(in.BaselineRevenue, 0):
		return fmt.Errorf("baseline_revenue %v: %w", in.BaselineRevenue, ErrOutOfDomain)
	case in.MarginPercent < MinPercent || in.MarginPercent > MaxPercent:
		return fmt.Errorf("margin_percent %d: %w", in.MarginPercent, ErrOutOfDomain)
	case in.UpliftPercent < MinPercent || in.UpliftPercent > MaxPercent:
		return fmt.Errorf("uplift_percent %d: %w", in.UpliftPercent, ErrOutOfDomain)
	case in.HorizonMonths < MinHorizonMonths || in.HorizonMonths > MaxHorizonMonths:
		return fmt.Errorf("horizon_months %d: %w", in.HorizonMonths, ErrOutOfDomain)
	case in.SetupFee < 0 || math.IsNaN(in.SetupFee) || math.IsInf(in.SetupFee, 0):
		return fmt.Errorf("setup_fee %v: %w", in.SetupFee, ErrOutOfDomain)
	case in.MonthlyRetainer < 0 || math.IsNaN(in.MonthlyRetainer) || math.IsInf(in.MonthlyRetainer, 0):
		return fmt.Errorf("monthly_retainer %v: %w", in.MonthlyRetainer, ErrOutOfDomain)
	}
	return nil
}

// Result contains every derived value of an evaluation.
type Result struct {
	IncrementalRevenue       float64
	IncrementalProfit        float64
	TotalServiceCost         float64
	ROI                      Ratio
	NetProfit                float64
	MonthlyIncrementalProfit float64
	NetMonthlyBenefit        float64
	Payback                  Payback
}

// Calculate computes ROI, net profit and payback period for in.
// It has no side effects and is defined for every input inside the domain.
func Calculate(in Input) Result {
	uplift := float64(in.UpliftPercent) / 100.0
	margin := float64(in.MarginPercent) / 100.0
	horizon := float64(in.HorizonMonths)

	incRevenue := in.BaselineRevenue * uplift * horizon
	incProfit := incRevenue * margin
	totalCost := in.SetupFee + in.MonthlyRetainer*horizon

	ratio := NotApplicable()
	if totalCost > 0 {
		ratio = NewRatio((incProfit - totalCost) / totalCost)
	}

	// Payback uses monthly rates only; the horizon does not cap it.
	monthlyProfit := in.BaselineRevenue * uplift * margin
	netMonthly := monthlyProfit - in.MonthlyRetainer

	payback := Unreachable()
	if netMonthly > 0 {
		payback = PaybackIn(ceilMonths(in.SetupFee / netMonthly))
	}

	return Result{
		IncrementalRevenue:       incRevenue,
		IncrementalProfit:        incProfit,
		TotalServiceCost:         totalCost,
		ROI:                      ratio,
		NetProfit:                incProfit - totalCost,
		MonthlyIncrementalProfit: monthlyProfit,
		NetMonthlyBenefit:        netMonthly,
		Payback:                  payback,
	}
}

// ceilMonths rounds up to whole months, saturating at math.MaxInt so a huge
// fee over a tiny monthly benefit stays a large positive count.
func ceilMonths(v float64) int {
	months := math.Ceil(v)
	if months >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(months)
}

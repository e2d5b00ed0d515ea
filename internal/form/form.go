// Package form turns submitted form values into a model input, clamping numbers
// into the range each field accepts.
package form

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/roi-estimator/internal/roi"
)

// Form field names, shared by the page, the text report and the JSON API.
const (
	FieldBaselineRevenue = "baseline_revenue"
	FieldMarginPercent   = "margin_percent"
	FieldUpliftPercent   = "uplift_percent"
	FieldHorizonMonths   = "horizon_months"
	FieldSetupFee        = "setup_fee"
	FieldMonthlyRetainer = "monthly_retainer"
)

// ErrNotNumeric is wrapped by FieldError when a value cannot be read as a number.
var ErrNotNumeric = errors.New("not numeric")

// FieldError describes a single field that could not be parsed.
type FieldError struct {
	Field string
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s must be numeric (got %q)", e.Field, e.Raw)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Adjustment records a value that was moved into range.
type Adjustment struct {
	Field   string
	Given   float64
	Applied float64
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s adjusted from %s to %s", a.Field, formatNumber(a.Given), formatNumber(a.Applied))
}

// Parse reads the six model inputs from values. Missing or blank fields take the
// value from defaults. A field that is not a number keeps its default and is reported
// in the returned error; every such field is reported, joined with errors.Join.
func Parse(values url.Values, defaults roi.Input) (roi.Input, []Adjustment, error) {
	in := defaults
	var adjustments []Adjustment
	var errs []error

	money := func(field string, dst *float64) {
		raw, v, ok, err := lookup(values, field)
		if err != nil {
			errs = append(errs, &FieldError{Field: field, Raw: raw, Err: err})
			return
		}
		if !ok {
			return
		}
		*dst = clampMoney(field, v, &adjustments)
	}
	whole := func(field string, lo, hi int, dst *int) {
		raw, v, ok, err := lookup(values, field)
		if err != nil {
			errs = append(errs, &FieldError{Field: field, Raw: raw, Err: err})
			return
		}
		if !ok {
			return
		}
		*dst = clampWhole(field, v, lo, hi, &adjustments)
	}

	money(FieldBaselineRevenue, &in.BaselineRevenue)
	whole(FieldMarginPercent, roi.MinPercent, roi.MaxPercent, &in.MarginPercent)
	whole(FieldUpliftPercent, roi.MinPercent, roi.MaxPercent, &in.UpliftPercent)
	whole(FieldHorizonMonths, roi.MinHorizonMonths, roi.MaxHorizonMonths, &in.HorizonMonths)
	money(FieldSetupFee, &in.SetupFee)
	money(FieldMonthlyRetainer, &in.MonthlyRetainer)

	return in, adjustments, errors.Join(errs...)
}

// Clamp moves every field of in into its domain.
func Clamp(in roi.Input) (roi.Input, []Adjustment) {
	var adjustments []Adjustment
	in.BaselineRevenue = clampMoney(FieldBaselineRevenue, in.BaselineRevenue, &adjustments)
	in.MarginPercent = clampWhole(FieldMarginPercent, float64(in.MarginPercent), roi.MinPercent, roi.MaxPercent, &adjustments)
	in.UpliftPercent = clampWhole(FieldUpliftPercent, float64(in.UpliftPercent), roi.MinPercent, roi.MaxPercent, &adjustments)
	in.HorizonMonths = clampWhole(FieldHorizonMonths, float64(in.HorizonMonths), roi.MinHorizonMonths, roi.MaxHorizonMonths, &adjustments)
	in.SetupFee = clampMoney(FieldSetupFee, in.SetupFee, &adjustments)
	in.MonthlyRetainer = clampMoney(FieldMonthlyRetainer, in.MonthlyRetainer, &adjustments)
	return in, adjustments
}

// Values encodes in as query values, the inverse of Parse.
func Values(in roi.Input) url.Values {
	v := url.Values{}
	v.Set(FieldBaselineRevenue, formatNumber(in.BaselineRevenue))
	v.Set(FieldMarginPercent, strconv.Itoa(in.MarginPercent))
	v.Set(FieldUpliftPercent, strconv.Itoa(in.UpliftPercent))
	v.Set(FieldHorizonMonths, strconv.Itoa(in.HorizonMonths))
	v.Set(FieldSetupFee, formatNumber(in.SetupFee))
	v.Set(FieldMonthlyRetainer, formatNumber(in.MonthlyRetainer))
	return v
}

// lookup returns ok=false for a missing or blank field.
func lookup(values url.Values, field string) (string, float64, bool, error) {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return raw, 0, false, nil
	}
	cleaned := strings.NewReplacer(",", "", "_", "", " ", "").Replace(raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return raw, 0, false, ErrNotNumeric
	}
	return raw, v, true, nil
}

func clampMoney(field string, v float64, adjustments *[]Adjustment) float64 {
	if v < 0 {
		*adjustments = append(*adjustments, Adjustment{Field: field, Given: v, Applied: 0})
		return 0
	}
	return v
}

// clampWhole rounds to the nearest integer before clamping; sliders move in steps of one.
func clampWhole(field string, v float64, lo, hi int, adjustments *[]Adjustment) int {
	rounded := math.Round(v)
	applied := math.Min(math.Max(rounded, float64(lo)), float64(hi))
	if applied != v {
		*adjustments = append(*adjustments, Adjustment{Field: field, Given: v, Applied: applied})
	}
	return int(applied)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package roi

// Ratio is a return ratio that may be undefined, e.g. when there is no cost to divide by.
// The zero value is not applicable.
type Ratio struct {
	value float64
	ok    bool
}

// NewRatio returns a defined ratio.
func NewRatio(v float64) Ratio { return Ratio{value: v, ok: true} }

// NotApplicable returns an undefined ratio.
func NotApplicable() Ratio { return Ratio{} }

// Value returns the ratio and whether it is defined.
func (r Ratio) Value() (float64, bool) { return r.value, r.ok }

// Defined reports whether the ratio carries a value.
func (r Ratio) Defined() bool { return r.ok }

// Percent returns the ratio scaled to a percentage.
func (r Ratio) Percent() (float64, bool) { return r.value * 100, r.ok }

// Payback is the number of whole months needed to recover the setup fee,
// or unreachable when the monthly benefit never turns positive.
// The zero value is unreachable.
type Payback struct {
	months    int
	reachable bool
}

// PaybackIn returns a reachable payback of n months.
func PaybackIn(n int) Payback { return Payback{months: n, reachable: true} }

// Unreachable returns a payback that never happens.
func Unreachable() Payback { return Payback{} }

// Months returns the month count and whether payback is reachable.
func (p Payback) Months() (int, bool) { return p.months, p.reachable }

// Reachable reports whether the setup fee is ever recovered.
func (p Payback) Reachable() bool { return p.reachable }

// WithinHorizon reports whether payback happens within horizon months.
func (p Payback) WithinHorizon(horizon int) bool {
	return p.reachable && p.months <= horizon
}

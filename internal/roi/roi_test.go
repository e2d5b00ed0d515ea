package roi_test

import (
	"errors"
	"math"
	"testing"

	"github.com/Simplici0/roi-estimator/internal/roi"
	. "github.com/smartystreets/goconvey/convey"
)

const epsilon = 1e-9

func scenarioA() roi.Input {
	return roi.Input{
		BaselineRevenue: 50000,
		MarginPercent:   40,
		UpliftPercent:   15,
		HorizonMonths:   12,
		SetupFee:        8000,
		MonthlyRetainer: 4000,
	}
}

func TestCalculate_Scenarios(t *testing.T) {
	Convey("Given the reference client inputs", t, func() {
		in := scenarioA()

		Convey("When the retainer exceeds the monthly incremental profit", func() {
			res := roi.Calculate(in)

			Convey("Then the horizon totals follow the model", func() {
				So(res.IncrementalRevenue, ShouldAlmostEqual, 90000, epsilon)
				So(res.IncrementalProfit, ShouldAlmostEqual, 36000, epsilon)
				So(res.TotalServiceCost, ShouldAlmostEqual, 56000, epsilon)
				So(res.NetProfit, ShouldAlmostEqual, -20000, epsilon)
			})

			Convey("And ROI is negative", func() {
				v, ok := res.ROI.Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldAlmostEqual, -20000.0/56000.0, epsilon)
				pct, _ := res.ROI.Percent()
				So(math.Round(pct*10)/10, ShouldEqual, -35.7)
			})

			Convey("And payback is unreachable", func() {
				So(res.MonthlyIncrementalProfit, ShouldAlmostEqual, 3000, epsilon)
				So(res.NetMonthlyBenefit, ShouldAlmostEqual, -1000, epsilon)
				So(res.Payback.Reachable(), ShouldBeFalse)
				_, ok := res.Payback.Months()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the retainer is lowered to 1000", func() {
			in.MonthlyRetainer = 1000
			res := roi.Calculate(in)

			Convey("Then payback takes four months", func() {
				So(res.NetMonthlyBenefit, ShouldAlmostEqual, 2000, epsilon)
				months, ok := res.Payback.Months()
				So(ok, ShouldBeTrue)
				So(months, ShouldEqual, 4)
			})
		})

		Convey("When the service is free", func() {
			in.SetupFee = 0
			in.MonthlyRetainer = 0
			res := roi.Calculate(in)

			Convey("Then ROI is not applicable and net profit equals incremental profit", func() {
				So(res.TotalServiceCost, ShouldEqual, 0.0)
				So(res.ROI.Defined(), ShouldBeFalse)
				So(res.NetProfit, ShouldEqual, res.IncrementalProfit)
			})

			Convey("And payback is immediate", func() {
				months, ok := res.Payback.Months()
				So(ok, ShouldBeTrue)
				So(months, ShouldEqual, 0)
			})
		})

		Convey("When there is no uplift", func() {
			in.UpliftPercent = 0
			res := roi.Calculate(in)

			Convey("Then nothing is gained and the whole cost is lost", func() {
				So(res.IncrementalRevenue, ShouldEqual, 0.0)
				So(res.IncrementalProfit, ShouldEqual, 0.0)
				So(res.NetProfit, ShouldEqual, -res.TotalServiceCost)
				v, ok := res.ROI.Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, -1.0)
				So(res.Payback.Reachable(), ShouldBeFalse)
			})
		})
	})
}

func TestCalculate_PaybackIgnoresHorizon(t *testing.T) {
	Convey("Given a large setup fee and a short horizon", t, func() {
		in := scenarioA()
		in.MonthlyRetainer = 2500
		in.SetupFee = 20000
		in.HorizonMonths = 6

		res := roi.Calculate(in)

		Convey("Then payback exceeds the horizon without being capped", func() {
			months, ok := res.Payback.Months()
			So(ok, ShouldBeTrue)
			So(months, ShouldEqual, 40)
			So(res.Payback.WithinHorizon(in.HorizonMonths), ShouldBeFalse)
		})
	})

	Convey("Given a setup fee that divides evenly", t, func() {
		in := roi.Input{BaselineRevenue: 10000, MarginPercent: 50, UpliftPercent: 50, HorizonMonths: 1, SetupFee: 5000}

		Convey("Then the ceiling keeps the integral month count", func() {
			months, _ := roi.Calculate(in).Payback.Months()
			So(months, ShouldEqual, 2)
		})
	})

	Convey("Given a setup fee one unit above an even split", t, func() {
		in := roi.Input{BaselineRevenue: 10000, MarginPercent: 50, UpliftPercent: 50, HorizonMonths: 1, SetupFee: 5001}

		Convey("Then the partial month rounds up", func() {
			months, _ := roi.Calculate(in).Payback.Months()
			So(months, ShouldEqual, 3)
		})
	})

	Convey("Given a setup fee far beyond any representable month count", t, func() {
		in := roi.Input{BaselineRevenue: 10000, MarginPercent: 50, UpliftPercent: 50, HorizonMonths: 12, SetupFee: 1e23}

		Convey("Then payback saturates instead of wrapping negative", func() {
			months, ok := roi.Calculate(in).Payback.Months()
			So(ok, ShouldBeTrue)
			So(months, ShouldEqual, math.MaxInt)
			So(months, ShouldBeGreaterThan, 0)
		})
	})
}

// grid walks a coarse sample of the input domain.
func grid(fn func(roi.Input)) {
	for _, revenue := range []float64{0, 1, 1250.5, 50000, 2_000_000} {
		for _, margin := range []int{0, 1, 40, 100} {
			for _, uplift := range []int{0, 15, 99, 100} {
				for _, horizon := range []int{1, 12, 24} {
					for _, setup := range []float64{0, 8000} {
						for _, retainer := range []float64{0, 500, 4000} {
							fn(roi.Input{
								BaselineRevenue: revenue,
								MarginPercent:   margin,
								UpliftPercent:   uplift,
								HorizonMonths:   horizon,
								SetupFee:        setup,
								MonthlyRetainer: retainer,
							})
						}
					}
				}
			}
		}
	}
}

func TestCalculate_Properties(t *testing.T) {
	Convey("For every input in the sampled domain", t, func() {
		grid(func(in roi.Input) {
			res := roi.Calculate(in)

			So(res.NetProfit, ShouldEqual, res.IncrementalProfit-res.TotalServiceCost)

			if res.TotalServiceCost == 0 {
				So(res.ROI.Defined(), ShouldBeFalse)
			} else {
				v, ok := res.ROI.Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, res.NetProfit/res.TotalServiceCost)
			}

			monthly := in.BaselineRevenue * (float64(in.UpliftPercent) / 100) * (float64(in.MarginPercent) / 100)
			if in.MonthlyRetainer >= monthly {
				So(res.Payback.Reachable(), ShouldBeFalse)
			}

			So(roi.Calculate(in), ShouldResemble, res)
		})
	})

	Convey("Raising the uplift never lowers revenue, profit or ROI", t, func() {
		grid(func(in roi.Input) {
			if in.UpliftPercent == roi.MaxPercent {
				return
			}
			lower := roi.Calculate(in)
			in.UpliftPercent++
			higher := roi.Calculate(in)

			So(higher.IncrementalRevenue, ShouldBeGreaterThanOrEqualTo, lower.IncrementalRevenue)
			So(higher.IncrementalProfit, ShouldBeGreaterThanOrEqualTo, lower.IncrementalProfit)
			if lv, ok := lower.ROI.Value(); ok {
				hv, _ := higher.ROI.Value()
				So(hv, ShouldBeGreaterThanOrEqualTo, lv)
			}
		})
	})
}

func TestInput_Validate(t *testing.T) {
	Convey("Given inputs around the domain edges", t, func() {
		Convey("Then in-domain inputs validate", func() {
			So(scenarioA().Validate(), ShouldBeNil)
			edge := roi.Input{HorizonMonths: 24, MarginPercent: 100, UpliftPercent: 100}
			So(edge.Validate(), ShouldBeNil)
		})

		Convey("Then each out-of-domain field is reported", func() {
			cases := []func(*roi.Input){
				func(in *roi.Input) { in.BaselineRevenue = -1 },
				func(in *roi.Input) { in.MarginPercent = 101 },
				func(in *roi.Input) { in.UpliftPercent = -1 },
				func(in *roi.Input) { in.HorizonMonths = 0 },
				func(in *roi.Input) { in.HorizonMonths = 25 },
				func(in *roi.Input) { in.SetupFee = math.Inf(1) },
				func(in *roi.Input) { in.MonthlyRetainer = math.NaN() },
			}
			for _, mutate := range cases {
				in := scenarioA()
				mutate(&in)
				err := in.Validate()
				So(err, ShouldNotBeNil)
				So(errors.Is(err, roi.ErrOutOfDomain), ShouldBeTrue)
			}
		})
	})
}

func TestOptionalZeroValues(t *testing.T) {
	var r roi.Ratio
	if r.Defined() {
		t.Fatalf("zero Ratio should be not applicable")
	}
	var p roi.Payback
	if p.Reachable() || p.WithinHorizon(24) {
		t.Fatalf("zero Payback should be unreachable")
	}
}

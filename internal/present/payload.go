package present

import "github.com/Simplici0/roi-estimator/internal/roi"

// Payload is the JSON form of an evaluation. Undefined values are null.
type Payload struct {
	Input              InputPayload `json:"input"`
	Currency           string       `json:"currency"`
	IncrementalRevenue float64      `json:"incremental_revenue"`
	IncrementalProfit  float64      `json:"incremental_profit"`
	TotalServiceCost   float64      `json:"total_service_cost"`
	ROI                *float64     `json:"roi"`
	NetProfit          float64      `json:"net_profit"`
	PaybackMonths      *int         `json:"payback_months"`
	PaybackReachable   bool         `json:"payback_reachable"`
	Display            Display      `json:"display"`
}

// InputPayload mirrors roi.Input with the form field names.
type InputPayload struct {
	BaselineRevenue float64 `json:"baseline_revenue"`
	MarginPercent   int     `json:"margin_percent"`
	UpliftPercent   int     `json:"uplift_percent"`
	HorizonMonths   int     `json:"horizon_months"`
	SetupFee        float64 `json:"setup_fee"`
	MonthlyRetainer float64 `json:"monthly_retainer"`
}

// Display carries the formatted strings shown on the page.
type Display struct {
	ROI           string   `json:"roi"`
	NetProfit     string   `json:"net_profit"`
	Payback       string   `json:"payback"`
	BeyondHorizon bool     `json:"beyond_horizon"`
	Details       []Detail `json:"details"`
}

// NewPayload builds the JSON payload for in and res.
func NewPayload(in roi.Input, res roi.Result, currency string) Payload {
	view := Build(in, res, currency)

	p := Payload{
		Input: InputPayload{
			BaselineRevenue: in.BaselineRevenue,
			MarginPercent:   in.MarginPercent,
			UpliftPercent:   in.UpliftPercent,
			HorizonMonths:   in.HorizonMonths,
			SetupFee:        in.SetupFee,
			MonthlyRetainer: in.MonthlyRetainer,
		},
		Currency:           currency,
		IncrementalRevenue: res.IncrementalRevenue,
		IncrementalProfit:  res.IncrementalProfit,
		TotalServiceCost:   res.TotalServiceCost,
		NetProfit:          res.NetProfit,
		PaybackReachable:   res.Payback.Reachable(),
		Display: Display{
			ROI:           view.ROI,
			NetProfit:     view.NetProfit,
			Payback:       view.Payback,
			BeyondHorizon: view.BeyondHorizon,
			Details:       view.Details,
		},
	}
	if v, ok := res.ROI.Value(); ok {
		p.ROI = &v
	}
	if months, ok := res.Payback.Months(); ok {
		p.PaybackMonths = &months
	}
	return p
}

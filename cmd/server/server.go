package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/roi-estimator/internal/config"
	"github.com/Simplici0/roi-estimator/internal/form"
	"github.com/Simplici0/roi-estimator/internal/metrics"
	"github.com/Simplici0/roi-estimator/internal/present"
	"github.com/Simplici0/roi-estimator/internal/roi"
	"github.com/Simplici0/roi-estimator/pkg/logger"
)

//go:embed web/templates/*.html
var templateFS embed.FS

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 16

type server struct {
	cfg       *config.Config
	log       logger.Logger
	metrics   *metrics.Collector
	templates *template.Template
}

type baseViewData struct {
	ErrorMessage string
	Notices      []string
}

type homeViewData struct {
	baseViewData
	View      present.View
	Fields    url.Values
	ReportURL string

	MinPercent       int
	MaxPercent       int
	MinHorizonMonths int
	MaxHorizonMonths int
}

// evaluateRequest holds the JSON body of POST /api/evaluate. Omitted fields take the configured defaults.
type evaluateRequest struct {
	BaselineRevenue *float64 `json:"baseline_revenue"`
	MarginPercent   *int     `json:"margin_percent"`
	UpliftPercent   *int     `json:"uplift_percent"`
	HorizonMonths   *int     `json:"horizon_months"`
	SetupFee        *float64 `json:"setup_fee"`
	MonthlyRetainer *float64 `json:"monthly_retainer"`
}

type evaluateResponse struct {
	present.Payload
	Adjustments []string `json:"adjustments"`
}

func newServer(cfg *config.Config, lg logger.Logger, mc *metrics.Collector) (*server, error) {
	templates, err := template.ParseFS(templateFS, "web/templates/layout.html", "web/templates/home.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &server{cfg: cfg, log: lg, metrics: mc, templates: templates}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.metrics.Middleware)

	r.Get("/", s.handleHome)
	r.Get("/report.txt", s.handleReportText)
	r.Post("/api/evaluate", s.handleEvaluateAPI)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	in, adjustments, parseErr := form.Parse(r.URL.Query(), s.cfg.Defaults())
	view := s.evaluate(r.Context(), in, adjustments)

	data := homeViewData{
		baseViewData:     baseViewData{Notices: notices(adjustments)},
		View:             view,
		Fields:           form.Values(in),
		ReportURL:        "/report.txt?" + form.Values(in).Encode(),
		MinPercent:       roi.MinPercent,
		MaxPercent:       roi.MaxPercent,
		MinHorizonMonths: roi.MinHorizonMonths,
		MaxHorizonMonths: roi.MaxHorizonMonths,
	}
	status := http.StatusOK
	if parseErr != nil {
		data.ErrorMessage = parseErr.Error()
		status = http.StatusBadRequest
	}
	s.renderTemplate(w, r, status, data)
}

func (s *server) handleReportText(w http.ResponseWriter, r *http.Request) {
	in, adjustments, err := form.Parse(r.URL.Query(), s.cfg.Defaults())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view := s.evaluate(r.Context(), in, adjustments)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(present.Text(view)))
}

func (s *server) handleEvaluateAPI(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: unexpected data after the JSON object"})
		return
	}

	in, adjustments := form.Clamp(req.apply(s.cfg.Defaults()))
	res := roi.Calculate(in)
	s.observe(r.Context(), in, res, adjustments)

	writeJSON(w, http.StatusOK, evaluateResponse{
		Payload:     present.NewPayload(in, res, s.cfg.Currency),
		Adjustments: notices(adjustments),
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (req evaluateRequest) apply(in roi.Input) roi.Input {
	if req.BaselineRevenue != nil {
		in.BaselineRevenue = *req.BaselineRevenue
	}
	if req.MarginPercent != nil {
		in.MarginPercent = *req.MarginPercent
	}
	if req.UpliftPercent != nil {
		in.UpliftPercent = *req.UpliftPercent
	}
	if req.HorizonMonths != nil {
		in.HorizonMonths = *req.HorizonMonths
	}
	if req.SetupFee != nil {
		in.SetupFee = *req.SetupFee
	}
	if req.MonthlyRetainer != nil {
		in.MonthlyRetainer = *req.MonthlyRetainer
	}
	return in
}

// evaluate runs the model and formats the result for display.
func (s *server) evaluate(ctx context.Context, in roi.Input, adjustments []form.Adjustment) present.View {
	res := roi.Calculate(in)
	s.observe(ctx, in, res, adjustments)
	return present.Build(in, res, s.cfg.Currency)
}

func (s *server) observe(ctx context.Context, in roi.Input, res roi.Result, adjustments []form.Adjustment) {
	s.metrics.ObserveEvaluation(res)
	for _, a := range adjustments {
		s.metrics.ObserveAdjustment(a.Field)
	}
	s.log.Debug(ctx, "evaluated",
		logger.Any("input", in),
		logger.Float64("net_profit", res.NetProfit),
		logger.Bool("roi_defined", res.ROI.Defined()),
		logger.Bool("payback_reachable", res.Payback.Reachable()),
		logger.Int("adjustments", len(adjustments)),
	)
}

func notices(adjustments []form.Adjustment) []string {
	out := make([]string, 0, len(adjustments))
	for _, a := range adjustments {
		out = append(out, a.String())
	}
	return out
}

func (s *server) renderTemplate(w http.ResponseWriter, r *http.Request, status int, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.log.Error(r.Context(), "failed to render template", logger.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

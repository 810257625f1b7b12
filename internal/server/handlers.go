package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/export"
	"github.com/piwi3910/BarCut/internal/model"
)

// PlanRequest is the body of every pipeline endpoint. Settings default to
// the configured ones when omitted.
type PlanRequest struct {
	Requirements []model.Requirement `json:"requirements"`
	Settings     model.Settings      `json:"settings"`
	Title        string              `json:"title,omitempty"`
}

// SpliceResponse is returned by /api/splice.
type SpliceResponse struct {
	Requirements []model.Requirement `json:"requirements"`
	Stats        model.SpliceStats   `json:"stats"`
}

// OptimizeResponse is returned by /api/optimize.
type OptimizeResponse struct {
	engine.Plan
	MinimumBars int  `json:"minimum_bars"`
	Cached      bool `json:"cached"`
}

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorBody as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

const (
	kindBadRequest        = "bad_request"
	kindUnsupportedFormat = "unsupported_format"
	kindInternal          = "internal"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	type row struct {
		Diameter   int     `json:"diameter"`
		Label      string  `json:"label"`
		UnitWeight float64 `json:"unit_weight"`
	}
	weights := s.cfg.Settings().WeightTable()
	rows := make([]row, 0, len(weights))
	for _, d := range model.SortedDiameters(weights) {
		rows = append(rows, row{Diameter: d, Label: model.DiameterLabel(d), UnitWeight: weights[d]})
	}
	render.JSON(w, r, rows)
}

func (s *Server) handleSplice(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSplice"

	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	if err := req.Settings.Validate(); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	if err := model.ValidateRequirements(req.Requirements); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	reqs, stats, err := engine.Splice(req.Requirements, req.Settings.StockLength, req.Settings.LapFactor)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	render.JSON(w, r, SpliceResponse{Requirements: reqs, Stats: stats})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"

	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	plan, cached, err := s.plan(req)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	render.JSON(w, r, OptimizeResponse{Plan: plan, MinimumBars: plan.MinimumBars(), Cached: cached})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"

	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	if err := req.Settings.Validate(); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(req.Settings), req.Requirements, s.log)
	for i := range results {
		results[i].Plan = nil
	}
	render.JSON(w, r, results)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"

	format := chi.URLParam(r, "format")
	contentType, ok := reportTypes[format]
	if !ok {
		s.respondError(w, r, http.StatusBadRequest, ErrorBody{
			Kind:    kindUnsupportedFormat,
			Message: fmt.Sprintf("unsupported report format %q (want pdf, xlsx or csv)", format),
		})
		return
	}

	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	plan, _, err := s.plan(req)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}

	var buf bytes.Buffer
	switch format {
	case "pdf":
		err = export.WritePDF(&buf, plan, req.Title)
	case "xlsx":
		err = export.WriteXLSX(&buf, plan)
	case "csv":
		err = export.WriteCSV(&buf, plan.Result)
	}
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}

	name := fmt.Sprintf("barcut-%s.%s", plan.Result.RunID, format)
	if s.archiver != nil && r.URL.Query().Get("archive") == "true" {
		key, err := s.archiver.Put(r.Context(), plan.Result.RunID, name, buf.Bytes())
		if err != nil {
			s.log.Error("failed to archive report",
				slog.String("op", op),
				slog.String("name", name),
				slog.String("error", err.Error()))
		} else {
			w.Header().Set("X-Archive-Key", key)
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

var reportTypes = map[string]string{
	"pdf":  "application/pdf",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"csv":  "text/csv",
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (PlanRequest, bool) {
	req := PlanRequest{Settings: s.cfg.Settings()}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, ErrorBody{
			Kind:    kindBadRequest,
			Message: "invalid JSON body: " + err.Error(),
		})
		return PlanRequest{}, false
	}
	if req.Requirements == nil {
		req.Requirements = []model.Requirement{}
	}
	return req, true
}

// writeError maps model errors to 400 and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var me *model.Error
	if errors.As(err, &me) {
		s.respondError(w, r, http.StatusBadRequest, ErrorBody{
			Kind:    string(me.Kind),
			Field:   me.Field,
			Message: me.Message,
		})
		return
	}
	s.log.Error("request failed",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()))
	s.respondError(w, r, http.StatusInternalServerError, ErrorBody{Kind: kindInternal, Message: "internal error"})
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, body ErrorBody) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: body})
}

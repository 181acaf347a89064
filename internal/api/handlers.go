package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"strconv"

	"github.com/Veraticus/lelesmart/internal/engine"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/service"
)

const (
	maxBodyBytes = 1 << 20
	maxPage      = math.MaxInt32
)

// Analyzer is the part of engine.Engine the HTTP handlers depend on.
type Analyzer interface {
	EvaluateSeed(ctx context.Context, in model.SeedInputs) (model.ConditionResult[model.SeedStatus], error)
	EvaluatePond(ctx context.Context, in model.PondInputs) (model.ConditionResult[model.PondStatus], error)
	EvaluateFinal(ctx context.Context, in expert.FinalInputs) (model.ConditionResult[model.FinalStatus], error)
	Analyze(ctx context.Context, in model.AnalysisInput) (*model.Analysis, error)
	ListAnalyses(ctx context.Context, filter service.AnalysisFilter) (*service.AnalysisPage, error)
	GetAnalysis(ctx context.Context, id string) (*model.Analysis, error)
}

// analysisRequest is the flat body of POST /api/analyses. Result fields sent
// by older clients are ignored; the server classifies the inputs itself.
type analysisRequest struct {
	model.SeedInputs
	model.PondInputs
	Feed model.FeedType `json:"feedType"`
}

// Body fields every request must carry. A key that is absent or null is
// reported instead of decoding to its zero value.
var (
	seedFields     = []string{"headShape", "agility", "skinColor", "defect", "cfHead", "cfAgility", "cfSkin", "cfDefect"}
	pondFields     = []string{"ph", "temperature"}
	finalFields    = []string{"seedCondition", "pondCondition", "feedType", "cfSeed", "cfPond"}
	analysisFields = slices.Concat(seedFields, pondFields, []string{"feedType"})
)

type handlers struct {
	analyzer Analyzer
}

// decode reads a single JSON object into dst and checks that every required
// key is present. It reports false after writing a 400.
func decode(w http.ResponseWriter, r *http.Request, dst any, required []string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		msg := "Invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is empty"
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Unexpected data after JSON body")
		return false
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(raw, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := json.Unmarshal(raw, &present); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}

	if issues := missingFields(present, required); len(issues) > 0 {
		writeError(w, http.StatusBadRequest, "Invalid input data", issues...)
		return false
	}
	return true
}

func missingFields(present map[string]json.RawMessage, required []string) []engine.Issue {
	var issues []engine.Issue
	for _, field := range required {
		if v, ok := present[field]; !ok || string(v) == "null" {
			issues = append(issues, engine.Issue{Field: field, Message: "is required"})
		}
	}
	return issues
}

func (h *handlers) seedCondition(w http.ResponseWriter, r *http.Request) {
	var in model.SeedInputs
	if !decode(w, r, &in, seedFields) {
		return
	}
	result, err := h.analyzer.EvaluateSeed(r.Context(), in)
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, newResult(result))
}

func (h *handlers) pondCondition(w http.ResponseWriter, r *http.Request) {
	var in model.PondInputs
	if !decode(w, r, &in, pondFields) {
		return
	}
	result, err := h.analyzer.EvaluatePond(r.Context(), in)
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, newResult(result))
}

func (h *handlers) finalResult(w http.ResponseWriter, r *http.Request) {
	var in expert.FinalInputs
	if !decode(w, r, &in, finalFields) {
		return
	}
	result, err := h.analyzer.EvaluateFinal(r.Context(), in)
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, newResult(result))
}

func (h *handlers) createAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if !decode(w, r, &req, analysisFields) {
		return
	}
	analysis, err := h.analyzer.Analyze(r.Context(), model.AnalysisInput{
		Seed: req.SeedInputs,
		Pond: req.PondInputs,
		Feed: req.Feed,
	})
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusCreated, analysis)
}

func (h *handlers) listAnalyses(w http.ResponseWriter, r *http.Request) {
	filter, issues := parseFilter(r)
	if len(issues) > 0 {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", issues...)
		return
	}
	page, err := h.analyzer.ListAnalyses(r.Context(), filter)
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

func (h *handlers) getAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.analyzer.GetAnalysis(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, analysis)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseFilter(r *http.Request) (service.AnalysisFilter, []engine.Issue) {
	q := r.URL.Query()
	var (
		filter service.AnalysisFilter
		issues []engine.Issue
		err    error
	)

	positive := func(key string, upper int) int {
		raw := q.Get(key)
		if raw == "" {
			return 0
		}
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			issues = append(issues, engine.Issue{Field: key, Message: fmt.Sprintf("must be a positive integer, got %q", raw)})
			return 0
		}
		if n > upper {
			issues = append(issues, engine.Issue{Field: key, Message: fmt.Sprintf("must be at most %d", upper)})
			return 0
		}
		return n
	}
	filter.Page = positive("page", maxPage)
	filter.Limit = positive("limit", math.MaxInt)

	if raw := q.Get("final"); raw != "" {
		if filter.FinalStatus, err = model.ParseFinalStatus(raw); err != nil {
			issues = append(issues, engine.Issue{Field: "final", Message: err.Error()})
		}
	}
	if raw := q.Get("seed"); raw != "" {
		if filter.SeedStatus, err = model.ParseSeedStatus(raw); err != nil {
			issues = append(issues, engine.Issue{Field: "seed", Message: err.Error()})
		}
	}
	if raw := q.Get("pond"); raw != "" {
		if filter.PondStatus, err = model.ParsePondStatus(raw); err != nil {
			issues = append(issues, engine.Issue{Field: "pond", Message: err.Error()})
		}
	}

	return filter, issues
}

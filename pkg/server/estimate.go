package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/raterudder/solarcalc/pkg/catalog"
	"github.com/raterudder/solarcalc/pkg/estimate"
	"github.com/raterudder/solarcalc/pkg/log"
	"github.com/raterudder/solarcalc/pkg/types"
)

const maxEstimateBodyBytes = 1 << 16

// EstimateReq is the body of POST /api/estimate. Omitted settings take the
// same defaults as the form.
type EstimateReq struct {
	Catalog               string  `json:"catalog"`
	MonthlyBill           float64 `json:"monthlyBill"`
	NoSunDays             *int    `json:"noSunDays"`
	DaytimeConsumptionPct *int    `json:"daytimeConsumptionPct"`
	PanelPackageSize      *int    `json:"panelPackageSize"`
}

func (req EstimateReq) input() types.EstimateInput {
	in := types.EstimateInput{
		MonthlyBill:           req.MonthlyBill,
		NoSunDays:             estimate.DefaultNoSunDays,
		DaytimeConsumptionPct: estimate.DefaultDaytimeConsumptionPct,
		PanelPackageSize:      req.PanelPackageSize,
	}
	if req.NoSunDays != nil {
		in.NoSunDays = *req.NoSunDays
	}
	if req.DaytimeConsumptionPct != nil {
		in.DaytimeConsumptionPct = *req.DaytimeConsumptionPct
	}
	return in
}

// writeEstimateError maps engine and catalog errors onto a status code.
func writeEstimateError(w http.ResponseWriter, r *http.Request, err error) {
	var inErr *estimate.InputError
	switch {
	case errors.As(err, &inErr):
		writeJSONError(w, inErr.Error(), http.StatusBadRequest)
	case errors.Is(err, catalog.ErrCatalogNotFound):
		writeJSONError(w, "catalog not found", http.StatusNotFound)
	default:
		ctx := r.Context()
		log.Ctx(ctx).ErrorContext(ctx, "failed to compute estimate", slog.Any("error", err))
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxEstimateBodyBytes)

	var req EstimateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Ctx(ctx).DebugContext(ctx, "invalid estimate request", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	engine, err := s.getEngine(ctx, req.Catalog)
	if err != nil {
		writeEstimateError(w, r, err)
		return
	}
	est, err := engine.Estimate(req.input())
	if err != nil {
		writeEstimateError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(est); err != nil {
		panic(http.ErrAbortHandler)
	}
}

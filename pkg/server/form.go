package server

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/raterudder/solarcalc/pkg/catalog"
	"github.com/raterudder/solarcalc/pkg/estimate"
	"github.com/raterudder/solarcalc/pkg/log"
	"github.com/raterudder/solarcalc/pkg/types"
	"github.com/raterudder/solarcalc/web"
)

var indexTemplate = template.Must(template.ParseFS(web.FS, "templates/index.html"))

type formPage struct {
	Catalog         types.Catalog
	Error           string
	Bill            string
	NoSunDayOptions []noSunDayOption
	DaytimePct      int
	Estimate        *types.Estimate
	PackageOptions  []packageOption
	Cards           []card
}

func newFormPage(c types.Catalog, noSunDays, daytimePct int) formPage {
	opts := make([]noSunDayOption, len(estimate.NoSunDayChoices))
	for i, d := range estimate.NoSunDayChoices {
		opts[i] = noSunDayOption{Value: d, Selected: d == noSunDays}
	}
	return formPage{
		Catalog:         c,
		NoSunDayOptions: opts,
		DaytimePct:      daytimePct,
	}
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, page formPage, code int) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		ctx := r.Context()
		log.Ctx(ctx).ErrorContext(ctx, "failed to render form", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrCatalogNotFound) {
		http.Error(w, "catalog not found", http.StatusNotFound)
		return
	}
	ctx := r.Context()
	log.Ctx(ctx).ErrorContext(ctx, "failed to load catalog", slog.Any("error", err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	engine, err := s.getEngine(r.Context(), r.URL.Query().Get("catalog"))
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	page := newFormPage(engine.Catalog(), estimate.DefaultNoSunDays, estimate.DefaultDaytimeConsumptionPct)
	s.renderForm(w, r, page, http.StatusOK)
}

// formInt parses an optional integer form field.
func formInt(r *http.Request, name string, def int) (int, bool) {
	raw := strings.TrimSpace(r.PostFormValue(name))
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, false
	}
	return v, true
}

// handleFormSubmit validates the bill, sizes a system and renders the
// results. The package select is only honored when it was submitted for the
// same bill, otherwise the suggestion for the new bill is used.
func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxEstimateBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	engine, err := s.getEngine(ctx, r.PostFormValue("catalog"))
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}

	noSunDays, noSunErr := estimate.ParseSetting("no-sun days", r.PostFormValue("noSunDays"), estimate.DefaultNoSunDays)
	daytimePct, pctErr := estimate.ParseSetting("daytime consumption", r.PostFormValue("daytimePct"), estimate.DefaultDaytimeConsumptionPct)

	rawBill := r.PostFormValue("bill")
	page := newFormPage(engine.Catalog(), noSunDays, daytimePct)
	page.Bill = strings.TrimSpace(rawBill)

	bill, err := estimate.ParseBill(rawBill)
	if err != nil {
		page.Error = inputReason(err)
		s.renderForm(w, r, page, http.StatusBadRequest)
		return
	}
	// the engine rejects out of range settings below
	for _, err := range []error{noSunErr, pctErr} {
		if err != nil {
			page.Error = inputReason(err)
			s.renderForm(w, r, page, http.StatusBadRequest)
			return
		}
	}

	in := types.EstimateInput{
		MonthlyBill:           bill,
		NoSunDays:             noSunDays,
		DaytimeConsumptionPct: daytimePct,
	}
	if r.PostFormValue("prevBill") == page.Bill {
		if panels, ok := formInt(r, "panels", 0); ok && panels > 0 {
			in.PanelPackageSize = &panels
		}
	}

	est, err := engine.Estimate(in)
	if err != nil {
		var inErr *estimate.InputError
		if !errors.As(err, &inErr) {
			log.Ctx(ctx).ErrorContext(ctx, "failed to compute estimate", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		page.Error = inErr.Reason
		s.renderForm(w, r, page, http.StatusBadRequest)
		return
	}

	page.Estimate = &est
	page.PackageOptions = packageOptions(page.Catalog, est.SuggestedPanels, est.ChosenPanels)
	page.Cards = resultCards(est)
	s.renderForm(w, r, page, http.StatusOK)
}

func inputReason(err error) string {
	var inErr *estimate.InputError
	if errors.As(err, &inErr) {
		return inErr.Reason
	}
	return err.Error()
}

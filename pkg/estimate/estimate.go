package estimate

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/raterudder/solarcalc/pkg/types"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidPackage = errors.New("invalid package")
	ErrInvalidSetting = errors.New("invalid setting")
)

// InputError is returned for rejected input. Err is one of ErrInvalidInput,
// ErrInvalidPackage or ErrInvalidSetting and Reason is suitable for showing
// to the person who entered the value.
type InputError struct {
	Err    error
	Reason string
}

func (e *InputError) Error() string {
	return e.Err.Error() + ": " + e.Reason
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func inputError(kind error, format string, args ...any) error {
	return &InputError{Err: kind, Reason: fmt.Sprintf(format, args...)}
}

const (
	// DaysPerMonth is the month length the sunlight model averages over.
	DaysPerMonth = 30
	// NoSunFactor is the share of nominal sunlight a cloudy or rainy day still gets.
	NoSunFactor = 0.1
	// MaxPanelsRequired caps PanelsRequired so huge bills still convert to
	// an int and saturate at the largest package.
	MaxPanelsRequired = math.MaxInt32

	DefaultNoSunDays             = 0
	DefaultDaytimeConsumptionPct = 60
)

// NoSunDayChoices are the accepted values for EstimateInput.NoSunDays.
var NoSunDayChoices = []int{0, 15, 30}

// Engine computes estimates against a single price catalog. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	catalog types.Catalog
}

// New validates the catalog and returns an Engine bound to a private copy
// of it.
func New(catalog types.Catalog) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &Engine{catalog: catalog.Clone()}, nil
}

// Catalog returns a copy of the catalog the engine prices against.
func (e *Engine) Catalog() types.Catalog {
	return e.catalog.Clone()
}

// ParseBill parses a monthly bill entered as free text.
func ParseBill(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, inputError(ErrInvalidInput, "Please enter a valid monthly bill greater than 0")
	}
	bill, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(bill) || math.IsInf(bill, 0) {
		return 0, inputError(ErrInvalidInput, "Please enter a valid number")
	}
	if bill < 0 {
		return 0, inputError(ErrInvalidInput, "Bill cannot be negative")
	}
	if bill == 0 {
		return 0, inputError(ErrInvalidInput, "Please enter a valid monthly bill greater than 0")
	}
	return bill, nil
}

// ParseSetting parses a whole-number setting entered as text. Empty input
// yields def. Unparseable input is an ErrInvalidSetting and also yields def
// so the caller can still render the setting.
func ParseSetting(name, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, inputError(ErrInvalidSetting, "%s must be a whole number, got %q", name, raw)
	}
	return v, nil
}

// AdjustedSunHours weights sunny days at the nominal sun hours and no-sun
// days at NoSunFactor of nominal, averaged over a month.
func AdjustedSunHours(sunHours float64, noSunDays int) float64 {
	sunnyDays := DaysPerMonth - noSunDays
	return (float64(sunnyDays)*sunHours + float64(noSunDays)*sunHours*NoSunFactor) / DaysPerMonth
}

// SuggestPackage returns the smallest size that is at least required. If no
// size is large enough the largest size is returned. sizes must be ascending.
func SuggestPackage(sizes []int, required int) int {
	for _, s := range sizes {
		if s >= required {
			return s
		}
	}
	return sizes[len(sizes)-1]
}

func (e *Engine) validate(in types.EstimateInput) error {
	if math.IsNaN(in.MonthlyBill) || math.IsInf(in.MonthlyBill, 0) {
		return inputError(ErrInvalidInput, "monthly bill must be a finite number")
	}
	if in.MonthlyBill <= 0 {
		return inputError(ErrInvalidInput, "monthly bill must be greater than 0")
	}
	if math.IsInf(in.MonthlyBill/e.catalog.Constants.TariffPerKWH, 0) {
		return inputError(ErrInvalidInput, "monthly bill is too large")
	}
	if !slices.Contains(NoSunDayChoices, in.NoSunDays) {
		return inputError(ErrInvalidSetting, "no-sun days must be one of %v, got %d", NoSunDayChoices, in.NoSunDays)
	}
	if in.DaytimeConsumptionPct < 0 || in.DaytimeConsumptionPct > 100 {
		return inputError(ErrInvalidSetting, "daytime consumption must be between 0 and 100, got %d", in.DaytimeConsumptionPct)
	}
	if in.PanelPackageSize != nil {
		if _, ok := e.catalog.Cost(*in.PanelPackageSize); !ok {
			return inputError(ErrInvalidPackage, "%d panels is not one of %v", *in.PanelPackageSize, e.catalog.Sizes())
		}
	}
	return nil
}

// Estimate sizes a system for the input and projects its cost and savings.
// It returns exactly one of ErrInvalidInput, ErrInvalidSetting or
// ErrInvalidPackage (wrapped) when the input is rejected.
func (e *Engine) Estimate(in types.EstimateInput) (types.Estimate, error) {
	if err := e.validate(in); err != nil {
		return types.Estimate{}, err
	}
	k := e.catalog.Constants
	bill := in.MonthlyBill

	adjustedSunHours := AdjustedSunHours(k.SunHours, in.NoSunDays)

	// sizing uses the nominal sun hours while generation uses the adjusted ones
	usageKWH := bill / k.TariffPerKWH
	recommendedKW := usageKWH / (k.SunHours * DaysPerMonth)
	panelsRequired := MaxPanelsRequired
	if req := math.Ceil(recommendedKW * 1000 / k.PanelWatt); req < MaxPanelsRequired {
		panelsRequired = int(req)
	}
	suggested := SuggestPackage(e.catalog.Sizes(), panelsRequired)

	chosen := suggested
	if in.PanelPackageSize != nil {
		chosen = *in.PanelPackageSize
	}

	installCost, _ := e.catalog.Cost(chosen)
	cashPrice := installCost - k.CashRebate

	chosenKW := float64(chosen) * k.PanelWatt / 1000
	annualGen := chosenKW * adjustedSunHours * 365
	monthlyGen := annualGen / 12

	daytimeKWH := usageKWH * (float64(in.DaytimeConsumptionPct) / 100)
	usable := math.Min(monthlyGen, daytimeKWH)
	unused := math.Max(0, monthlyGen-usable)
	monthlySavings := math.Min(bill, usable*k.TariffPerKWH)

	yearlySavings := monthlySavings * 12
	var payback float64
	if yearlySavings > 0 {
		payback = installCost / yearlySavings
	}
	lifetimeSavings := yearlySavings * k.SystemLifeYears
	var roi float64
	if installCost > 0 {
		roi = (lifetimeSavings - installCost) / installCost * 100
	}
	offset := math.Min(100, usable*k.TariffPerKWH/bill*100)

	return types.Estimate{
		CatalogID:            e.catalog.ID,
		Currency:             e.catalog.Currency,
		MonthlyUsageKWH:      usageKWH,
		AdjustedSunHours:     adjustedSunHours,
		RecommendedKW:        recommendedKW,
		PanelsRequired:       panelsRequired,
		SuggestedPanels:      suggested,
		ChosenPanels:         chosen,
		InstallationCost:     installCost,
		CashPrice:            cashPrice,
		AnnualGenerationKWH:  annualGen,
		MonthlyGenerationKWH: monthlyGen,
		UsableEnergyKWH:      usable,
		UnusedEnergyKWH:      unused,
		MonthlySavings:       monthlySavings,
		YearlySavings:        yearlySavings,
		PaybackYears:         payback,
		LifetimeSavings:      lifetimeSavings,
		ROIPercent:           roi,
		OffsetPercent:        offset,
	}, nil
}

package server

import (
	"github.com/raterudder/solarcalc/pkg/types"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type card struct {
	Title string
	Value string
}

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// resultCards renders an estimate as the labelled result cards shown under
// the form, in display order.
func resultCards(est types.Estimate) []card {
	p := newPrinter()
	cur := est.Currency
	return []card{
		{"Recommended Solar Capacity", p.Sprintf("%.2f kW", est.RecommendedKW)},
		{"Estimated Yearly Savings", p.Sprintf("%s %.2f", cur, est.YearlySavings)},
		{"Exact Panels Needed (Based on Bill)", p.Sprintf("%d panels", est.PanelsRequired)},
		{"Payback Period", p.Sprintf("%.1f years", est.PaybackYears)},
		{"Your Selected Package", p.Sprintf("%d panels", est.ChosenPanels)},
		{"Installation Cost", p.Sprintf("%s %.0f", cur, est.InstallationCost)},
		{"Cash Price (Upfront Payment)", p.Sprintf("%s %.0f", cur, est.CashPrice)},
		{"ROI", p.Sprintf("%.1f%%", est.ROIPercent)},
		{"Estimated Monthly Generation", p.Sprintf("%.0f kWh", est.MonthlyGenerationKWH)},
		{"Estimated Solar Generation", p.Sprintf("%.0f kWh/year", est.AnnualGenerationKWH)},
		{"Daytime Consumption Covered by Solar", p.Sprintf("%.0f kWh", est.UsableEnergyKWH)},
		{"Bill Offset (Daytime)", p.Sprintf("%.1f%%", est.OffsetPercent)},
		{"Unused Solar Energy", p.Sprintf("%.0f kWh", est.UnusedEnergyKWH)},
		{"Estimated Monthly Savings", p.Sprintf("%s %.2f", cur, est.MonthlySavings)},
	}
}

type packageOption struct {
	Value    int
	Label    string
	Selected bool
}

func packageOptions(c types.Catalog, suggested, chosen int) []packageOption {
	p := newPrinter()
	opts := make([]packageOption, 0, len(c.Packages))
	for _, pkg := range c.Packages {
		label := p.Sprintf("%d panels (%s %.0f)", pkg.Panels, c.Currency, pkg.Cost)
		if pkg.Panels == suggested {
			label += " - recommended"
		}
		opts = append(opts, packageOption{
			Value:    pkg.Panels,
			Label:    label,
			Selected: pkg.Panels == chosen,
		})
	}
	return opts
}

type noSunDayOption struct {
	Value    int
	Selected bool
}

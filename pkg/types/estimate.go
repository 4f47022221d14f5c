package types

// EstimateInput is a fully-formed request for a solar estimate.
type EstimateInput struct {
	// MonthlyBill is the average monthly electricity bill.
	MonthlyBill float64 `json:"monthlyBill"`
	// NoSunDays is how many days per month are cloudy or rainy.
	NoSunDays int `json:"noSunDays"`
	// DaytimeConsumptionPct is the share of electricity used during the day.
	DaytimeConsumptionPct int `json:"daytimeConsumptionPct"`
	// PanelPackageSize overrides the recommended package when set.
	PanelPackageSize *int `json:"panelPackageSize,omitempty"`
}

// Estimate is the result of a solar estimate.
type Estimate struct {
	CatalogID string `json:"catalogID"`
	Currency  string `json:"currency"`

	// intermediates
	MonthlyUsageKWH  float64 `json:"monthlyUsageKWH"`
	AdjustedSunHours float64 `json:"adjustedSunHours"`

	// sizing
	RecommendedKW   float64 `json:"recommendedKW"`
	PanelsRequired  int     `json:"panelsRequired"`
	SuggestedPanels int     `json:"suggestedPanels"`
	ChosenPanels    int     `json:"chosenPanels"`

	// pricing
	InstallationCost float64 `json:"installationCost"`
	CashPrice        float64 `json:"cashPrice"`

	// generation
	AnnualGenerationKWH  float64 `json:"annualGenerationKWH"`
	MonthlyGenerationKWH float64 `json:"monthlyGenerationKWH"`
	UsableEnergyKWH      float64 `json:"usableEnergyKWH"` // daytime consumption covered by solar
	UnusedEnergyKWH      float64 `json:"unusedEnergyKWH"`

	// savings
	MonthlySavings  float64 `json:"monthlySavings"`
	YearlySavings   float64 `json:"yearlySavings"`
	PaybackYears    float64 `json:"paybackYears"`
	LifetimeSavings float64 `json:"lifetimeSavings"`
	ROIPercent      float64 `json:"roiPercent"`
	OffsetPercent   float64 `json:"offsetPercent"`
}

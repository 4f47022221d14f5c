package types

import (
	"errors"
	"fmt"

	"golang.org/x/text/currency"
)

// CurrentCatalogVersion is the current version of the catalog struct.
// Increment this value when adding new fields that require default values.
const CurrentCatalogVersion = 3

// DefaultCatalogID is the ID of the built-in residential catalog.
const DefaultCatalogID = "myr_residential"

var (
	// ErrInvalidCatalog is returned when a catalog fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrCatalogNotFound is returned by every catalog lookup, in memory or
	// in storage, when the ID is unknown.
	ErrCatalogNotFound = errors.New("catalog not found")
)

// Package is a purchasable panel package.
type Package struct {
	// Panels is the nameplate panel count of the package.
	Panels int `json:"panels" yaml:"panels"`
	// Cost is the installed price of the package.
	Cost float64 `json:"cost" yaml:"cost"`
}

// CatalogConstants are the fixed physical and financial constants that go
// along with a price table.
type CatalogConstants struct {
	// TariffPerKWH is the price of grid electricity per kWh.
	TariffPerKWH float64 `json:"tariffPerKWH" yaml:"tariffPerKWH"`
	// SunHours is the nominal number of full sun hours per day.
	SunHours float64 `json:"sunHours" yaml:"sunHours"`
	// PanelWatt is the rated output of a single panel in watts.
	PanelWatt float64 `json:"panelWatt" yaml:"panelWatt"`
	// SystemLifeYears is how long the installation is expected to produce.
	SystemLifeYears float64 `json:"systemLifeYears" yaml:"systemLifeYears"`
	// CashRebate is subtracted from the installation cost for upfront payment.
	CashRebate float64 `json:"cashRebate" yaml:"cashRebate"`
}

// Catalog is an ordered price table of panel packages plus the constants
// used to size and price them.
type Catalog struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Currency  string           `json:"currency" yaml:"currency"`
	Packages  []Package        `json:"packages" yaml:"packages"`
	Constants CatalogConstants `json:"constants" yaml:"constants"`
}

// Validate checks the catalog invariants: a known ISO currency, at least
// one package, package sizes positive and strictly ascending, costs
// non-negative and the constants usable as divisors.
func (c Catalog) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCatalog)
	}
	if c.Currency != "" {
		if _, err := currency.ParseISO(c.Currency); err != nil {
			return fmt.Errorf("%w (%s): unknown currency %q", ErrInvalidCatalog, c.ID, c.Currency)
		}
	}
	if len(c.Packages) == 0 {
		return fmt.Errorf("%w (%s): no packages", ErrInvalidCatalog, c.ID)
	}
	prev := 0
	for _, p := range c.Packages {
		if p.Panels <= prev {
			return fmt.Errorf("%w (%s): package sizes must be positive and ascending, got %d after %d", ErrInvalidCatalog, c.ID, p.Panels, prev)
		}
		if p.Cost < 0 {
			return fmt.Errorf("%w (%s): negative cost for %d panels", ErrInvalidCatalog, c.ID, p.Panels)
		}
		prev = p.Panels
	}
	k := c.Constants
	switch {
	case k.TariffPerKWH <= 0:
		return fmt.Errorf("%w (%s): tariff must be positive", ErrInvalidCatalog, c.ID)
	case k.SunHours <= 0:
		return fmt.Errorf("%w (%s): sun hours must be positive", ErrInvalidCatalog, c.ID)
	case k.PanelWatt <= 0:
		return fmt.Errorf("%w (%s): panel wattage must be positive", ErrInvalidCatalog, c.ID)
	case k.SystemLifeYears <= 0:
		return fmt.Errorf("%w (%s): system life must be positive", ErrInvalidCatalog, c.ID)
	case k.CashRebate < 0:
		return fmt.Errorf("%w (%s): cash rebate cannot be negative", ErrInvalidCatalog, c.ID)
	}
	return nil
}

// Sizes returns the package sizes in catalog order.
func (c Catalog) Sizes() []int {
	sizes := make([]int, len(c.Packages))
	for i, p := range c.Packages {
		sizes[i] = p.Panels
	}
	return sizes
}

// Cost returns the cost of the package with the given size.
func (c Catalog) Cost(panels int) (float64, bool) {
	for _, p := range c.Packages {
		if p.Panels == panels {
			return p.Cost, true
		}
	}
	return 0, false
}

// Clone returns a deep copy so callers can't mutate a shared package slice.
func (c Catalog) Clone() Catalog {
	c.Packages = append([]Package(nil), c.Packages...)
	return c
}

// MigrateCatalog migrates a stored catalog to the current version.
// It returns the migrated catalog, a boolean indicating if changes were made, and an error if migration failed.
func MigrateCatalog(c Catalog, currentVersion int) (Catalog, bool, error) {
	if currentVersion >= CurrentCatalogVersion {
		return c, false, nil
	}

	migrated := false
	for version := currentVersion + 1; version <= CurrentCatalogVersion; version++ {
		switch version {
		case 1:
			// version 1: constants moved onto the catalog
			if c.Constants.TariffPerKWH == 0 {
				c.Constants.TariffPerKWH = 0.63
				migrated = true
			}
			if c.Constants.SunHours == 0 {
				c.Constants.SunHours = 3.42
				migrated = true
			}
			if c.Constants.PanelWatt == 0 {
				c.Constants.PanelWatt = 615
				migrated = true
			}
			if c.Constants.SystemLifeYears == 0 {
				c.Constants.SystemLifeYears = 25
				migrated = true
			}
		case 2:
			// version 2: add cash price
			if c.Constants.CashRebate == 0 {
				c.Constants.CashRebate = 2000
				migrated = true
			}
		case 3:
			// version 3: add currency
			if c.Currency == "" {
				c.Currency = "MYR"
				migrated = true
			}
		default:
			return c, false, fmt.Errorf("unknown catalog version: %d", version)
		}
	}

	return c, migrated, nil
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCatalog() Catalog {
	return Catalog{
		ID:       "test",
		Name:     "Test",
		Currency: "MYR",
		Packages: []Package{
			{Panels: 10, Cost: 21000},
			{Panels: 14, Cost: 26000},
		},
		Constants: CatalogConstants{
			TariffPerKWH:    0.63,
			SunHours:        3.42,
			PanelWatt:       615,
			SystemLifeYears: 25,
			CashRebate:      2000,
		},
	}
}

func TestCatalogValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validCatalog().Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		c := validCatalog()
		c.ID = ""
		assert.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
	})

	t.Run("unknown currency", func(t *testing.T) {
		c := validCatalog()
		c.Currency = "XYZQ"
		assert.ErrorContains(t, c.Validate(), "unknown currency")
	})

	t.Run("no packages", func(t *testing.T) {
		c := validCatalog()
		c.Packages = nil
		assert.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
	})

	t.Run("descending sizes", func(t *testing.T) {
		c := validCatalog()
		c.Packages = []Package{{Panels: 14, Cost: 1}, {Panels: 10, Cost: 1}}
		assert.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
	})

	t.Run("duplicate sizes", func(t *testing.T) {
		c := validCatalog()
		c.Packages = []Package{{Panels: 10, Cost: 1}, {Panels: 10, Cost: 2}}
		assert.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
	})

	t.Run("zero size", func(t *testing.T) {
		c := validCatalog()
		c.Packages = []Package{{Panels: 0, Cost: 1}}
		assert.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
	})

	t.Run("negative cost", func(t *testing.T) {
		c := validCatalog()
		c.Packages[0].Cost = -1
		assert.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
	})

	t.Run("zero tariff", func(t *testing.T) {
		c := validCatalog()
		c.Constants.TariffPerKWH = 0
		assert.ErrorContains(t, c.Validate(), "tariff")
	})

	t.Run("zero panel watt", func(t *testing.T) {
		c := validCatalog()
		c.Constants.PanelWatt = 0
		assert.ErrorContains(t, c.Validate(), "panel wattage")
	})
}

func TestCatalogLookup(t *testing.T) {
	c := validCatalog()
	assert.Equal(t, []int{10, 14}, c.Sizes())

	cost, ok := c.Cost(14)
	assert.True(t, ok)
	assert.Equal(t, 26000.0, cost)

	cost, ok = c.Cost(12)
	assert.False(t, ok)
	assert.Equal(t, 0.0, cost)
}

func TestCatalogClone(t *testing.T) {
	c := validCatalog()
	cl := c.Clone()
	cl.Packages[0].Cost = 1
	assert.Equal(t, 21000.0, c.Packages[0].Cost)
}

func TestMigrateCatalog(t *testing.T) {
	t.Run("v1: constant defaults", func(t *testing.T) {
		c, changed, err := MigrateCatalog(Catalog{ID: "old"}, 0)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 0.63, c.Constants.TariffPerKWH)
		assert.Equal(t, 3.42, c.Constants.SunHours)
		assert.Equal(t, 615.0, c.Constants.PanelWatt)
		assert.Equal(t, 25.0, c.Constants.SystemLifeYears)
		assert.Equal(t, 2000.0, c.Constants.CashRebate)
		assert.Equal(t, "MYR", c.Currency)
	})

	t.Run("v1 to v2: cash rebate", func(t *testing.T) {
		old := validCatalog()
		old.Constants.CashRebate = 0
		c, changed, err := MigrateCatalog(old, 1)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 2000.0, c.Constants.CashRebate)
	})

	t.Run("v2 to v3: keeps existing currency", func(t *testing.T) {
		old := validCatalog()
		old.Currency = "SGD"
		c, changed, err := MigrateCatalog(old, 2)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, "SGD", c.Currency)
	})

	t.Run("no change: current version", func(t *testing.T) {
		current := validCatalog()
		c, changed, err := MigrateCatalog(current, CurrentCatalogVersion)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, current, c)
	})
}

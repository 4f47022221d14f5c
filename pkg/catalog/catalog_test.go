package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/raterudder/solarcalc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
catalogs:
  - id: sgd_residential
    name: Residential (SGD)
    currency: SGD
    packages:
      - {panels: 8, cost: 9000}
      - {panels: 12, cost: 12500}
    constants:
      tariffPerKWH: 0.30
      sunHours: 4.1
      panelWatt: 550
      systemLifeYears: 25
      cashRebate: 500
`

func TestDefault(t *testing.T) {
	d := Default()
	require.NoError(t, d.Validate())
	assert.Equal(t, []int{10, 14, 20, 30, 40}, d.Sizes())

	for size, cost := range map[int]float64{10: 21000, 14: 26000, 20: 34000, 30: 43000, 40: 52000} {
		got, ok := d.Cost(size)
		assert.True(t, ok)
		assert.Equal(t, cost, got)
	}
	assert.Equal(t, 2000.0, d.Constants.CashRebate)
}

func TestLoadYAML(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		catalogs, err := LoadYAML(strings.NewReader(testYAML))
		require.NoError(t, err)
		require.Len(t, catalogs, 1)
		c := catalogs[0]
		assert.Equal(t, "sgd_residential", c.ID)
		assert.Equal(t, "SGD", c.Currency)
		assert.Equal(t, []int{8, 12}, c.Sizes())
		assert.Equal(t, 0.30, c.Constants.TariffPerKWH)
		assert.Equal(t, 500.0, c.Constants.CashRebate)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader("catalogs:\n  - id: x\n    tarif: 1\n"))
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader("catalogs: []\n"))
		assert.ErrorContains(t, err, "no catalogs")
	})

	t.Run("invalid catalog", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader(strings.Replace(testYAML, "panels: 12", "panels: 4", 1)))
		assert.ErrorIs(t, err, types.ErrInvalidCatalog)
	})

	t.Run("duplicate id", func(t *testing.T) {
		doubled := testYAML + strings.TrimPrefix(testYAML, "\ncatalogs:\n")
		_, err := LoadYAML(strings.NewReader(doubled))
		assert.ErrorContains(t, err, "duplicate catalog id")
	})
}

func TestMap(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		m := NewMap()
		c, err := m.Get("")
		require.NoError(t, err)
		assert.Equal(t, types.DefaultCatalogID, c.ID)
		assert.Equal(t, types.DefaultCatalogID, m.DefaultID())
	})

	t.Run("unknown", func(t *testing.T) {
		m := NewMap()
		_, err := m.Get("nope")
		assert.ErrorIs(t, err, ErrCatalogNotFound)
		assert.ErrorIs(t, err, types.ErrCatalogNotFound)
		assert.ErrorIs(t, m.SetDefault("nope"), ErrCatalogNotFound)
	})

	t.Run("set and list", func(t *testing.T) {
		m := NewMap()
		c := Default()
		c.ID = "another"
		require.NoError(t, m.Set(c))
		require.NoError(t, m.SetDefault("another"))

		got, err := m.Get("")
		require.NoError(t, err)
		assert.Equal(t, "another", got.ID)

		list := m.List()
		require.Len(t, list, 2)
		assert.Equal(t, "another", list[0].ID)
		assert.Equal(t, types.DefaultCatalogID, list[1].ID)
	})

	t.Run("rejects invalid", func(t *testing.T) {
		m := NewMap()
		assert.ErrorIs(t, m.Set(types.Catalog{ID: "bad"}), types.ErrInvalidCatalog)
	})

	t.Run("returned catalogs are copies", func(t *testing.T) {
		m := NewMap()
		c, err := m.Get("")
		require.NoError(t, err)
		c.Packages[0].Cost = 1
		again, err := m.Get("")
		require.NoError(t, err)
		assert.Equal(t, 21000.0, again.Packages[0].Cost)
	})

	t.Run("concurrent", func(t *testing.T) {
		m := NewMap()
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _ = m.Get("")
			}()
			go func() {
				defer wg.Done()
				_ = m.List()
			}()
		}
		wg.Wait()
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))

	m := NewMap()
	require.NoError(t, m.loadFile(path))
	c, err := m.Get("sgd_residential")
	require.NoError(t, err)
	assert.Equal(t, "SGD", c.Currency)

	assert.Error(t, m.loadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

package catalog

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/raterudder/solarcalc/pkg/types"
	"gopkg.in/yaml.v3"
)

var ErrCatalogNotFound = types.ErrCatalogNotFound

// Default returns the built-in residential catalog.
func Default() types.Catalog {
	return types.Catalog{
		ID:       types.DefaultCatalogID,
		Name:     "Residential (MYR)",
		Currency: "MYR",
		Packages: []types.Package{
			{Panels: 10, Cost: 21000},
			{Panels: 14, Cost: 26000},
			{Panels: 20, Cost: 34000},
			{Panels: 30, Cost: 43000},
			{Panels: 40, Cost: 52000},
		},
		Constants: types.CatalogConstants{
			TariffPerKWH:    0.63,
			SunHours:        3.42,
			PanelWatt:       615,
			SystemLifeYears: 25,
			CashRebate:      2000,
		},
	}
}

type yamlFile struct {
	Catalogs []types.Catalog `yaml:"catalogs"`
}

// LoadYAML reads catalogs from a YAML document of the form
//
//	catalogs:
//	  - id: ...
//	    packages:
//	      - {panels: 10, cost: 21000}
//
// Every catalog is validated.
func LoadYAML(r io.Reader) ([]types.Catalog, error) {
	var f yamlFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode catalogs: %w", err)
	}
	if len(f.Catalogs) == 0 {
		return nil, errors.New("no catalogs defined")
	}
	seen := make(map[string]bool, len(f.Catalogs))
	for _, c := range f.Catalogs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate catalog id: %s", c.ID)
		}
		seen[c.ID] = true
	}
	return f.Catalogs, nil
}

// Map manages the catalogs known to this process.
type Map struct {
	mu        sync.Mutex
	catalogs  map[string]types.Catalog
	defaultID string
}

// NewMap creates a Map containing only the built-in catalog.
func NewMap() *Map {
	d := Default()
	return &Map{
		catalogs:  map[string]types.Catalog{d.ID: d},
		defaultID: d.ID,
	}
}

// Get returns the catalog with the given ID. An empty ID returns the default.
func (m *Map) Get(id string) (types.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.defaultID
	}
	c, ok := m.catalogs[id]
	if !ok {
		return types.Catalog{}, fmt.Errorf("%w: %s", ErrCatalogNotFound, id)
	}
	return c.Clone(), nil
}

// Set validates and adds or replaces a catalog.
func (m *Map) Set(c types.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogs[c.ID] = c.Clone()
	return nil
}

// DefaultID returns the ID used when a request doesn't name a catalog.
func (m *Map) DefaultID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaultID
}

// SetDefault changes the default catalog. The catalog must already be known.
func (m *Map) SetDefault(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.catalogs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrCatalogNotFound, id)
	}
	m.defaultID = id
	return nil
}

// List returns all catalogs sorted by ID.
func (m *Map) List() []types.Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]types.Catalog, 0, len(m.catalogs))
	for _, c := range m.catalogs {
		list = append(list, c.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

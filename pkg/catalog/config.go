package catalog

import (
	"fmt"
	"os"

	"github.com/levenlabs/go-lflag"
)

// Configured sets up the catalog Map based on flags. Catalogs from
// catalog-file are added next to the built-in one.
func Configured() *Map {
	file := lflag.String("catalog-file", "", "YAML file with additional price catalogs")
	defaultID := lflag.String("default-catalog", "", "ID of the catalog used when a request doesn't specify one")

	m := NewMap()

	lflag.Do(func() {
		if *file != "" {
			if err := m.loadFile(*file); err != nil {
				panic(fmt.Sprintf("failed to load catalogs: %v", err))
			}
		}
		if *defaultID != "" {
			if err := m.SetDefault(*defaultID); err != nil {
				panic(fmt.Sprintf("invalid default-catalog: %v", err))
			}
		}
	})

	return m
}

func (m *Map) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	catalogs, err := LoadYAML(f)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	for _, c := range catalogs {
		if err := m.Set(c); err != nil {
			return err
		}
	}
	return nil
}

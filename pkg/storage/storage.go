package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarcalc/pkg/types"
)

var ErrCatalogNotFound = types.ErrCatalogNotFound

// StoredCatalog is a catalog along with the version it was stored with.
type StoredCatalog struct {
	Catalog types.Catalog
	Version int
}

// Database defines the interface for persisting price catalogs.
// Estimates themselves are never stored.
type Database interface {
	// GetCatalog returns the catalog and the version it was stored with.
	// It returns ErrCatalogNotFound when there is no such catalog.
	GetCatalog(ctx context.Context, id string) (types.Catalog, int, error)
	SetCatalog(ctx context.Context, id string, catalog types.Catalog, version int) error
	ListCatalogs(ctx context.Context) ([]StoredCatalog, error)

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "none", "Storage provider to use (available: none, firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "none", "":
			p.Database = None{}
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}

// None is a Database with nothing in it. It's used when catalogs only come
// from the built-in table and catalog files.
type None struct{}

var _ Database = None{}

func (None) GetCatalog(ctx context.Context, id string) (types.Catalog, int, error) {
	return types.Catalog{}, 0, fmt.Errorf("%w: %s", ErrCatalogNotFound, id)
}

func (None) SetCatalog(ctx context.Context, id string, catalog types.Catalog, version int) error {
	return errors.New("storage provider none is read-only")
}

func (None) ListCatalogs(ctx context.Context) ([]StoredCatalog, error) {
	return nil, nil
}

func (None) Close() error {
	return nil
}

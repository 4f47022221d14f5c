package storagemock

import (
	"context"

	"github.com/raterudder/solarcalc/pkg/storage"
	"github.com/raterudder/solarcalc/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) GetCatalog(ctx context.Context, id string) (types.Catalog, int, error) {
	args := m.Called(ctx, id)
	// return not found if not specified
	if len(args) > 0 {
		return args.Get(0).(types.Catalog), args.Int(1), args.Error(2)
	}
	return types.Catalog{}, 0, storage.ErrCatalogNotFound
}

func (m *MockDatabase) SetCatalog(ctx context.Context, id string, catalog types.Catalog, version int) error {
	args := m.Called(ctx, id, catalog, version)
	return args.Error(0)
}

func (m *MockDatabase) ListCatalogs(ctx context.Context) ([]storage.StoredCatalog, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		return args.Get(0).([]storage.StoredCatalog), args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}

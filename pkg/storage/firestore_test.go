package storage

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/raterudder/solarcalc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emulatorHost = "127.0.0.1:8087"

func TestFirestoreProvider(t *testing.T) {
	conn, err := net.DialTimeout("tcp", emulatorHost, time.Second)
	if err != nil {
		t.Skipf("firestore emulator not running on %s", emulatorHost)
	}
	conn.Close()
	os.Setenv("FIRESTORE_EMULATOR_HOST", emulatorHost)

	// Use a random database for isolation
	randDB := fmt.Sprintf("test-db-%d", time.Now().UnixNano())
	f := &FirestoreProvider{
		projectID: "test-project-id",
		database:  randDB,
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
	})

	catalog := types.Catalog{
		Name:     "Stored",
		Currency: "MYR",
		Packages: []types.Package{{Panels: 10, Cost: 20000}, {Panels: 20, Cost: 33000}},
		Constants: types.CatalogConstants{
			TariffPerKWH:    0.57,
			SunHours:        3.6,
			PanelWatt:       600,
			SystemLifeYears: 20,
			CashRebate:      1500,
		},
	}

	t.Run("Catalogs", func(t *testing.T) {
		require.NoError(t, f.SetCatalog(ctx, "stored", catalog, types.CurrentCatalogVersion))

		got, version, err := f.GetCatalog(ctx, "stored")
		require.NoError(t, err)
		assert.Equal(t, types.CurrentCatalogVersion, version)
		assert.Equal(t, "stored", got.ID)
		assert.Equal(t, catalog.Packages, got.Packages)
		assert.Equal(t, catalog.Constants, got.Constants)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, _, err := f.GetCatalog(ctx, "missing")
		assert.ErrorIs(t, err, ErrCatalogNotFound)
	})

	t.Run("EmptyID", func(t *testing.T) {
		_, _, err := f.GetCatalog(ctx, "")
		assert.ErrorContains(t, err, "catalog id cannot be empty")
		assert.ErrorContains(t, f.SetCatalog(ctx, "", catalog, 1), "catalog id cannot be empty")
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, f.SetCatalog(ctx, "another", catalog, 1))

		list, err := f.ListCatalogs(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "another", list[0].Catalog.ID)
		assert.Equal(t, 1, list[0].Version)
		assert.Equal(t, "stored", list[1].Catalog.ID)
		assert.Equal(t, types.CurrentCatalogVersion, list[1].Version)
	})
}

func TestNone(t *testing.T) {
	ctx := context.Background()
	var db Database = None{}

	_, _, err := db.GetCatalog(ctx, types.DefaultCatalogID)
	assert.ErrorIs(t, err, ErrCatalogNotFound)

	assert.Error(t, db.SetCatalog(ctx, "x", types.Catalog{}, 1))

	list, err := db.ListCatalogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.NoError(t, db.Close())
}

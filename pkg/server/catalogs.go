package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/raterudder/solarcalc/pkg/estimate"
	"github.com/raterudder/solarcalc/pkg/log"
	"github.com/raterudder/solarcalc/pkg/storage"
	"github.com/raterudder/solarcalc/pkg/types"
)

// getCatalogWithMigration looks the catalog up in storage first and falls
// back to the in-process catalogs. Stored catalogs on an older version are
// migrated and written back.
func (s *Server) getCatalogWithMigration(ctx context.Context, id string) (types.Catalog, error) {
	if id == "" {
		id = s.catalogs.DefaultID()
	}

	c, version, err := s.storage.GetCatalog(ctx, id)
	if errors.Is(err, storage.ErrCatalogNotFound) {
		return s.catalogs.Get(id)
	}
	if err != nil {
		return types.Catalog{}, err
	}

	if version < types.CurrentCatalogVersion {
		log.Ctx(ctx).InfoContext(ctx, "migrating catalog", slog.String("catalogID", id), slog.Int("oldVersion", version), slog.Int("newVersion", types.CurrentCatalogVersion))
		migrated, changed, err := types.MigrateCatalog(c, version)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to migrate catalog", slog.String("catalogID", id), slog.Int("currentVersion", version), slog.Any("error", err))
		} else if changed {
			c = migrated
			if err := s.storage.SetCatalog(ctx, id, migrated, types.CurrentCatalogVersion); err != nil {
				// the migrated catalog still serves this request
				log.Ctx(ctx).ErrorContext(ctx, "failed to save migrated catalog", slog.String("catalogID", id), slog.Any("error", err))
			} else {
				log.Ctx(ctx).InfoContext(ctx, "saved migrated catalog", slog.String("catalogID", id), slog.Int("newVersion", types.CurrentCatalogVersion))
			}
		}
	}
	return c, nil
}

// getEngine returns an engine for the named catalog.
func (s *Server) getEngine(ctx context.Context, id string) (*estimate.Engine, error) {
	c, err := s.getCatalogWithMigration(ctx, id)
	if err != nil {
		return nil, err
	}
	return estimate.New(c)
}

type catalogRes struct {
	types.Catalog
	Default bool `json:"default"`
}

// listCatalogs merges stored catalogs over the in-process ones. A stored
// catalog replaces an in-process catalog with the same ID. Stored catalogs
// are migrated the same way estimates see them but aren't written back.
func (s *Server) listCatalogs(ctx context.Context) ([]catalogRes, error) {
	byID := make(map[string]types.Catalog)
	for _, c := range s.catalogs.List() {
		byID[c.ID] = c
	}
	stored, err := s.storage.ListCatalogs(ctx)
	if err != nil {
		return nil, err
	}
	for _, sc := range stored {
		c := sc.Catalog
		if sc.Version < types.CurrentCatalogVersion {
			migrated, _, err := types.MigrateCatalog(c, sc.Version)
			if err != nil {
				log.Ctx(ctx).ErrorContext(ctx, "failed to migrate catalog", slog.String("catalogID", c.ID), slog.Int("currentVersion", sc.Version), slog.Any("error", err))
			} else {
				c = migrated
			}
		}
		byID[c.ID] = c
	}

	defaultID := s.catalogs.DefaultID()
	list := make([]catalogRes, 0, len(byID))
	for id, c := range byID {
		list = append(list, catalogRes{Catalog: c, Default: id == defaultID})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *Server) handleListCatalogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := s.listCatalogs(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list catalogs", slog.Any("error", err))
		writeJSONError(w, "failed to list catalogs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		panic(http.ErrAbortHandler)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarcalc/pkg/catalog"
	"github.com/raterudder/solarcalc/pkg/log"
	"github.com/raterudder/solarcalc/pkg/storage"
	"github.com/raterudder/solarcalc/pkg/types"
)

// seed writes every configured catalog (the built-in one plus any from
// -catalog-file) into storage at the current catalog version. Run it with
// -storage-provider=firestore, it talks to the local emulator unless
// FIRESTORE_EMULATOR_HOST says otherwise.
func main() {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	}
	c := catalog.Configured()
	s := storage.Configured()
	lflag.Configure()

	ctx := context.Background()
	defer s.Close()

	log.Ctx(ctx).InfoContext(ctx, "seeding catalogs")

	for _, cat := range c.List() {
		if err := s.SetCatalog(ctx, cat.ID, cat, types.CurrentCatalogVersion); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed catalog", slog.String("catalogID", cat.ID), slog.Any("error", err))
			os.Exit(1)
		}
		log.Ctx(ctx).InfoContext(ctx, "seeded catalog", slog.String("catalogID", cat.ID), slog.Int("packages", len(cat.Packages)))
	}

	stored, err := s.ListCatalogs(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list catalogs", slog.Any("error", err))
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "seeding complete", slog.Int("stored", len(stored)))
}

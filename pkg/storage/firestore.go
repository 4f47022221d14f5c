package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarcalc/pkg/log"
	"github.com/raterudder/solarcalc/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const catalogsCollection = "catalogs"

// FirestoreProvider implements the Database interface using Google Cloud Firestore.
// Each catalog is a document in the "catalogs" collection keyed by catalog ID.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

var _ Database = (*FirestoreProvider)(nil)

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// the project ID may be inferred from the environment
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// GetCatalog retrieves a catalog from the "catalogs/{id}" document.
func (f *FirestoreProvider) GetCatalog(ctx context.Context, id string) (types.Catalog, int, error) {
	if id == "" {
		return types.Catalog{}, 0, fmt.Errorf("catalog id cannot be empty")
	}
	doc, err := f.client.Collection(catalogsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Catalog{}, 0, fmt.Errorf("%w: %s", ErrCatalogNotFound, id)
		}
		return types.Catalog{}, 0, fmt.Errorf("failed to fetch catalog doc: %w", err)
	}
	return decodeCatalogDoc(ctx, doc)
}

// SetCatalog saves a catalog to the "catalogs/{id}" document.
// It stores the catalog as a JSON string for portability.
func (f *FirestoreProvider) SetCatalog(ctx context.Context, id string, catalog types.Catalog, version int) error {
	if id == "" {
		return fmt.Errorf("catalog id cannot be empty")
	}
	catalog.ID = id
	jsonBytes, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	_, err = f.client.Collection(catalogsCollection).Doc(id).Set(ctx, map[string]interface{}{
		"json":    string(jsonBytes),
		"version": version,
	})
	if err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// ListCatalogs returns every stored catalog ordered by ID. Catalogs are
// returned as stored, without migration.
func (f *FirestoreProvider) ListCatalogs(ctx context.Context) ([]StoredCatalog, error) {
	iter := f.client.Collection(catalogsCollection).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var catalogs []StoredCatalog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating catalogs: %w", err)
		}
		c, version, err := decodeCatalogDoc(ctx, doc)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, StoredCatalog{Catalog: c, Version: version})
	}
	return catalogs, nil
}

func decodeCatalogDoc(ctx context.Context, doc *firestore.DocumentSnapshot) (types.Catalog, int, error) {
	// Read version if available (default 0)
	var version int
	if v, err := doc.DataAt("version"); err == nil {
		if vInt, ok := v.(int64); ok {
			version = int(vInt)
		}
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "catalog doc missing json", slog.String("catalogID", doc.Ref.ID))
		return types.Catalog{}, 0, fmt.Errorf("catalog document %s missing 'json' field: %w", doc.Ref.ID, err)
	}

	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "catalog doc json not string", slog.String("catalogID", doc.Ref.ID))
		return types.Catalog{}, 0, fmt.Errorf("catalog document %s 'json' field is not a string", doc.Ref.ID)
	}

	var c types.Catalog
	if err := json.Unmarshal([]byte(jsonStr), &c); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal catalog json", slog.String("catalogID", doc.Ref.ID), slog.Any("err", err))
		return types.Catalog{}, 0, fmt.Errorf("failed to unmarshal catalog json (id=%s): %w", doc.Ref.ID, err)
	}
	// the document ID wins over whatever was in the blob
	c.ID = doc.Ref.ID
	return c, version, nil
}

package datasets

import (
	"context"

	"github.com/jotelha/jlhfw/internal/domain/spec"
)

// DatasetConnector is an interface for querying dataset metadata and
// content from a dataset lookup server. The current implementation
// speaks HTTP to a dtool-flavoured lookup service, but any backend that
// resolves dataset URIs can stand in.
type DatasetConnector interface {
	// Readme retrieves the dataset's readme document by URI.
	Readme(ctx context.Context, uri string) (spec.Spec, error)

	// Manifest retrieves the dataset's item manifest by URI.
	Manifest(ctx context.Context, uri string) (*Manifest, error)

	// FetchItem downloads a single dataset item to destPath and
	// returns the number of bytes written.
	FetchItem(ctx context.Context, uri, itemID, destPath string) (int64, error)
}

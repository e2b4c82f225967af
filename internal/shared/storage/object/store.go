package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	// Save stores the reader under the user's namespace with a generated
	// unique prefix and returns the storage key.
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// SaveWithKey stores the reader at an exact storage key, overwriting
	// any previous object. Used for derived artifacts next to an upload.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

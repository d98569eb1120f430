// Package listing reconstructs the uploaded-files view from store state
// alone, pairing every stored object with a freshly presigned share link.
package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/knowhyco/knowyfile/internal/logging"
	sc "github.com/knowhyco/knowyfile/internal/server/config"
	"github.com/knowhyco/knowyfile/internal/server/keygen"
	"github.com/knowhyco/knowyfile/internal/server/objstore"
)

// Store is the slice of the object store the listing service needs.
type Store interface {
	List(ctx context.Context, prefix string) ([]objstore.ObjectInfo, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Entry is one previously uploaded file as presented to clients.
type Entry struct {
	Name         string    `json:"name"`
	ShareLink    string    `json:"shareLink"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

type Service struct {
	store  Store
	config *sc.Config
	logger logging.Logger
}

func NewService(store Store, config *sc.Config, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		config: config,
		logger: logger.With("module", "listing"),
	}
}

// List enumerates every object under the upload namespace and returns it
// with its recovered display name and a fresh presigned link. Links are
// never cached across calls, so a client that lists immediately always
// receives links with a full TTL ahead of them.
//
// Results keep the store's listing order. Any store failure fails the whole
// call; there is no meaningful partial listing to return.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	objects, err := s.store.List(ctx, keygen.Prefix)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}

	entries := make([]Entry, 0, len(objects))
	for _, obj := range objects {
		url, err := s.store.PresignGet(ctx, obj.Key, s.config.LinkTTL)
		if err != nil {
			return nil, fmt.Errorf("presigning %s: %w", obj.Key, err)
		}

		entries = append(entries, Entry{
			Name:         keygen.DisplayName(obj.Key),
			ShareLink:    url,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	s.logger.Debug(ctx, "listed uploads", "count", len(entries))
	return entries, nil
}

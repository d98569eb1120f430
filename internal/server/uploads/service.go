// Package uploads drives the per-file upload sequence: key generation,
// storing bytes, attaching a presigned share link and tracking aggregate
// progress across a batch.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/knowhyco/knowyfile/internal/logging"
	sc "github.com/knowhyco/knowyfile/internal/server/config"
	"github.com/knowhyco/knowyfile/internal/server/keygen"
	"github.com/knowhyco/knowyfile/internal/shared"
)

// Store is the slice of the object store the coordinator needs.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Notifier receives one notification per failed item. Implementations must
// not be handed raw internal errors; cause is a short human-readable string.
type Notifier interface {
	UploadFailed(ctx context.Context, name, cause string)
}

// ProgressFunc observes aggregate batch progress in percent. Values are
// non-decreasing within one UploadAll call and reach 100 once every item has
// been processed.
type ProgressFunc func(percent float64)

// Item is one file the caller intends to store.
//
// ShareLink is empty until the item has been stored and presigned; it is set
// exactly once and never cleared. Key outlives a presign failure so that a
// retry can re-presign without re-uploading the bytes.
type Item struct {
	Name        string
	Body        []byte
	ContentType string
	Key         string
	ShareLink   string
}

// Reason tags a Failure with the step that produced it.
type Reason string

const (
	// ReasonPutFailed means the object was never stored.
	ReasonPutFailed Reason = "put_failed"
	// ReasonPresignFailed means the object is stored but unshared.
	ReasonPresignFailed Reason = "presign_failed"
	// ReasonCanceled means the batch was canceled before this item's turn.
	ReasonCanceled Reason = "canceled"
)

// Failure records one item that did not reach a usable share link.
type Failure struct {
	Name   string
	Reason Reason
	Err    error
}

// Cause returns the short human-readable cause for this failure, safe to
// show to users. Internal error detail stays in Err.
func (f Failure) Cause() string {
	if f.Reason == ReasonCanceled {
		return "canceled"
	}
	return shortCause(f.Err)
}

// Service is the upload coordinator. It assumes single-writer access to the
// item slice for the duration of an UploadAll call; concurrent calls against
// the same slice need external synchronization.
type Service struct {
	store    Store
	notifier Notifier
	config   *sc.Config
	logger   logging.Logger
}

func NewService(store Store, notifier Notifier, config *sc.Config, logger logging.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		config:   config,
		logger:   logger.With("module", "uploads"),
	}
}

// UploadAll processes items strictly in order, one store round trip at a
// time. Items that already carry a share link are skipped, which makes
// re-invoking with the same batch after a partial failure cheap: only the
// items that previously failed touch the network again.
//
// A failing item never aborts the batch; it is recorded and processing moves
// on. The context is checked once per item, before any network call for it;
// when it is done, every remaining item is reported as canceled.
//
// After return, every item either has a non-empty ShareLink or exactly one
// entry in the failure list.
func (s *Service) UploadAll(ctx context.Context, items []*Item, onProgress ProgressFunc) []Failure {
	var failures []Failure

	total := len(items)
	if total == 0 {
		// Vacuous success: nothing to do, but the batch is complete.
		s.reportProgress(onProgress, 100)
		return nil
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			for _, rest := range items[i:] {
				if rest.ShareLink != "" {
					continue
				}
				failures = append(failures, Failure{Name: rest.Name, Reason: ReasonCanceled, Err: err})
				s.notifier.UploadFailed(ctx, rest.Name, "canceled")
			}
			s.logger.Warn(ctx, "batch canceled", "processed", i, "total", total)
			return failures
		}

		if item.ShareLink != "" {
			s.reportProgress(onProgress, percent(i+1, total))
			continue
		}

		if fail := s.uploadOne(ctx, item); fail != nil {
			failures = append(failures, *fail)
			s.notifier.UploadFailed(ctx, fail.Name, fail.Cause())
			s.logger.Error(ctx, "upload failed", "name", fail.Name, "reason", string(fail.Reason), "error", fail.Err.Error())
		}

		s.reportProgress(onProgress, percent(i+1, total))
	}

	s.logger.Info(ctx, "batch complete", "total", total, "failed", len(failures))
	return failures
}

// uploadOne runs the store+presign sequence for a single item. A non-empty
// Key with an empty ShareLink marks an item whose bytes are already durable,
// so only the presign step is repeated.
func (s *Service) uploadOne(ctx context.Context, item *Item) *Failure {
	if item.Key == "" {
		key := keygen.Generate(item.Name)

		contentType := item.ContentType
		if contentType == "" {
			contentType = mimetype.Detect(item.Body).String()
		}

		if err := s.store.Put(ctx, key, item.Body, contentType); err != nil {
			return &Failure{Name: item.Name, Reason: ReasonPutFailed, Err: err}
		}
		item.Key = key
	}

	url, err := s.store.PresignGet(ctx, item.Key, s.config.LinkTTL)
	if err != nil {
		return &Failure{
			Name:   item.Name,
			Reason: ReasonPresignFailed,
			Err:    fmt.Errorf("%w: %w", shared.ErrorPresignFailed, err),
		}
	}

	item.ShareLink = url
	return nil
}

func (s *Service) reportProgress(onProgress ProgressFunc, pct float64) {
	if onProgress != nil {
		onProgress(pct)
	}
}

func percent(processed, total int) float64 {
	return float64(processed) / float64(total) * 100
}

// shortCause reduces an internal error to the short string shown to users.
func shortCause(err error) string {
	switch {
	case errors.Is(err, shared.ErrorPresignFailed):
		return shared.ErrorPresignFailed.Error()
	case errors.Is(err, shared.ErrorStoreUnavailable):
		return shared.ErrorStoreUnavailable.Error()
	case errors.Is(err, shared.ErrorAccessDenied):
		return shared.ErrorAccessDenied.Error()
	case errors.Is(err, shared.ErrorNotFound):
		return shared.ErrorNotFound.Error()
	default:
		return "upload failed"
	}
}

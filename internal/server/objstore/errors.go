package objstore

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/knowhyco/knowyfile/internal/shared"
)

// StoreError wraps a failed store operation with the operation name and the
// object key it was acting on. The underlying error is always one of the
// shared sentinels (or wraps one), so callers can classify failures with
// errors.Is.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("objstore.%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("objstore.%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(op, key string, err error) *StoreError {
	return &StoreError{Op: op, Key: key, Err: err}
}

// classify maps an AWS SDK error onto the shared error taxonomy.
//
// Missing objects map to ErrorNotFound, credential and permission problems
// to ErrorAccessDenied (fatal, not retryable), and everything else, network
// timeouts included, to ErrorStoreUnavailable (transient, retryable).
// The original SDK error stays in the chain for logging.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", shared.ErrorNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %w", shared.ErrorNotFound, err)
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %w", shared.ErrorAccessDenied, err)
		}
	}

	return fmt.Errorf("%w: %w", shared.ErrorStoreUnavailable, err)
}

package shared

import "errors"

var (

	// common errors
	ErrorNotFound   = errors.New("not found")
	ErrorValidation = errors.New("validation error")

	// store-specific errors
	ErrorStoreUnavailable = errors.New("object store unavailable")
	ErrorAccessDenied     = errors.New("access denied")
	ErrorPresignFailed    = errors.New("presign failed")

	// upload-specific errors
	ErrorNoFile       = errors.New("no file uploaded")
	ErrorSizeExceeded = errors.New("file size exceeds limit")
)

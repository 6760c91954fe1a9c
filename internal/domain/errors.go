package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserInactive         = errors.New("user is inactive")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrDocumentNotExtracted = errors.New("document has not been extracted yet")
	ErrQuotaExceeded        = errors.New("monthly document quota exceeded")
	ErrNoMetricsForDay      = errors.New("no metrics recorded for the requested day")
	ErrInvalidSample        = errors.New("invalid health sample")
)

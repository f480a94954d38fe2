package apperrors

import "errors"

var (
	ErrParse             = errors.New("roster file could not be parsed")
	ErrPersistence       = errors.New("roster storage failed")
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrImportInProgress  = errors.New("an import is already in progress")
	ErrStaleResponse     = errors.New("response superseded by a newer request")
	ErrEmptyUpload       = errors.New("uploaded file is empty")
)

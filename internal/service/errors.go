package service

import "errors"

// ErrAuthRequired indicates no authenticated actor was supplied. Raised
// before any write is attempted.
var ErrAuthRequired = errors.New("authentication required")

// ErrNotFound indicates a referenced document is missing. Wrapped messages
// name the entity.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates a malformed payload or cross-field mismatch.
var ErrValidation = errors.New("validation failed")

// ErrInvalidState indicates the operation is not permitted from the current
// application or assignment status.
var ErrInvalidState = errors.New("invalid state")

// ErrDuplicateAssignment indicates a test assignment already exists for the
// application.
var ErrDuplicateAssignment = errors.New("a test is already assigned for this application")

// ErrTransientStore indicates the underlying transaction aborted or the
// store was unreachable; the call is safe to retry.
var ErrTransientStore = errors.New("transient store failure")

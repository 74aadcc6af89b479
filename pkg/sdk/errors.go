package gallerysrc

import "github.com/kailas-cloud/gallerysrc/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrFormat               = domain.ErrFormat
	ErrTransport            = domain.ErrTransport
	ErrScriptEvaluation     = domain.ErrScriptEvaluation
	ErrUnsupportedOperation = domain.ErrUnsupportedOperation
	ErrInvalidArgument      = domain.ErrInvalidArgument
	ErrNoMapping            = domain.ErrNoMapping
)

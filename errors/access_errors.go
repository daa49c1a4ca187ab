// errors/access_errors.go
package errors

import "errors"

var (
	ErrInvalidAccessRequest = errors.New("invalid access request")
	ErrUnknownResourceKind  = errors.New("unknown resource kind")
	ErrAccessDenied         = errors.New("access denied")
	ErrRateLimit            = errors.New("rate limit check failed")
)

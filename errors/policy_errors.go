// errors/policy_errors.go
package errors

import "errors"

var (
	ErrInvalidPolicyData = errors.New("invalid policy data")
	ErrInvalidCondition  = errors.New("invalid condition")
	ErrInvalidReference  = errors.New("invalid attribute reference")
	ErrInvalidLiteral    = errors.New("invalid literal value")
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrPolicySource      = errors.New("policy source unavailable")
	ErrInternalServer    = errors.New("internal server error")
)

// util/validation_util.go

package util

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	"github.com/dev-mohitbeniwal/echo/abac/model"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidatePolicy checks the document fields. The condition tree itself is
// checked when the policy is compiled.
func (v *ValidationUtil) ValidatePolicy(policy model.Policy) error {
	if err := v.validate.Struct(policy); err != nil {
		return fmt.Errorf("%w: %v", echo_errors.ErrInvalidPolicyData, err)
	}
	return nil
}

func (v *ValidationUtil) ValidatePolicies(policies []model.Policy) error {
	var errs error
	for i, policy := range policies {
		if err := v.ValidatePolicy(policy); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("policy %d (%q): %w", i, policy.Name, err))
		}
	}
	return errs
}

// ValidateAccessRequest checks the request shape and that the resource
// variant matches the declared type.
func (v *ValidationUtil) ValidateAccessRequest(request *pdp_model.AccessRequest) error {
	if request == nil {
		return fmt.Errorf("%w: request is empty", echo_errors.ErrInvalidAccessRequest)
	}
	if err := v.validate.Struct(request); err != nil {
		return fmt.Errorf("%w: %v", echo_errors.ErrInvalidAccessRequest, err)
	}

	resource := request.Context.Resource
	switch request.Type {
	case pdp_model.ResourceKindPost:
		if resource.Post == nil || resource.User != nil {
			return fmt.Errorf("%w: resource does not match type %q", echo_errors.ErrInvalidAccessRequest, request.Type)
		}
	case pdp_model.ResourceKindUser:
		if resource.User == nil || resource.Post != nil {
			return fmt.Errorf("%w: resource does not match type %q", echo_errors.ErrInvalidAccessRequest, request.Type)
		}
	}
	return nil
}

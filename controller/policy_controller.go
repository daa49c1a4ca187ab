// controller/policy_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	"github.com/dev-mohitbeniwal/echo/abac/service"
	"github.com/dev-mohitbeniwal/echo/abac/util"
)

// PolicyController exposes the loaded policy set.
type PolicyController struct {
	decisionService service.IDecisionService
}

func NewPolicyController(decisionService service.IDecisionService) *PolicyController {
	return &PolicyController{
		decisionService: decisionService,
	}
}

// RegisterRoutes registers the API routes behind the given middleware
func (pc *PolicyController) RegisterRoutes(r *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	policies := r.Group("/policies", middleware...)
	{
		policies.GET("", pc.ListPolicies)
		policies.POST("/reload", pc.ReloadPolicies)
	}
}

// ListPolicies endpoint
func (pc *PolicyController) ListPolicies(c *gin.Context) {
	listing, err := pc.decisionService.ListPolicies(c.Request.Context())
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// ReloadPolicies endpoint
func (pc *PolicyController) ReloadPolicies(c *gin.Context) {
	result, err := pc.decisionService.ReloadPolicies(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, echo_errors.ErrInvalidPolicyData),
			errors.Is(err, echo_errors.ErrInvalidCondition),
			errors.Is(err, echo_errors.ErrInvalidReference),
			errors.Is(err, echo_errors.ErrInvalidLiteral),
			errors.Is(err, echo_errors.ErrUnknownOperator):
			util.RespondWithError(c, http.StatusUnprocessableEntity, "Policy set rejected", err)
		case errors.Is(err, echo_errors.ErrPolicySource):
			util.RespondWithError(c, http.StatusServiceUnavailable, "Policy source unavailable", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to reload policies", echo_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

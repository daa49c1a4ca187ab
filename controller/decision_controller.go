// controller/decision_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
	"github.com/dev-mohitbeniwal/echo/abac/service"
	"github.com/dev-mohitbeniwal/echo/abac/util"
)

type DecisionController struct {
	decisionService service.IDecisionService
}

func NewDecisionController(decisionService service.IDecisionService) *DecisionController {
	return &DecisionController{
		decisionService: decisionService,
	}
}

// RegisterRoutes registers the API routes
func (dc *DecisionController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/decisions", dc.Decide)
	r.POST("/enforce", dc.Enforce)
}

// Decide endpoint returns the full decision.
func (dc *DecisionController) Decide(c *gin.Context) {
	var request pdp_model.AccessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", err)
		return
	}

	decision, err := dc.decisionService.Decide(c.Request.Context(), &request)
	if err != nil {
		dc.respondWithDecisionError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Enforce endpoint returns only whether the request is allowed.
func (dc *DecisionController) Enforce(c *gin.Context) {
	var request pdp_model.AccessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", err)
		return
	}

	allowed, err := dc.decisionService.Enforce(c.Request.Context(), &request)
	if err != nil {
		dc.respondWithDecisionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allowed": allowed})
}

func (dc *DecisionController) respondWithDecisionError(c *gin.Context, err error) {
	if errors.Is(err, echo_errors.ErrInvalidAccessRequest) {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", err)
		return
	}
	util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate access request", echo_errors.ErrInternalServer)
}

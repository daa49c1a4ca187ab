// middleware/enforcement.go

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	logger "github.com/dev-mohitbeniwal/echo/abac/logging"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
	"github.com/dev-mohitbeniwal/echo/abac/service"
	"github.com/dev-mohitbeniwal/echo/abac/util"
)

// Identity headers set by the upstream gateway after authentication.
const (
	HeaderUserID         = "X-User-Id"
	HeaderUserRoles      = "X-User-Roles"
	HeaderUserDepartment = "X-User-Department"
)

// RequestBuilder derives the access request for an incoming HTTP request.
type RequestBuilder func(c *gin.Context) (*pdp_model.AccessRequest, error)

// Enforce gates the handler chain on an allow decision.
func Enforce(decisions service.IDecisionService, build RequestBuilder) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, err := build(c)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", err)
			c.Abort()
			return
		}

		allowed, err := decisions.Enforce(c.Request.Context(), request)
		if err != nil {
			if errors.Is(err, echo_errors.ErrInvalidAccessRequest) {
				util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", err)
			} else {
				util.RespondWithError(c, http.StatusInternalServerError, "Access check failed", err)
			}
			c.Abort()
			return
		}

		if !allowed {
			logger.Warn("Access denied",
				zap.String("userID", request.Context.User.ID),
				zap.String("action", string(request.Context.Action)),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": echo_errors.ErrAccessDenied.Error()})
			return
		}
		c.Next()
	}
}

// HeaderRequestBuilder describes the caller acting on their own user record.
// The action follows the HTTP method.
func HeaderRequestBuilder(c *gin.Context) (*pdp_model.AccessRequest, error) {
	action, err := actionForMethod(c.Request.Method)
	if err != nil {
		return nil, err
	}
	roles := splitList(c.GetHeader(HeaderUserRoles))

	return &pdp_model.AccessRequest{
		Type: pdp_model.ResourceKindUser,
		Context: pdp_model.RequestContext{
			User: pdp_model.User{
				ID:    c.GetHeader(HeaderUserID),
				Roles: roles,
			},
			Resource: pdp_model.Resource{
				User: &pdp_model.UserResource{
					Roles:      roles,
					Department: c.GetHeader(HeaderUserDepartment),
				},
			},
			Action: action,
			Environment: pdp_model.Environment{
				IP:        c.ClientIP(),
				Timestamp: time.Now().UTC(),
			},
		},
	}, nil
}

func actionForMethod(method string) (pdp_model.Action, error) {
	switch method {
	case http.MethodGet, http.MethodHead:
		return pdp_model.ActionRead, nil
	case http.MethodPost:
		return pdp_model.ActionWrite, nil
	case http.MethodPut, http.MethodPatch:
		return pdp_model.ActionEdit, nil
	case http.MethodDelete:
		return pdp_model.ActionDelete, nil
	}
	return "", fmt.Errorf("%w: no action for method %s", echo_errors.ErrInvalidAccessRequest, method)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

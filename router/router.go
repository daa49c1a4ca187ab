// router/router.go

package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/echo/abac/controller"
	"github.com/dev-mohitbeniwal/echo/abac/middleware"
	"github.com/dev-mohitbeniwal/echo/abac/service"
)

type Options struct {
	// RateLimit is installed first when set.
	RateLimit gin.HandlerFunc
	// EnforceAdmin gates the policy routes on the decision service itself.
	EnforceAdmin bool
}

func SetupRouter(decisions service.IDecisionService, controllers *controller.Controllers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	if opts.RateLimit != nil {
		router.Use(opts.RateLimit)
	}

	api := router.Group("/api/v1")

	controllers.Decision.RegisterRoutes(api)

	var admin []gin.HandlerFunc
	if opts.EnforceAdmin {
		admin = append(admin, middleware.Enforce(decisions, middleware.HeaderRequestBuilder))
	}
	controllers.Policy.RegisterRoutes(api, admin...)

	return router
}

// controller/controllers.go
package controller

import "github.com/dev-mohitbeniwal/echo/abac/service"

type Controllers struct {
	Decision *DecisionController
	Policy   *PolicyController
}

func InitializeControllers(decisions service.IDecisionService) *Controllers {
	return &Controllers{
		Decision: NewDecisionController(decisions),
		Policy:   NewPolicyController(decisions),
	}
}

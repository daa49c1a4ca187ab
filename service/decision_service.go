// service/decision_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/echo/abac/logging"
	"github.com/dev-mohitbeniwal/echo/abac/model"
	"github.com/dev-mohitbeniwal/echo/abac/pdp/dao"
	"github.com/dev-mohitbeniwal/echo/abac/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
	"github.com/dev-mohitbeniwal/echo/abac/util"
)

// IDecisionService defines the interface for access decisions
type IDecisionService interface {
	Decide(ctx context.Context, request *pdp_model.AccessRequest) (*pdp_model.AccessDecision, error)
	Enforce(ctx context.Context, request *pdp_model.AccessRequest) (bool, error)
	ListPolicies(ctx context.Context) (*PolicyListing, error)
	ReloadPolicies(ctx context.Context) (*ReloadResult, error)
}

// PolicySource supplies policy documents and change notifications.
type PolicySource interface {
	RetrievePolicies(ctx context.Context) (*dao.PolicySnapshot, error)
	Watch(ctx context.Context, onChange func(context.Context)) error
}

type PolicyListing struct {
	Version  string                `json:"version"`
	Policies []model.PolicySummary `json:"policies"`
}

type ReloadResult struct {
	Version  string `json:"version"`
	Policies int    `json:"policies"`
	Changed  bool   `json:"changed"`
}

// DecisionService owns the decision point and keeps it in sync with the
// policy source.
type DecisionService struct {
	source         PolicySource
	pdp            *engine.PolicyDecisionPoint
	pep            *engine.EnforcementPoint
	validationUtil *util.ValidationUtil
	eventBus       *util.EventBus
	compileOpts    engine.CompileOptions

	reloadMu sync.Mutex
}

var _ IDecisionService = &DecisionService{}

// NewDecisionService loads and compiles the initial policy set. A policy set
// that does not compile is rejected here rather than at decision time.
func NewDecisionService(ctx context.Context, source PolicySource, validationUtil *util.ValidationUtil, eventBus *util.EventBus, compileOpts engine.CompileOptions) (*DecisionService, error) {
	s := &DecisionService{
		source:         source,
		validationUtil: validationUtil,
		eventBus:       eventBus,
		compileOpts:    compileOpts,
	}

	snapshot, policies, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.pdp, err = engine.NewPolicyDecisionPoint(policies,
		engine.WithVersion(snapshot.Version),
		engine.WithDiagnosticHandler(s.handleDiagnostic))
	if err != nil {
		return nil, err
	}
	s.pep = engine.NewEnforcementPoint(s.pdp)
	return s, nil
}

// handleDiagnostic runs on the decision path; publishing is skipped when no
// one listens.
func (s *DecisionService) handleDiagnostic(d pdp_model.Diagnostic) {
	engine.LogDiagnostic(d)
	if !s.eventBus.HasSubscribers(util.EventDecisionDiagnostic) {
		return
	}
	s.eventBus.Publish(context.Background(), util.EventDecisionDiagnostic, d)
}

func (s *DecisionService) load(ctx context.Context) (*dao.PolicySnapshot, []pdp_model.Policy, error) {
	snapshot, err := s.source.RetrievePolicies(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validationUtil.ValidatePolicies(snapshot.Policies); err != nil {
		return nil, nil, err
	}
	policies, err := engine.Compile(snapshot.Policies, s.compileOpts)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, policies, nil
}

// Decide evaluates request against the current policy set.
func (s *DecisionService) Decide(ctx context.Context, request *pdp_model.AccessRequest) (*pdp_model.AccessDecision, error) {
	if err := s.validationUtil.ValidateAccessRequest(request); err != nil {
		logger.Warn("Rejected access request", zap.Error(err))
		return nil, err
	}

	start := time.Now()
	decision := s.pdp.Evaluate(request)

	logger.Info("Access decision",
		zap.String("decision", string(decision.Decision)),
		zap.String("reason", decision.Reason),
		zap.String("userID", request.Context.User.ID),
		zap.String("resourceType", string(request.Type)),
		zap.String("action", string(request.Context.Action)),
		zap.Strings("matchedPolicies", decision.MatchedPolicies),
		zap.String("policyVersion", decision.PolicyVersion),
		zap.Duration("duration", time.Since(start)))
	return decision, nil
}

// Enforce reports whether request is allowed.
func (s *DecisionService) Enforce(ctx context.Context, request *pdp_model.AccessRequest) (bool, error) {
	if err := s.validationUtil.ValidateAccessRequest(request); err != nil {
		logger.Warn("Rejected access request", zap.Error(err))
		return false, err
	}
	return s.pep.Enforce(request), nil
}

func (s *DecisionService) ListPolicies(ctx context.Context) (*PolicyListing, error) {
	policies := s.pdp.Policies()
	summaries := make([]model.PolicySummary, 0, len(policies))
	for _, p := range policies {
		summaries = append(summaries, model.PolicySummary{
			Name:        p.Name,
			Description: p.Description,
			Effect:      string(p.Effect),
		})
	}
	return &PolicyListing{Version: s.pdp.Version(), Policies: summaries}, nil
}

// ReloadPolicies re-reads the source and publishes the new set. On failure
// the current set stays in place.
func (s *DecisionService) ReloadPolicies(ctx context.Context) (*ReloadResult, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	snapshot, policies, err := s.load(ctx)
	if err != nil {
		logger.Error("Policy reload failed, keeping current set",
			zap.Error(err),
			zap.String("currentVersion", s.pdp.Version()))
		s.eventBus.Publish(ctx, util.EventPolicyReloadFailed, err)
		return nil, fmt.Errorf("reload policies: %w", err)
	}

	result := &ReloadResult{Version: snapshot.Version, Policies: len(policies)}
	if snapshot.Version == s.pdp.Version() {
		logger.Debug("Policy set unchanged", zap.String("version", snapshot.Version))
		return result, nil
	}

	if err := s.pdp.Reload(policies, snapshot.Version); err != nil {
		s.eventBus.Publish(ctx, util.EventPolicyReloadFailed, err)
		return nil, fmt.Errorf("reload policies: %w", err)
	}
	result.Changed = true
	s.eventBus.Publish(ctx, util.EventPolicyReloaded, *result)
	return result, nil
}

// WatchPolicies reloads on every source change until ctx is done.
func (s *DecisionService) WatchPolicies(ctx context.Context) error {
	return s.source.Watch(ctx, func(ctx context.Context) {
		if _, err := s.ReloadPolicies(ctx); err != nil {
			logger.Warn("Ignoring policy change", zap.Error(err))
		}
	})
}

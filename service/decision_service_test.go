// service/decision_service_test.go
package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	"github.com/dev-mohitbeniwal/echo/abac/model"
	"github.com/dev-mohitbeniwal/echo/abac/pdp/dao"
	"github.com/dev-mohitbeniwal/echo/abac/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
	"github.com/dev-mohitbeniwal/echo/abac/service"
	"github.com/dev-mohitbeniwal/echo/abac/util"
)

// fakeSource serves whatever snapshot or error it was last given.
type fakeSource struct {
	mu       sync.Mutex
	snapshot *dao.PolicySnapshot
	err      error
	onChange func(context.Context)
}

func (f *fakeSource) set(version string, policies ...model.Policy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = &dao.PolicySnapshot{Policies: policies, Version: version}
	f.err = nil
}

func (f *fakeSource) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSource) RetrievePolicies(ctx context.Context) (*dao.PolicySnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func (f *fakeSource) Watch(ctx context.Context, onChange func(context.Context)) error {
	f.mu.Lock()
	f.onChange = onChange
	f.mu.Unlock()
	<-ctx.Done()
	return nil
}

var adminPolicy = model.Policy{
	Name:      "Admin Full Access",
	Effect:    "allow",
	Condition: &model.Condition{Attribute: "$.user.roles", Operator: "contains", Value: "admin"},
}

var ownerPolicy = model.Policy{
	Name:   "Owner Or Delete",
	Effect: "allow",
	Condition: &model.Condition{Or: []*model.Condition{
		{Attribute: "$.user.id", Operator: "equals", Value: "$.resource.ownerId"},
		{Attribute: "$.action", Operator: "equals", Value: "delete"},
	}},
}

func request(userID string, roles []string, ownerID string, action pdp_model.Action) *pdp_model.AccessRequest {
	return &pdp_model.AccessRequest{
		Type: pdp_model.ResourceKindPost,
		Context: pdp_model.RequestContext{
			User:        pdp_model.User{ID: userID, Roles: roles},
			Resource:    pdp_model.Resource{Post: &pdp_model.PostResource{OwnerID: ownerID}},
			Action:      action,
			Environment: pdp_model.Environment{IP: "192.168.1.200"},
		},
	}
}

func newService(t *testing.T, source *fakeSource, bus *util.EventBus) *service.DecisionService {
	t.Helper()
	svc, err := service.NewDecisionService(context.Background(), source, util.NewValidationUtil(), bus, engine.CompileOptions{})
	require.NoError(t, err)
	return svc
}

func TestDecide(t *testing.T) {
	source := &fakeSource{}
	source.set("v1", adminPolicy, ownerPolicy)
	svc := newService(t, source, util.NewEventBus())
	ctx := context.Background()

	decision, err := svc.Decide(ctx, request("1", []string{"admin"}, "2", pdp_model.ActionEdit))
	require.NoError(t, err)
	assert.Equal(t, pdp_model.DecisionAllow, decision.Decision)
	assert.Equal(t, []string{"Admin Full Access"}, decision.MatchedPolicies)
	assert.Equal(t, "v1", decision.PolicyVersion)

	decision, err = svc.Decide(ctx, request("1", []string{"user"}, "2", pdp_model.ActionEdit))
	require.NoError(t, err)
	assert.Equal(t, pdp_model.DecisionDeny, decision.Decision)

	allowed, err := svc.Enforce(ctx, request("999", nil, "123", pdp_model.ActionDelete))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDecideRejectsInvalidRequests(t *testing.T) {
	source := &fakeSource{}
	source.set("v1", adminPolicy)
	svc := newService(t, source, util.NewEventBus())
	ctx := context.Background()

	_, err := svc.Decide(ctx, nil)
	assert.ErrorIs(t, err, echo_errors.ErrInvalidAccessRequest)

	badAction := request("1", nil, "1", pdp_model.Action("publish"))
	_, err = svc.Decide(ctx, badAction)
	assert.ErrorIs(t, err, echo_errors.ErrInvalidAccessRequest)

	mismatched := request("1", nil, "1", pdp_model.ActionRead)
	mismatched.Type = pdp_model.ResourceKindUser
	_, err = svc.Enforce(ctx, mismatched)
	assert.ErrorIs(t, err, echo_errors.ErrInvalidAccessRequest)
}

func TestNewDecisionServiceRejectsBadPolicies(t *testing.T) {
	source := &fakeSource{}
	source.set("v1", model.Policy{Name: "broken", Effect: "allow", Condition: &model.Condition{Attribute: "user.id", Operator: "equals", Value: "1"}})

	_, err := service.NewDecisionService(context.Background(), source, util.NewValidationUtil(), util.NewEventBus(), engine.CompileOptions{})
	assert.ErrorIs(t, err, echo_errors.ErrInvalidReference)

	source.set("v2", model.Policy{Name: "no effect", Condition: adminPolicy.Condition})
	_, err = service.NewDecisionService(context.Background(), source, util.NewValidationUtil(), util.NewEventBus(), engine.CompileOptions{})
	assert.ErrorIs(t, err, echo_errors.ErrInvalidPolicyData)

	source.fail(echo_errors.ErrPolicySource)
	_, err = service.NewDecisionService(context.Background(), source, util.NewValidationUtil(), util.NewEventBus(), engine.CompileOptions{})
	assert.ErrorIs(t, err, echo_errors.ErrPolicySource)
}

func TestListPolicies(t *testing.T) {
	source := &fakeSource{}
	source.set("v1", adminPolicy, ownerPolicy)
	svc := newService(t, source, util.NewEventBus())

	listing, err := svc.ListPolicies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", listing.Version)
	assert.Equal(t, []model.PolicySummary{
		{Name: "Admin Full Access", Effect: "allow"},
		{Name: "Owner Or Delete", Effect: "allow"},
	}, listing.Policies)
}

func TestReloadPolicies(t *testing.T) {
	source := &fakeSource{}
	source.set("v1", ownerPolicy)
	bus := util.NewEventBus()
	svc := newService(t, source, bus)
	ctx := context.Background()

	var mu sync.Mutex
	var reloaded []service.ReloadResult
	bus.Subscribe(util.EventPolicyReloaded, func(_ context.Context, e util.Event) error {
		mu.Lock()
		defer mu.Unlock()
		reloaded = append(reloaded, e.Payload.(service.ReloadResult))
		return nil
	})

	admin := request("1", []string{"admin"}, "2", pdp_model.ActionEdit)
	allowed, err := svc.Enforce(ctx, admin)
	require.NoError(t, err)
	assert.False(t, allowed)

	source.set("v2", ownerPolicy, adminPolicy)
	result, err := svc.ReloadPolicies(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.ReloadResult{Version: "v2", Policies: 2, Changed: true}, *result)

	allowed, err = svc.Enforce(ctx, admin)
	require.NoError(t, err)
	assert.True(t, allowed)

	// same version again is not a change
	result, err = svc.ReloadPolicies(ctx)
	require.NoError(t, err)
	assert.False(t, result.Changed)

	bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reloaded, 1)
	assert.Equal(t, "v2", reloaded[0].Version)
}

func TestReloadFailureKeepsCurrentSet(t *testing.T) {
	source := &fakeSource{}
	source.set("v1", adminPolicy)
	bus := util.NewEventBus()
	svc := newService(t, source, bus)
	ctx := context.Background()

	var mu sync.Mutex
	var failures []error
	bus.Subscribe(util.EventPolicyReloadFailed, func(_ context.Context, e util.Event) error {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, e.Payload.(error))
		return nil
	})

	source.set("v2", model.Policy{Name: "bad", Effect: "deny", Condition: &model.Condition{}})
	_, err := svc.ReloadPolicies(ctx)
	assert.ErrorIs(t, err, echo_errors.ErrInvalidCondition)

	source.fail(echo_errors.ErrPolicySource)
	_, err = svc.ReloadPolicies(ctx)
	assert.ErrorIs(t, err, echo_errors.ErrPolicySource)

	listing, err := svc.ListPolicies(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", listing.Version)

	allowed, err := svc.Enforce(ctx, request("1", []string{"admin"}, "2", pdp_model.ActionEdit))
	require.NoError(t, err)
	assert.True(t, allowed)

	bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, failures, 2)
}

func TestDiagnosticsArePublished(t *testing.T) {
	source := &fakeSource{}
	source.set("v1", model.Policy{
		Name:      "department",
		Effect:    "allow",
		Condition: &model.Condition{Attribute: "$.resource.department", Operator: "equals", Value: "sales"},
	})
	bus := util.NewEventBus()
	svc := newService(t, source, bus)

	var mu sync.Mutex
	var seen []pdp_model.Diagnostic
	bus.Subscribe(util.EventDecisionDiagnostic, func(_ context.Context, e util.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.Payload.(pdp_model.Diagnostic))
		return nil
	})

	decision, err := svc.Decide(context.Background(), request("1", nil, "2", pdp_model.ActionRead))
	require.NoError(t, err)
	assert.Equal(t, pdp_model.DecisionDeny, decision.Decision)

	bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, pdp_model.DiagnosticUnresolvedAttribute, seen[0].Kind)
	assert.Equal(t, "department", seen[0].Policy)
}

func TestWatchPoliciesReloadsOnChange(t *testing.T) {
	source := &fakeSource{}
	source.set("v1")
	svc := newService(t, source, util.NewEventBus())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.WatchPolicies(ctx) }()

	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.onChange != nil
	}, time.Second, 10*time.Millisecond)

	source.set("v2", adminPolicy)
	source.mu.Lock()
	onChange := source.onChange
	source.mu.Unlock()
	onChange(ctx)

	listing, err := svc.ListPolicies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", listing.Version)

	// a broken change is logged and ignored
	source.fail(errors.New("disk gone"))
	onChange(ctx)
	listing, err = svc.ListPolicies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", listing.Version)

	cancel()
	assert.NoError(t, <-done)
}

func TestDiagnosticsStopWithLastSubscriber(t *testing.T) {
	source := &fakeSource{}
	source.set("v1", model.Policy{
		Name:      "department",
		Effect:    "allow",
		Condition: &model.Condition{Attribute: "$.resource.department", Operator: "equals", Value: "sales"},
	})
	bus := util.NewEventBus()
	svc := newService(t, source, bus)
	ctx := context.Background()

	var mu sync.Mutex
	count := 0
	id := bus.Subscribe(util.EventDecisionDiagnostic, func(context.Context, util.Event) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	})

	_, err := svc.Decide(ctx, request("1", nil, "2", pdp_model.ActionRead))
	require.NoError(t, err)
	bus.Wait()

	bus.Unsubscribe(util.EventDecisionDiagnostic, id)
	decision, err := svc.Decide(ctx, request("1", nil, "2", pdp_model.ActionRead))
	require.NoError(t, err)
	assert.Equal(t, pdp_model.DecisionDeny, decision.Decision)
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

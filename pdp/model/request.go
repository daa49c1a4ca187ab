package model

import (
	"encoding/json"
	"fmt"
	"time"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
)

// AttributeSource is anything that can be projected onto the attribute graph
// the engine walks.
type AttributeSource interface {
	Attributes() Value
}

type ResourceKind string

const (
	ResourceKindPost ResourceKind = "post"
	ResourceKindUser ResourceKind = "user"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ParseAction maps a raw action name onto the closed action set.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionRead, ActionWrite, ActionEdit, ActionDelete:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", echo_errors.ErrInvalidAccessRequest, s)
}

type User struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles"`
}

type PostResource struct {
	OwnerID string `json:"ownerId"`
}

type UserResource struct {
	Roles      []string `json:"roles"`
	Department string   `json:"department"`
}

// Resource carries exactly one kind-specific variant.
type Resource struct {
	Post *PostResource
	User *UserResource
}

func (r Resource) attributes() Value {
	switch {
	case r.Post != nil:
		return Object(map[string]Value{
			"ownerId": String(r.Post.OwnerID),
		})
	case r.User != nil:
		return Object(map[string]Value{
			"roles":      Strings(r.User.Roles...),
			"department": String(r.User.Department),
		})
	}
	return Absent()
}

type Environment struct {
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

type RequestContext struct {
	User        User        `json:"user"`
	Resource    Resource    `json:"resource"`
	Action      Action      `json:"action" validate:"required,oneof=read write edit delete"`
	Environment Environment `json:"environment"`
}

// AccessRequest is the request snapshot a decision is computed for. It is
// never modified by the engine.
type AccessRequest struct {
	Type    ResourceKind   `json:"type" validate:"required,oneof=post user"`
	Context RequestContext `json:"context"`
}

// Attributes projects the request onto the attribute graph. A zero
// timestamp is treated as missing.
func (r *AccessRequest) Attributes() Value {
	if r == nil {
		return Absent()
	}
	ts := Absent()
	if !r.Context.Environment.Timestamp.IsZero() {
		ts = Timestamp(r.Context.Environment.Timestamp)
	}
	return Object(map[string]Value{
		"user": Object(map[string]Value{
			"id":    String(r.Context.User.ID),
			"roles": Strings(r.Context.User.Roles...),
		}),
		"resource": r.Context.Resource.attributes(),
		"action":   String(string(r.Context.Action)),
		"environment": Object(map[string]Value{
			"ip":        String(r.Context.Environment.IP),
			"timestamp": ts,
		}),
	})
}

type wireContext struct {
	User        User            `json:"user"`
	Resource    json.RawMessage `json:"resource,omitempty"`
	Action      Action          `json:"action"`
	Environment Environment     `json:"environment"`
}

type wireRequest struct {
	Type    ResourceKind `json:"type"`
	Context wireContext  `json:"context"`
}

// UnmarshalJSON picks the resource variant from the request type.
func (r *AccessRequest) UnmarshalJSON(data []byte) error {
	var raw wireRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var res Resource
	switch raw.Type {
	case ResourceKindPost:
		res.Post = &PostResource{}
		if len(raw.Context.Resource) > 0 {
			if err := json.Unmarshal(raw.Context.Resource, res.Post); err != nil {
				return fmt.Errorf("decode post resource: %w", err)
			}
		}
	case ResourceKindUser:
		res.User = &UserResource{}
		if len(raw.Context.Resource) > 0 {
			if err := json.Unmarshal(raw.Context.Resource, res.User); err != nil {
				return fmt.Errorf("decode user resource: %w", err)
			}
		}
	default:
		return fmt.Errorf("%w: %q", echo_errors.ErrUnknownResourceKind, raw.Type)
	}

	*r = AccessRequest{
		Type: raw.Type,
		Context: RequestContext{
			User:        raw.Context.User,
			Resource:    res,
			Action:      raw.Context.Action,
			Environment: raw.Context.Environment,
		},
	}
	return nil
}

func (r AccessRequest) MarshalJSON() ([]byte, error) {
	var resource any
	switch {
	case r.Context.Resource.Post != nil:
		resource = r.Context.Resource.Post
	case r.Context.Resource.User != nil:
		resource = r.Context.Resource.User
	}
	res, err := json.Marshal(resource)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireRequest{
		Type: r.Type,
		Context: wireContext{
			User:        r.Context.User,
			Resource:    res,
			Action:      r.Context.Action,
			Environment: r.Context.Environment,
		},
	})
}

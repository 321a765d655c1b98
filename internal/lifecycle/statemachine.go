// Package lifecycle holds the rules that move an order through its statuses.
package lifecycle

import (
	"fmt"

	"storefront/internal/model"
)

// Policy controls how strictly forward progression is enforced.
type Policy string

const (
	// PolicyPermissive lets an admin skip forward states, e.g. pending -> delivered.
	PolicyPermissive Policy = "permissive"
	// PolicyStrict only allows moving to the next state in the fulfilment chain.
	PolicyStrict Policy = "strict"
)

// ParsePolicy converts a configuration value into a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(value) {
	case PolicyPermissive, PolicyStrict:
		return Policy(value), nil
	}
	return "", fmt.Errorf("unknown transition policy %q (must be permissive or strict)", value)
}

// Actor is who asks for a transition.
type Actor string

const (
	ActorAdmin    Actor = "admin"
	ActorCustomer Actor = "customer"
)

// fulfilment is the forward chain; the index is the rank of a status.
var fulfilment = []model.OrderStatus{
	model.StatusPending,
	model.StatusProcessing,
	model.StatusShipped,
	model.StatusDelivered,
}

func rank(status model.OrderStatus) int {
	for i, s := range fulfilment {
		if s == status {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status model.OrderStatus) bool {
	return status == model.StatusCancelled || status == model.StatusReturned
}

// StateMachine validates order status transitions.
type StateMachine struct {
	policy Policy
}

// NewStateMachine creates a state machine enforcing policy. An empty policy means
// PolicyPermissive.
func NewStateMachine(policy Policy) *StateMachine {
	if policy == "" {
		policy = PolicyPermissive
	}
	return &StateMachine{policy: policy}
}

// Policy returns the configured policy.
func (m *StateMachine) Policy() Policy {
	return m.policy
}

// CanTransition returns model.ErrInvalidTransition unless actor may move an order
// from one status to the other.
func (m *StateMachine) CanTransition(from, to model.OrderStatus, actor Actor) error {
	if !from.Valid() || !to.Valid() {
		return model.ErrInvalidStatus
	}
	if m.allowed(from, to, actor) {
		return nil
	}
	return model.ErrInvalidTransition
}

// Targets lists the statuses actor may move an order in from to.
func (m *StateMachine) Targets(from model.OrderStatus, actor Actor) []model.OrderStatus {
	var out []model.OrderStatus
	for _, to := range model.OrderStatuses() {
		if m.allowed(from, to, actor) {
			out = append(out, to)
		}
	}
	return out
}

func (m *StateMachine) allowed(from, to model.OrderStatus, actor Actor) bool {
	if from == to || IsTerminal(from) || to == model.StatusPending {
		return false
	}

	if actor == ActorCustomer {
		return from == model.StatusDelivered && to == model.StatusReturnRequested
	}
	if actor != ActorAdmin {
		return false
	}

	switch to {
	case model.StatusProcessing, model.StatusShipped, model.StatusDelivered:
		fromRank, toRank := rank(from), rank(to)
		if fromRank < 0 || toRank <= fromRank {
			return false
		}
		return m.policy != PolicyStrict || toRank == fromRank+1
	case model.StatusCancelled:
		return from == model.StatusPending || from == model.StatusProcessing || from == model.StatusShipped
	case model.StatusReturned:
		return from == model.StatusReturnRequested
	}

	// return_requested is customer-initiated only
	return false
}

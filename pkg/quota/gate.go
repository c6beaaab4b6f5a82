package quota

import (
	"context"
	"time"
)

// Check is one scoped quota to evaluate for a protected operation.
type Check struct {
	Identifier string
	Action     string
	Limit      int
	Window     time.Duration
}

// Result is the gate's verdict: the decision of the first rejected check,
// or of the last check when everything passed.
type Result struct {
	Decision
	Action string
}

// Gate runs an ordered sequence of quota checks and stops at the first
// rejection. Checks are ordered cheap-first: the IP-scoped check intercepts
// bulk unauthenticated abuse before the user-scoped check spends its budget.
type Gate struct {
	store Store
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

func (g *Gate) Evaluate(ctx context.Context, checks []Check) (Result, error) {
	result := Result{Decision: Decision{Allowed: true}}
	for _, check := range checks {
		decision, err := g.store.CheckAndIncrement(ctx, check.Identifier, check.Action, check.Limit, check.Window)
		if err != nil {
			return Result{}, err
		}
		result = Result{Decision: decision, Action: check.Action}
		if !decision.Allowed {
			return result, nil
		}
	}
	return result, nil
}

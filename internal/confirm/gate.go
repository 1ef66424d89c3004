package confirm

import (
	"pkgconfirm/internal/confirm/models"
	dErrors "pkgconfirm/pkg/domain-errors"
)

// ErrSessionFinished is returned for any signal that arrives after the gate
// reached a terminal outcome.
var ErrSessionFinished = dErrors.New(dErrors.CodeInvalidState, "confirmation already finished")

// InitialState is the gate position for a freshly planned session.
func InitialState(plan models.ConfirmationPlan) models.GateState {
	if plan.RequiresAcknowledgement {
		return models.GateLocked
	}
	return models.GateUnlocked
}

// Gate guards the install action until the user acknowledges the disclosure.
//
//	locked --acknowledge--> unlocked
//	locked|unlocked --cancel--> cancelled (terminal)
//	unlocked --proceed--> proceed (terminal)
//
// A Gate is not safe for concurrent use; callers serialize signals per session.
type Gate struct {
	state     models.GateState
	outcome   models.Outcome
	onEnabled func()
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithEnabledListener registers fn to run once when the install action
// becomes enabled by an acknowledgement. Gates that start unlocked never
// call it.
func WithEnabledListener(fn func()) GateOption {
	return func(g *Gate) {
		g.onEnabled = fn
	}
}

// NewGate initializes a gate from a plan.
func NewGate(plan models.ConfirmationPlan, opts ...GateOption) *Gate {
	return RestoreGate(InitialState(plan), models.OutcomeNone, opts...)
}

// RestoreGate rebuilds a gate from persisted session state.
func RestoreGate(state models.GateState, outcome models.Outcome, opts ...GateOption) *Gate {
	g := &Gate{state: state, outcome: outcome}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) State() models.GateState {
	return g.state
}

func (g *Gate) Outcome() models.Outcome {
	return g.outcome
}

// Acknowledge records the acknowledgement gesture. Repeating it is a no-op.
func (g *Gate) Acknowledge() (models.GateState, error) {
	if g.outcome != models.OutcomeNone {
		return g.state, ErrSessionFinished
	}
	if g.state == models.GateUnlocked {
		return g.state, nil
	}
	g.state = models.GateUnlocked
	if g.onEnabled != nil {
		g.onEnabled()
	}
	return g.state, nil
}

// TryProceed answers an install request. A locked gate stays locked and asks
// the caller to re-present the disclosure; an unlocked gate ends the session.
func (g *Gate) TryProceed() (models.ProceedDecision, error) {
	if g.outcome != models.OutcomeNone {
		return "", ErrSessionFinished
	}
	if g.state == models.GateLocked {
		return models.DecisionRequiresAcknowledgement, nil
	}
	g.outcome = models.OutcomeProceed
	return models.DecisionProceed, nil
}

// Cancel ends the session from either gate position. Cancelling an already
// cancelled session is a no-op; cancelling after proceed is rejected.
func (g *Gate) Cancel() (models.Outcome, error) {
	switch g.outcome {
	case models.OutcomeCancelled:
		return g.outcome, nil
	case models.OutcomeProceed:
		return g.outcome, ErrSessionFinished
	}
	g.outcome = models.OutcomeCancelled
	return g.outcome, nil
}

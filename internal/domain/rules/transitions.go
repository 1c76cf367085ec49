package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/petnest/petnest/internal/domain/enums"
)

var (
	ErrDecisionNotAllowed = errors.New("decision is not allowed for this entity")
	ErrReasonRequired     = errors.New("rejection reason is required")
	ErrNotPending         = errors.New("entity is not pending")
	ErrUnknownStatus      = errors.New("unknown status")
)

type edge struct {
	to            enums.ModerationStatus
	reasonMissing error
}

// Machine is the transition table of one moderatable entity kind. Every
// machine starts in pending and every edge leads to a terminal state.
type Machine struct {
	kind  enums.EntityKind
	edges map[DecisionKind]edge
}

var (
	AdRequestMachine = Machine{
		kind: enums.EntityKindAdRequest,
		edges: map[DecisionKind]edge{
			DecisionApprove: {to: enums.ModerationStatusApproved},
			DecisionReject:  {to: enums.ModerationStatusRejected, reasonMissing: ErrReasonRequired},
		},
	}
	SellerMachine = Machine{
		kind: enums.EntityKindSeller,
		edges: map[DecisionKind]edge{
			DecisionApprove: {to: enums.ModerationStatusVerified},
			DecisionReject:  {to: enums.ModerationStatusRejected},
		},
	}
	PetMachine = Machine{
		kind: enums.EntityKindPet,
		edges: map[DecisionKind]edge{
			DecisionVerify: {to: enums.ModerationStatusVerified},
		},
	}
	ReportMachine = Machine{
		kind: enums.EntityKindReport,
		edges: map[DecisionKind]edge{
			DecisionResolve: {to: enums.ModerationStatusResolved},
			DecisionDismiss: {to: enums.ModerationStatusDismissed},
		},
	}
)

func MachineFor(kind enums.EntityKind) (Machine, bool) {
	switch kind {
	case enums.EntityKindAdRequest:
		return AdRequestMachine, true
	case enums.EntityKindSeller:
		return SellerMachine, true
	case enums.EntityKindPet:
		return PetMachine, true
	case enums.EntityKindReport:
		return ReportMachine, true
	default:
		return Machine{}, false
	}
}

func (m Machine) Kind() enums.EntityKind {
	return m.kind
}

// Target validates the decision against the table and returns the state it
// leads to. It does not look at the current state; stores apply the pending
// precondition in their conditional update.
func (m Machine) Target(d Decision) (enums.ModerationStatus, error) {
	e, ok := m.edges[d.Kind]
	if !ok {
		return "", fmt.Errorf("%s %s: %w", d.Kind, m.kind, ErrDecisionNotAllowed)
	}
	if e.reasonMissing != nil && strings.TrimSpace(d.Reason) == "" {
		return "", e.reasonMissing
	}
	return e.to, nil
}

func (m Machine) States() []enums.ModerationStatus {
	states := []enums.ModerationStatus{enums.ModerationStatusPending}
	seen := map[enums.ModerationStatus]bool{enums.ModerationStatusPending: true}
	for _, kind := range []DecisionKind{DecisionApprove, DecisionVerify, DecisionReject, DecisionResolve, DecisionDismiss} {
		e, ok := m.edges[kind]
		if !ok || seen[e.to] {
			continue
		}
		seen[e.to] = true
		states = append(states, e.to)
	}
	return states
}

func (m Machine) Decisions() []DecisionKind {
	out := make([]DecisionKind, 0, len(m.edges))
	for _, kind := range []DecisionKind{DecisionApprove, DecisionVerify, DecisionReject, DecisionResolve, DecisionDismiss} {
		if _, ok := m.edges[kind]; ok {
			out = append(out, kind)
		}
	}
	return out
}

// ParseStatusFilter maps a raw list filter to a state of this machine. An
// empty value means pending; "all" yields the empty status (no filter).
func (m Machine) ParseStatusFilter(raw string) (enums.ModerationStatus, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		return enums.ModerationStatusPending, nil
	case enums.StatusAll:
		return "", nil
	}
	for _, state := range m.States() {
		if string(state) == value {
			return state, nil
		}
	}
	return "", fmt.Errorf("%q for %s: %w", raw, m.kind, ErrUnknownStatus)
}

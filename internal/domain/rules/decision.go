package rules

import "strings"

type DecisionKind string

const (
	DecisionApprove DecisionKind = "approve"
	DecisionReject  DecisionKind = "reject"
	DecisionVerify  DecisionKind = "verify"
	DecisionResolve DecisionKind = "resolve"
	DecisionDismiss DecisionKind = "dismiss"
)

// Decision is a moderator verdict. Reason is the rejection reason shown to
// the submitter; Notes are internal moderator notes.
type Decision struct {
	Kind   DecisionKind
	Reason string
	Notes  string
}

func Approve(notes string) Decision {
	return Decision{Kind: DecisionApprove, Notes: strings.TrimSpace(notes)}
}

func Reject(reason string) Decision {
	return Decision{Kind: DecisionReject, Reason: strings.TrimSpace(reason)}
}

// RejectWithNotes is the seller flavour of Reject: notes are optional.
func RejectWithNotes(notes string) Decision {
	return Decision{Kind: DecisionReject, Notes: strings.TrimSpace(notes)}
}

func Verify() Decision {
	return Decision{Kind: DecisionVerify}
}

func Resolve(note string) Decision {
	return Decision{Kind: DecisionResolve, Notes: strings.TrimSpace(note)}
}

func Dismiss(note string) Decision {
	return Decision{Kind: DecisionDismiss, Notes: strings.TrimSpace(note)}
}

package model

import (
	"fmt"
	"strings"
)

// Decision is the lifecycle state shared by every moderation request kind.
// It is what gets stored; kinds translate it to their own vocabulary at the API edge.
type Decision string

const (
	DecisionPending  Decision = "PENDING"
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

func (d Decision) IsTerminal() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// RequestKind tags the three moderation request variants.
type RequestKind string

const (
	KindClaim    RequestKind = "claim"
	KindUpdate   RequestKind = "update"
	KindProposal RequestKind = "proposal"
)

// ParseRequestKind accepts the singular kind or the plural route segment ("claims", "updates", "proposals").
func ParseRequestKind(s string) (RequestKind, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case string(KindClaim):
		return KindClaim, nil
	case string(KindUpdate):
		return KindUpdate, nil
	case string(KindProposal):
		return KindProposal, nil
	}
	return "", fmt.Errorf("unknown request kind %q", s)
}

// approvedLabel is the external name of the approved state; update requests say ACCEPTED.
func (k RequestKind) approvedLabel() string {
	if k == KindUpdate {
		return "ACCEPTED"
	}
	return string(DecisionApproved)
}

// StatusLabel renders a stored decision in this kind's vocabulary.
func (k RequestKind) StatusLabel(d Decision) string {
	if d == DecisionApproved {
		return k.approvedLabel()
	}
	return string(d)
}

// ParseStatusLabel maps a kind-specific label (case-insensitive) back to the stored decision.
func (k RequestKind) ParseStatusLabel(label string) (Decision, error) {
	switch l := strings.ToUpper(strings.TrimSpace(label)); l {
	case string(DecisionPending):
		return DecisionPending, nil
	case string(DecisionRejected):
		return DecisionRejected, nil
	case k.approvedLabel():
		return DecisionApproved, nil
	}
	return "", fmt.Errorf("invalid %s status %q", k, label)
}

// SubmittedAction is the verification log action written when a request is created.
func (k RequestKind) SubmittedAction() string {
	return string(k) + "_submitted"
}

// DecisionAction is the verification log action for a terminal decision,
// e.g. claim_approved, update_accepted, proposal_rejected.
func (k RequestKind) DecisionAction(d Decision) string {
	return string(k) + "_" + strings.ToLower(k.StatusLabel(d))
}

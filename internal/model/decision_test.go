package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestKind_StatusLabel(t *testing.T) {
	assert.Equal(t, "APPROVED", KindClaim.StatusLabel(DecisionApproved))
	assert.Equal(t, "ACCEPTED", KindUpdate.StatusLabel(DecisionApproved))
	assert.Equal(t, "APPROVED", KindProposal.StatusLabel(DecisionApproved))
	assert.Equal(t, "REJECTED", KindUpdate.StatusLabel(DecisionRejected))
	assert.Equal(t, "PENDING", KindClaim.StatusLabel(DecisionPending))
}

func TestRequestKind_ParseStatusLabel(t *testing.T) {
	d, err := KindUpdate.ParseStatusLabel("accepted")
	require.NoError(t, err)
	assert.Equal(t, DecisionApproved, d)

	_, err = KindUpdate.ParseStatusLabel("APPROVED")
	assert.Error(t, err, "update requests use ACCEPTED")

	d, err = KindClaim.ParseStatusLabel("Approved")
	require.NoError(t, err)
	assert.Equal(t, DecisionApproved, d)

	_, err = KindProposal.ParseStatusLabel("accepted")
	assert.Error(t, err)
}

func TestRequestKind_Actions(t *testing.T) {
	assert.Equal(t, "claim_approved", KindClaim.DecisionAction(DecisionApproved))
	assert.Equal(t, "update_accepted", KindUpdate.DecisionAction(DecisionApproved))
	assert.Equal(t, "proposal_rejected", KindProposal.DecisionAction(DecisionRejected))
	assert.Equal(t, "proposal_submitted", KindProposal.SubmittedAction())
}

func TestParseRequestKind(t *testing.T) {
	for in, want := range map[string]RequestKind{
		"claims":    KindClaim,
		"claim":     KindClaim,
		"Updates":   KindUpdate,
		"proposals": KindProposal,
	} {
		got, err := ParseRequestKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseRequestKind("reviews")
	assert.Error(t, err)
}

func TestParseEntityType(t *testing.T) {
	got, err := ParseEntityType("venue")
	require.NoError(t, err)
	assert.Equal(t, EntityTypeVenue, got)

	got, err = ParseEntityType(" EVENT ")
	require.NoError(t, err)
	assert.Equal(t, EntityTypeEvent, got)

	_, err = ParseEntityType("store")
	assert.Error(t, err)
}

func TestChangeSet_ScanValue(t *testing.T) {
	cs := ChangeSet{"priceRange": "3", "name": "Neon Loft"}
	v, err := cs.Value()
	require.NoError(t, err)

	var back ChangeSet
	require.NoError(t, back.Scan([]byte(v.(string))))
	assert.Equal(t, cs, back)

	require.NoError(t, back.Scan(nil))
	assert.Empty(t, back)
}

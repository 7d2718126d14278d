package service

import (
	"context"
	"testing"

	"nightlife/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSubmitClaim_CreatesPendingRequest(t *testing.T) {
	h := newHarness(t)
	venue := h.store.addVenue("Sky Bar", "sky-bar", nil)
	user := uuid.New()

	resp, err := h.submission.SubmitClaim(context.Background(), user, SubmitClaimDTO{
		EntityType:  "venue",
		EntitySlug:  "sky-bar",
		EvidenceURL: strPtr("https://example.com/licence.pdf"),
		Notes:       strPtr("  I run this bar  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, model.KindClaim, resp.Kind)

	claim := h.store.claim(uuid.MustParse(resp.ID))
	assert.Equal(t, model.DecisionPending, claim.Status)
	assert.Equal(t, 1, claim.Version)
	assert.Equal(t, venue, claim.Ref())
	assert.Equal(t, user, claim.RequestedBy)
	assert.Equal(t, "I run this bar", *claim.Notes)

	logs := h.store.allLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "claim_submitted", logs[0].Action)
	assert.Equal(t, user, *logs[0].ActorUserID)
	assert.Equal(t, "I run this bar", *logs[0].Notes)

	events := h.publisher.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventModerationSubmitted, events[0].Type)
}

func TestSubmitClaim_DuplicatesAllowed(t *testing.T) {
	h := newHarness(t)
	h.store.addVenue("Sky Bar", "sky-bar", nil)
	user := uuid.New()
	dto := SubmitClaimDTO{EntityType: "VENUE", EntitySlug: "sky-bar"}

	first, err := h.submission.SubmitClaim(context.Background(), user, dto)
	require.NoError(t, err)
	second, err := h.submission.SubmitClaim(context.Background(), user, dto)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSubmitClaim_RejectsBadShape(t *testing.T) {
	h := newHarness(t)
	h.store.addVenue("Sky Bar", "sky-bar", nil)

	cases := map[string]SubmitClaimDTO{
		"missing slug":   {EntityType: "venue"},
		"unknown type":   {EntityType: "restaurant", EntitySlug: "sky-bar"},
		"bad evidence":   {EntityType: "venue", EntitySlug: "sky-bar", EvidenceURL: strPtr("not a url")},
		"notes too long": {EntityType: "venue", EntitySlug: "sky-bar", Notes: strPtr(string(make([]byte, 1001)))},
		"missing type":   {EntitySlug: "sky-bar"},
	}
	for name, dto := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.submission.SubmitClaim(context.Background(), uuid.New(), dto)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Empty(t, h.store.allLogs())
}

func TestSubmitClaim_UnknownSlug(t *testing.T) {
	h := newHarness(t)
	_, err := h.submission.SubmitClaim(context.Background(), uuid.New(), SubmitClaimDTO{EntityType: "venue", EntitySlug: "nowhere"})
	require.ErrorIs(t, err, ErrEntityNotFound)
	assert.Empty(t, h.store.allLogs())
}

func TestSubmitUpdate_StoresChangeSetUnvalidated(t *testing.T) {
	h := newHarness(t)
	venue := h.store.addVenue("Sky Bar", "sky-bar", nil)
	fields := map[string]string{"priceRange": "free"}

	resp, err := h.submission.SubmitUpdate(context.Background(), uuid.New(), SubmitUpdateDTO{
		EntityType:    "venue",
		EntitySlug:    "sky-bar",
		Fields:        fields,
		ProofMediaURL: strPtr("https://cdn.example.com/menu.jpg"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.EntityID)
	assert.Equal(t, venue.EntityID.String(), *resp.EntityID)

	fields["priceRange"] = "2"
	stored := h.store.update(uuid.MustParse(resp.ID))
	assert.Equal(t, model.ChangeSet{"priceRange": "free"}, stored.ChangeSet)
	assert.Len(t, h.store.logsWithAction("update_submitted"), 1)
}

func TestSubmitUpdate_RequiresFields(t *testing.T) {
	h := newHarness(t)
	h.store.addVenue("Sky Bar", "sky-bar", nil)

	_, err := h.submission.SubmitUpdate(context.Background(), uuid.New(), SubmitUpdateDTO{EntityType: "venue", EntitySlug: "sky-bar"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.submission.SubmitUpdate(context.Background(), uuid.New(), SubmitUpdateDTO{
		EntityType: "venue", EntitySlug: "sky-bar", Fields: map[string]string{"": "x"},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitProposal_LogsWithoutEntity(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()

	resp, err := h.submission.SubmitProposal(context.Background(), user, SubmitProposalDTO{
		EntityType: "venue",
		Name:       " Neon Loft ",
		Fields:     map[string]string{"priceRange": "3"},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.EntityID)
	assert.Equal(t, model.EntityTypeVenue, resp.EntityType)

	stored := h.store.proposal(uuid.MustParse(resp.ID))
	assert.Equal(t, "Neon Loft", stored.Name)
	assert.Equal(t, model.DecisionPending, stored.Status)

	logs := h.store.allLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "proposal_submitted", logs[0].Action)
	assert.Nil(t, logs[0].EntityID)
	assert.Equal(t, "Neon Loft", *logs[0].Notes)
}

func TestSubmitProposal_ThenApprove(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.submission.SubmitProposal(ctx, uuid.New(), SubmitProposalDTO{
		EntityType: "venue",
		Name:       "Neon Loft",
		Fields:     map[string]string{"name": "Neon Loft", "priceRange": "3"},
	})
	require.NoError(t, err)

	res, err := h.moderation.Decide(ctx, approve(model.KindProposal, uuid.MustParse(resp.ID)))
	require.NoError(t, err)
	require.NotNil(t, res.Entity)
	assert.Equal(t, int64(3), h.store.entity(*res.Entity).columns["price_range"])

	actions := []string{}
	for _, l := range h.store.allLogs() {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{"proposal_submitted", "proposal_approved"}, actions)
}

func TestSubmitProposal_BlankName(t *testing.T) {
	h := newHarness(t)
	_, err := h.submission.SubmitProposal(context.Background(), uuid.New(), SubmitProposalDTO{EntityType: "event", Name: "   "})
	require.ErrorIs(t, err, ErrInvalidInput)
}

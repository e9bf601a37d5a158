package service

import (
	"testing"

	"websecurity/internal/apperr"
	"websecurity/internal/dto"
	"websecurity/internal/models"
	"websecurity/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOffer(t *testing.T) {
	e := newEnv(t)
	a1 := testutil.CreateActivity(t, e.db, e.admin, "a1", testutil.Published)
	a2 := testutil.CreateActivity(t, e.db, e.admin, "a2", testutil.Published)

	offer, err := e.offers.Create(e.author.ID, &dto.CreateOfferRequest{
		Title:       "pentester",
		Description: "junior pentester",
		ActivityIDs: []uint{a2.ID, a1.ID, a2.ID},
	})
	require.NoError(t, err)
	assert.True(t, offer.Draft)
	assert.Regexp(t, `^OFR-[A-Z0-9]{10}$`, offer.Identifier)

	got := e.reloadOffer(t, offer.ID)
	assert.Equal(t, []uint{a1.ID, a2.ID}, got.ActivityIDs())
	assert.Equal(t, models.OfferDraft, got.Status())
}

func TestCreateOfferWithDraftActivityFails(t *testing.T) {
	e := newEnv(t)
	published := testutil.CreateActivity(t, e.db, e.admin, "published", testutil.Published)
	draft := testutil.CreateActivity(t, e.db, e.admin, "draft", testutil.Draft)

	_, err := e.offers.Create(e.author.ID, &dto.CreateOfferRequest{
		Title:       "pentester",
		Description: "junior pentester",
		ActivityIDs: []uint{published.ID, draft.ID},
	})
	require.ErrorIs(t, err, apperr.ErrValidationFailed)
	assert.Equal(t, apperr.ReasonInvalidActivities, apperr.ReasonOf(err))
	assert.Zero(t, e.count(t, &models.Offer{}))
}

func TestCreateOfferRejectsUnknownOrMissingActivities(t *testing.T) {
	e := newEnv(t)

	_, err := e.offers.Create(e.author.ID, &dto.CreateOfferRequest{
		Title:       "pentester",
		Description: "junior pentester",
		ActivityIDs: []uint{999},
	})
	assert.Equal(t, apperr.ReasonInvalidActivities, apperr.ReasonOf(err))

	_, err = e.offers.Create(e.author.ID, &dto.CreateOfferRequest{
		Title:       "pentester",
		Description: "junior pentester",
	})
	assert.ErrorIs(t, err, apperr.ErrValidationFailed)
	assert.Zero(t, e.count(t, &models.Offer{}))
}

func TestEditClosedOfferFails(t *testing.T) {
	e := newEnv(t)
	activity := testutil.CreateActivity(t, e.db, e.admin, "a1", testutil.Published)
	offer := testutil.CreateOffer(t, e.db, e.author, "closed", testutil.OfferState{Closed: true}, activity)

	_, err := e.offers.Edit(e.author.ID, offer.ID, &dto.EditOfferRequest{
		Title:       "changed",
		Description: "changed",
		ActivityIDs: []uint{activity.ID},
		Draft:       boolPtr(true),
	})
	require.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Contains(t, err.Error(), "cannot edit an offer that is not in draft mode")

	got := e.reloadOffer(t, offer.ID)
	assert.Equal(t, "closed", got.Title)
	assert.True(t, got.Closed)
	assert.False(t, got.Draft)
}

func TestEditOfferRoundTrip(t *testing.T) {
	e := newEnv(t)
	a1 := testutil.CreateActivity(t, e.db, e.admin, "a1", testutil.Published)
	a2 := testutil.CreateActivity(t, e.db, e.admin, "a2", testutil.Published)
	offer := testutil.CreateOffer(t, e.db, e.author, "draft", testutil.OfferState{Draft: true}, a1)

	_, err := e.offers.Edit(e.user.ID, offer.ID, &dto.EditOfferRequest{})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	edit := &dto.EditOfferRequest{
		Title:       "senior pentester",
		Description: "five years",
		ActivityIDs: []uint{a2.ID},
		Draft:       boolPtr(false),
	}
	_, err = e.offers.Edit(e.author.ID, offer.ID, edit)
	require.NoError(t, err)

	got := e.reloadOffer(t, offer.ID)
	assert.Equal(t, edit.Title, got.Title)
	assert.Equal(t, edit.Description, got.Description)
	assert.Equal(t, []uint{a2.ID}, got.ActivityIDs())
	assert.Equal(t, models.OfferOpen, got.Status())

	err = e.offers.Delete(e.author.ID, offer.ID)
	assert.Equal(t, apperr.ReasonNotDraft, apperr.ReasonOf(err))
}

func TestDeleteDraftOffer(t *testing.T) {
	e := newEnv(t)
	activity := testutil.CreateActivity(t, e.db, e.admin, "a1", testutil.Published)
	offer := testutil.CreateOffer(t, e.db, e.author, "draft", testutil.OfferState{Draft: true}, activity)

	assert.ErrorIs(t, e.offers.Delete(e.user.ID, offer.ID), apperr.ErrUnauthorized)
	require.NoError(t, e.offers.Delete(e.author.ID, offer.ID))
	assert.Zero(t, e.count(t, &models.Offer{}))

	// 前置活动本身不受影响
	assert.Equal(t, int64(1), e.count(t, &models.Activity{}))
}

func TestSolicitWithUnmetPrerequisite(t *testing.T) {
	e := newEnv(t)
	a1 := testutil.CreateActivity(t, e.db, e.admin, "a1", testutil.Published)
	a2 := testutil.CreateActivity(t, e.db, e.admin, "a2", testutil.Published)
	offer := testutil.CreateOffer(t, e.db, e.author, "open", testutil.OfferState{}, a1, a2)
	testutil.Complete(t, e.db, e.user, a1)

	_, err := e.offers.Solicit(e.user.ID, offer.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Equal(t, apperr.ReasonUnmetPrerequisite, apperr.ReasonOf(err))
	assert.Zero(t, e.count(t, &models.Request{}))
}

func TestSolicitThenWithdraw(t *testing.T) {
	e := newEnv(t)
	a1 := testutil.CreateActivity(t, e.db, e.admin, "a1", testutil.Published)
	offer := testutil.CreateOffer(t, e.db, e.author, "open", testutil.OfferState{}, a1)
	testutil.Complete(t, e.db, e.user, a1)

	detail, err := e.offers.Get(e.user.ID, offer.ID)
	require.NoError(t, err)
	assert.True(t, detail.Solicitable)
	assert.False(t, detail.Retirable)

	_, err = e.offers.Solicit(e.user.ID, offer.ID)
	require.NoError(t, err)

	detail, err = e.offers.Get(e.user.ID, offer.ID)
	require.NoError(t, err)
	assert.False(t, detail.Solicitable)
	assert.True(t, detail.Retirable)
	assert.Empty(t, detail.Applicants)

	_, err = e.offers.Solicit(e.user.ID, offer.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, int64(1), e.count(t, &models.Request{}))

	authorView, err := e.offers.Get(e.author.ID, offer.ID)
	require.NoError(t, err)
	require.Len(t, authorView.Applicants, 1)
	assert.Equal(t, e.user.ID, authorView.Applicants[0].ID)

	requested, total, err := e.offers.ListRequested(e.user.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, requested, 1)
	assert.True(t, requested[0].Retirable)

	require.NoError(t, e.offers.Withdraw(e.user.ID, offer.ID))
	assert.Zero(t, e.count(t, &models.Request{}))

	err = e.offers.Withdraw(e.user.ID, offer.ID)
	assert.ErrorIs(t, err, apperr.ErrNoSuchRequest)
}

func TestSolicitOwnOffer(t *testing.T) {
	e := newEnv(t)
	offer := testutil.CreateOffer(t, e.db, e.author, "open", testutil.OfferState{})

	_, err := e.offers.Solicit(e.author.ID, offer.ID)
	assert.Equal(t, apperr.ReasonOwnOffer, apperr.ReasonOf(err))
}

func TestWithdrawAfterCloseFails(t *testing.T) {
	e := newEnv(t)
	offer := testutil.CreateOffer(t, e.db, e.author, "open", testutil.OfferState{})
	_, err := e.offers.Solicit(e.user.ID, offer.ID)
	require.NoError(t, err)

	_, err = e.offers.Close(e.author.ID, offer.ID)
	require.NoError(t, err)

	err = e.offers.Withdraw(e.user.ID, offer.ID)
	assert.Equal(t, apperr.ReasonClosed, apperr.ReasonOf(err))
	assert.Equal(t, int64(1), e.count(t, &models.Request{}))

	detail, err := e.offers.Get(e.user.ID, offer.ID)
	require.NoError(t, err)
	assert.False(t, detail.Retirable)
	assert.False(t, detail.Solicitable)
}

func TestCloseOfferChecksStateBeforeAuthor(t *testing.T) {
	e := newEnv(t)
	closed := testutil.CreateOffer(t, e.db, e.author, "closed", testutil.OfferState{Closed: true})
	open := testutil.CreateOffer(t, e.db, e.author, "open", testutil.OfferState{})

	_, err := e.offers.Close(e.user.ID, closed.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = e.offers.Close(e.user.ID, open.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.False(t, e.reloadOffer(t, open.ID).Closed)

	got, err := e.offers.Close(e.author.ID, open.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferClosed, got.Status())
}

func TestVetoAndUnvetoOffer(t *testing.T) {
	e := newEnv(t)
	offer := testutil.CreateOffer(t, e.db, e.author, "open", testutil.OfferState{})

	_, err := e.offers.Veto(e.author.ID, offer.ID, &dto.VetoRequest{Reason: "spam"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	vetoed, err := e.offers.Veto(e.admin.ID, offer.ID, &dto.VetoRequest{Reason: "spam"})
	require.NoError(t, err)
	require.NotNil(t, vetoed.VetoReason)
	assert.Equal(t, "spam", *vetoed.VetoReason)

	_, err = e.offers.Solicit(e.user.ID, offer.ID)
	assert.Equal(t, apperr.ReasonVetoed, apperr.ReasonOf(err))

	_, err = e.offers.Unveto(e.admin.ID, offer.ID)
	require.NoError(t, err)
	got := e.reloadOffer(t, offer.ID)
	assert.False(t, got.Vetoed)
	assert.Nil(t, got.VetoReason)

	_, err = e.offers.Unveto(e.admin.ID, offer.ID)
	assert.Equal(t, apperr.ReasonNotVetoed, apperr.ReasonOf(err))
	assert.Equal(t, got, e.reloadOffer(t, offer.ID))
}

func TestOfferListingFlags(t *testing.T) {
	e := newEnv(t)
	vetoedActivity := testutil.CreateActivity(t, e.db, e.admin, "bad", testutil.Vetoed)
	ok := testutil.CreateActivity(t, e.db, e.admin, "good", testutil.Published)
	testutil.CreateOffer(t, e.db, e.author, "tainted", testutil.OfferState{}, vetoedActivity)
	clean := testutil.CreateOffer(t, e.db, e.author, "clean", testutil.OfferState{}, ok)

	views, total, err := e.offers.List(e.user.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, clean.ID, views[0].Offer.ID)
	assert.False(t, views[0].Solicitable)

	views, _, err = e.offers.List(e.admin.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, views, 2)
	flagged := 0
	for _, v := range views {
		if v.HasVetoedPrerequisite {
			flagged++
		}
	}
	assert.Equal(t, 1, flagged)

	own, total, err := e.offers.ListOwn(e.author.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, own, 2)
}

func TestGetDraftOfferOfOthers(t *testing.T) {
	e := newEnv(t)
	offer := testutil.CreateOffer(t, e.db, e.author, "draft", testutil.OfferState{Draft: true})

	_, err := e.offers.Get(e.user.ID, offer.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = e.offers.Get(e.user.ID, 31337)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.offers.Get(0, offer.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestVetoOfferBlankReason(t *testing.T) {
	e := newEnv(t)
	offer := testutil.CreateOffer(t, e.db, e.author, "open", testutil.OfferState{})
	before := e.reloadOffer(t, offer.ID)

	for _, reason := range []string{"\t", "    "} {
		_, err := e.offers.Veto(e.admin.ID, offer.ID, &dto.VetoRequest{Reason: reason})
		require.ErrorIs(t, err, apperr.ErrValidationFailed, "%q", reason)
		assert.Equal(t, apperr.ReasonInvalidField, apperr.ReasonOf(err))
	}
	assert.Equal(t, before, e.reloadOffer(t, offer.ID))
}

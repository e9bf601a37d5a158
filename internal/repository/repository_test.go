package repository_test

import (
	"errors"
	"testing"

	"websecurity/internal/eligibility"
	"websecurity/internal/models"
	"websecurity/internal/repository"
	"websecurity/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	store  *repository.Store
	admin  *models.User
	author *models.User
	other  *models.User
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	return &fixture{
		db:     db,
		store:  repository.NewStore(db),
		admin:  testutil.CreateUser(t, db, "admin", true),
		author: testutil.CreateUser(t, db, "author", false),
		other:  testutil.CreateUser(t, db, "other", false),
	}
}

func activityIDs(as []models.Activity) []uint {
	ids := []uint{}
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	return ids
}

func offerIDs(os []models.Offer) []uint {
	ids := []uint{}
	for _, o := range os {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestActivityListVisibleMatchesEligibility(t *testing.T) {
	f := newFixture(t)
	for _, u := range []*models.User{f.author, f.other} {
		testutil.CreateActivity(t, f.db, u, u.Username+"-draft", testutil.Draft)
		testutil.CreateActivity(t, f.db, u, u.Username+"-published", testutil.Published)
		testutil.CreateActivity(t, f.db, u, u.Username+"-vetoed", testutil.Vetoed)
	}

	var all []models.Activity
	require.NoError(t, f.db.Order("id").Find(&all).Error)

	for _, u := range []*models.User{f.admin, f.author, f.other} {
		t.Run(u.Username, func(t *testing.T) {
			got, total, err := f.store.Activities.ListVisible(u, 0, 0)
			require.NoError(t, err)
			want := eligibility.VisibleActivities(u, all)
			assert.Equal(t, activityIDs(want), activityIDs(got))
			assert.Equal(t, int64(len(want)), total)
		})
	}

	// 非管理员：自己的3个 + 他人已发布的1个
	got, _, err := f.store.Activities.ListVisible(f.author, 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, "author", got[0].Author.Username)
}

func TestActivityListVisiblePaginates(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		testutil.CreateActivity(t, f.db, f.author, "a", testutil.Published)
	}

	page, total, err := f.store.Activities.ListVisible(f.other, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)

	last, _, err := f.store.Activities.ListVisible(f.other, 4, 2)
	require.NoError(t, err)
	assert.Len(t, last, 1)
}

func TestOfferListVisibleMatchesEligibility(t *testing.T) {
	f := newFixture(t)
	ok := testutil.CreateActivity(t, f.db, f.author, "ok", testutil.Published)
	vetoed := testutil.CreateActivity(t, f.db, f.author, "vetoed", testutil.Vetoed)

	for _, u := range []*models.User{f.author, f.other} {
		testutil.CreateOffer(t, f.db, u, "open", testutil.OfferState{}, ok)
		testutil.CreateOffer(t, f.db, u, "draft", testutil.OfferState{Draft: true}, ok)
		testutil.CreateOffer(t, f.db, u, "closed", testutil.OfferState{Closed: true}, ok)
		testutil.CreateOffer(t, f.db, u, "vetoed", testutil.OfferState{Vetoed: true}, ok)
		testutil.CreateOffer(t, f.db, u, "vetoed-prerequisite", testutil.OfferState{}, ok, vetoed)
		testutil.CreateOffer(t, f.db, u, "no-prerequisite", testutil.OfferState{})
	}

	all, _, err := f.store.Offers.ListByAuthor(f.author.ID, 0, 0)
	require.NoError(t, err)
	others, _, err := f.store.Offers.ListByAuthor(f.other.ID, 0, 0)
	require.NoError(t, err)
	all = append(all, others...)

	for _, u := range []*models.User{f.admin, f.author, f.other} {
		t.Run(u.Username, func(t *testing.T) {
			got, total, err := f.store.Offers.ListVisible(u, 0, 0)
			require.NoError(t, err)
			want := eligibility.VisibleOffers(u, all)
			assert.Equal(t, offerIDs(want), offerIDs(got))
			assert.Equal(t, int64(len(want)), total)
		})
	}

	// 管理员不过滤含被否决前置活动的招聘
	adminView, _, err := f.store.Offers.ListVisible(f.admin, 0, 0)
	require.NoError(t, err)
	assert.Len(t, adminView, 8)
}

func TestOfferActivitiesLoadedExplicitly(t *testing.T) {
	f := newFixture(t)
	a1 := testutil.CreateActivity(t, f.db, f.author, "a1", testutil.Published)
	a2 := testutil.CreateActivity(t, f.db, f.author, "a2", testutil.Published)
	offer := testutil.CreateOffer(t, f.db, f.author, "offer", testutil.OfferState{Draft: true}, a2, a1)

	loaded, err := f.store.Offers.GetByID(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a1.ID, a2.ID}, loaded.ActivityIDs())
	assert.Equal(t, "author", loaded.Author.Username)

	require.NoError(t, f.store.Offers.SetActivities(offer.ID, []uint{a2.ID}))
	loaded, err = f.store.Offers.GetByID(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a2.ID}, loaded.ActivityIDs())

	require.NoError(t, f.store.Offers.Delete(offer.ID))
	_, err = f.store.Offers.GetByID(offer.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var junction int64
	require.NoError(t, f.db.Model(&models.OfferActivity{}).Count(&junction).Error)
	assert.Zero(t, junction)
}

func TestRequestsAndApplicants(t *testing.T) {
	f := newFixture(t)
	o1 := testutil.CreateOffer(t, f.db, f.author, "o1", testutil.OfferState{})
	o2 := testutil.CreateOffer(t, f.db, f.author, "o2", testutil.OfferState{})
	o3 := testutil.CreateOffer(t, f.db, f.author, "o3", testutil.OfferState{})

	require.NoError(t, f.store.Requests.Create(&models.Request{UserID: f.other.ID, OfferID: o3.ID}))
	require.NoError(t, f.store.Requests.Create(&models.Request{UserID: f.other.ID, OfferID: o1.ID}))
	require.NoError(t, f.store.Requests.Create(&models.Request{UserID: f.admin.ID, OfferID: o1.ID}))

	requested, err := f.store.Requests.RequestedOfferIDs(f.other.ID, []uint{o1.ID, o2.ID, o3.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{o1.ID: true, o3.ID: true}, requested)

	// 按申请先后排序
	offers, total, err := f.store.Offers.ListRequestedBy(f.other.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []uint{o3.ID, o1.ID}, offerIDs(offers))

	applicants, err := f.store.Requests.ListApplicants(o1.ID)
	require.NoError(t, err)
	require.Len(t, applicants, 2)
	assert.Equal(t, "other", applicants[0].Username)
	assert.Equal(t, "admin", applicants[1].Username)

	exists, err := f.store.Requests.Exists(f.other.ID, o2.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCompletedActivities(t *testing.T) {
	f := newFixture(t)
	a1 := testutil.CreateActivity(t, f.db, f.author, "a1", testutil.Published)
	a2 := testutil.CreateActivity(t, f.db, f.author, "a2", testutil.Published)

	require.NoError(t, f.store.Users.AddCompletedActivity(f.other.ID, a2.ID))
	require.NoError(t, f.store.Users.AddCompletedActivity(f.other.ID, a1.ID))
	require.NoError(t, f.store.Users.AddCompletedActivity(f.other.ID, a1.ID))

	user, err := f.store.Users.GetByID(f.other.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a1.ID, a2.ID}, user.CompletedActivityIDs)

	completed, err := f.store.Users.ListCompletedActivities(f.other.ID)
	require.NoError(t, err)
	assert.Len(t, completed, 2)
}

func TestTransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")

	err := f.store.Transaction(func(tx *repository.Store) error {
		testutil.CreateActivity(t, tx.DB(), f.author, "rolled-back", testutil.Published)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, f.db.Model(&models.Activity{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSessionsUpsert(t *testing.T) {
	f := newFixture(t)
	a := testutil.CreateActivity(t, f.db, f.author, "a", testutil.Published)

	s := &models.ActivitySession{UserID: f.other.ID, ActivityID: a.ID, Token: "first"}
	require.NoError(t, f.store.Sessions.Save(s))

	existing, err := f.store.Sessions.Get(f.other.ID, a.ID)
	require.NoError(t, err)
	existing.Token = "second"
	require.NoError(t, f.store.Sessions.Save(existing))

	var count int64
	require.NoError(t, f.db.Model(&models.ActivitySession{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = f.store.Sessions.GetByToken(f.other.ID, a.ID, "first")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = f.store.Sessions.GetByToken(f.other.ID, a.ID, "second")
	assert.NoError(t, err)
}

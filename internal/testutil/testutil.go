// Package testutil 测试用的数据库与数据构造工具
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"websecurity/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq int64

// NewDB 为每个测试创建独立的内存数据库并完成迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbSeq, 1))

	db, err := models.OpenDB(dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// NewLogger 丢弃输出的日志，hook 记录所有条目
func NewLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

var identSeq int64

// Identifier 生成测试用的唯一标识符
func Identifier(prefix string) string {
	return fmt.Sprintf("%s-T%09d", prefix, atomic.AddInt64(&identSeq, 1))
}

// CreateUser 创建用户
func CreateUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		IsAdmin:      admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// ActivityState 活动初始状态
type ActivityState struct {
	Draft  bool
	Vetoed bool
}

// Published 已发布未否决
var Published = ActivityState{}

// Draft 草稿
var Draft = ActivityState{Draft: true}

// Vetoed 已发布且被否决
var Vetoed = ActivityState{Vetoed: true}

// CreateActivity 直接写库创建活动
func CreateActivity(t *testing.T, db *gorm.DB, author *models.User, title string, state ActivityState) *models.Activity {
	t.Helper()
	activity := &models.Activity{
		Title:       title,
		Link:        "https://example.com/" + title,
		Description: "description of " + title,
		Draft:       state.Draft,
		Vetoed:      state.Vetoed,
		CreatedDate: models.Today(time.Now()),
		Identifier:  Identifier(models.ActivityPrefix),
		AuthorID:    author.ID,
	}
	if state.Vetoed {
		reason := "vetoed in test"
		activity.VetoReason = &reason
	}
	require.NoError(t, db.Omit("Author").Create(activity).Error)
	activity.Author = *author
	return activity
}

// OfferState 招聘初始状态
type OfferState struct {
	Draft  bool
	Closed bool
	Vetoed bool
}

// CreateOffer 直接写库创建招聘及前置活动关联
func CreateOffer(t *testing.T, db *gorm.DB, author *models.User, title string, state OfferState, activities ...*models.Activity) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		Title:       title,
		Description: "description of " + title,
		Draft:       state.Draft,
		Closed:      state.Closed,
		Vetoed:      state.Vetoed,
		CreatedDate: models.Today(time.Now()),
		Identifier:  Identifier(models.OfferPrefix),
		AuthorID:    author.ID,
	}
	if state.Vetoed {
		reason := "vetoed in test"
		offer.VetoReason = &reason
	}
	require.NoError(t, db.Omit("Author").Create(offer).Error)
	for _, a := range activities {
		require.NoError(t, db.Omit("Offer", "Activity").Create(&models.OfferActivity{OfferID: offer.ID, ActivityID: a.ID}).Error)
		offer.Activities = append(offer.Activities, *a)
	}
	offer.Author = *author
	return offer
}

// Complete 记录用户完成了活动
func Complete(t *testing.T, db *gorm.DB, user *models.User, activities ...*models.Activity) {
	t.Helper()
	for _, a := range activities {
		require.NoError(t, db.Omit("User", "Activity").Create(&models.CompletedActivity{UserID: user.ID, ActivityID: a.ID}).Error)
		user.CompletedActivityIDs = append(user.CompletedActivityIDs, a.ID)
	}
}

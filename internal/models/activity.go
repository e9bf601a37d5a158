package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// 标识符前缀
const (
	ActivityPrefix = "ACT"
	OfferPrefix    = "OFR"
)

// IdentifierPattern 活动/招聘标识符格式
var IdentifierPattern = regexp.MustCompile(`^(ACT|OFR)-\w{10}$`)

var (
	ErrVetoedWithoutReason = errors.New("a vetoed entity must have a veto reason")
	ErrFutureCreatedDate   = errors.New("created date must be in the past")
)

// ActivityStatus 活动生命周期状态
type ActivityStatus string

const (
	ActivityDraft     ActivityStatus = "DRAFT"
	ActivityPublished ActivityStatus = "PUBLISHED"
	ActivityVetoed    ActivityStatus = "VETOED"
)

// Activity 训练活动模型
type Activity struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Title          string    `gorm:"size:100;not null" json:"title"`
	Link           string    `gorm:"size:200;not null" json:"link"`
	Description    string    `gorm:"size:1000;not null" json:"description"`
	Draft          bool      `gorm:"not null" json:"draft"`
	Vetoed         bool      `gorm:"not null" json:"vetoed"`
	VetoReason     *string   `gorm:"size:1000" json:"veto_reason"`
	CommentEnabled bool      `gorm:"not null" json:"comment_enabled"`
	CreatedDate    time.Time `gorm:"not null" json:"created_date"`
	Identifier     string    `gorm:"uniqueIndex;size:30;not null" json:"identifier"`
	AuthorID       uint      `gorm:"not null;index" json:"author_id"`

	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// TableName 指定表名
func (Activity) TableName() string {
	return "activities"
}

// Status 由标志位推导出的状态
func (a *Activity) Status() ActivityStatus {
	switch {
	case a.Draft:
		return ActivityDraft
	case a.Vetoed:
		return ActivityVetoed
	default:
		return ActivityPublished
	}
}

// Validate 模型级约束检查
func (a *Activity) Validate() error {
	if a.Vetoed && (a.VetoReason == nil || strings.TrimSpace(*a.VetoReason) == "") {
		return ErrVetoedWithoutReason
	}
	if a.CreatedDate.After(time.Now()) {
		return ErrFutureCreatedDate
	}
	return validateIdentifier(a.Identifier, ActivityPrefix)
}

// BeforeSave 保存前校验
func (a *Activity) BeforeSave(tx *gorm.DB) error {
	return a.Validate()
}

func validateIdentifier(identifier, prefix string) error {
	if !IdentifierPattern.MatchString(identifier) || !strings.HasPrefix(identifier, prefix+"-") {
		return fmt.Errorf("invalid identifier %q", identifier)
	}
	return nil
}

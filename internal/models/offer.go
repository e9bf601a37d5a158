package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// OfferStatus 招聘生命周期状态
type OfferStatus string

const (
	OfferDraft  OfferStatus = "DRAFT"
	OfferOpen   OfferStatus = "OPEN"
	OfferClosed OfferStatus = "CLOSED"
	OfferVetoed OfferStatus = "VETOED"
)

// Offer 招聘模型，需要先完成前置活动
type Offer struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	Draft       bool      `gorm:"not null" json:"draft"`
	Closed      bool      `gorm:"not null" json:"closed"`
	Vetoed      bool      `gorm:"not null" json:"vetoed"`
	VetoReason  *string   `gorm:"size:1000" json:"veto_reason"`
	CreatedDate time.Time `gorm:"not null" json:"created_date"`
	Identifier  string    `gorm:"uniqueIndex;size:30;not null" json:"identifier"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`

	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`

	// 前置活动，由 OfferRepository 显式加载
	Activities []Activity `gorm:"-" json:"activities,omitempty"`
}

// TableName 指定表名
func (Offer) TableName() string {
	return "offers"
}

// Status 由标志位推导出的状态
func (o *Offer) Status() OfferStatus {
	switch {
	case o.Draft:
		return OfferDraft
	case o.Vetoed:
		return OfferVetoed
	case o.Closed:
		return OfferClosed
	default:
		return OfferOpen
	}
}

// ActivityIDs 前置活动ID列表
func (o *Offer) ActivityIDs() []uint {
	ids := make([]uint, 0, len(o.Activities))
	for _, a := range o.Activities {
		ids = append(ids, a.ID)
	}
	return ids
}

// Validate 模型级约束检查
func (o *Offer) Validate() error {
	if o.Vetoed && (o.VetoReason == nil || strings.TrimSpace(*o.VetoReason) == "") {
		return ErrVetoedWithoutReason
	}
	if o.CreatedDate.After(time.Now()) {
		return ErrFutureCreatedDate
	}
	return validateIdentifier(o.Identifier, OfferPrefix)
}

// BeforeSave 保存前校验
func (o *Offer) BeforeSave(tx *gorm.DB) error {
	return o.Validate()
}

// OfferActivity 招聘与前置活动关联表
type OfferActivity struct {
	OfferID    uint `gorm:"primaryKey" json:"offer_id"`
	ActivityID uint `gorm:"primaryKey" json:"activity_id"`

	Offer    Offer    `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"-"`
	Activity Activity `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (OfferActivity) TableName() string {
	return "offer_activities"
}

// Request 用户对招聘的申请
type Request struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_request_user_offer" json:"user_id"`
	OfferID   uint      `gorm:"not null;uniqueIndex:idx_request_user_offer;index" json:"offer_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Offer Offer `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"offer,omitempty"`
}

// TableName 指定表名
func (Request) TableName() string {
	return "requests"
}

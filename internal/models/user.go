package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Username      string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	FirstName     string    `gorm:"size:30" json:"first_name"`
	LastName      string    `gorm:"size:30" json:"last_name"`
	Email         string    `gorm:"size:50" json:"email"`
	Phone         string    `gorm:"size:30" json:"phone"`
	CompanyOrTeam string    `gorm:"size:100" json:"company_or_team"`
	Vetoed        bool      `gorm:"default:false" json:"vetoed"`
	IsAdmin       bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 已完成的活动ID，由 UserRepository 显式加载
	CompletedActivityIDs []uint `gorm:"-" json:"completed_activity_ids,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// HasCompleted 判断用户是否完成了指定活动
func (u *User) HasCompleted(activityID uint) bool {
	for _, id := range u.CompletedActivityIDs {
		if id == activityID {
			return true
		}
	}
	return false
}

// CompletedActivity 用户已完成活动关联表
type CompletedActivity struct {
	UserID     uint      `gorm:"primaryKey" json:"user_id"`
	ActivityID uint      `gorm:"primaryKey" json:"activity_id"`
	CreatedAt  time.Time `json:"created_at"`

	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Activity Activity `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (CompletedActivity) TableName() string {
	return "user_completed_activities"
}

// Attachment 用户附件（URL）
type Attachment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	URL       string    `gorm:"size:200;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Attachment) TableName() string {
	return "attachments"
}

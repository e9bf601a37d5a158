package models

import (
	"time"
)

// ActivitySession 活动练习会话，每个 (user, activity) 最多一条
type ActivitySession struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_session_user_activity" json:"user_id"`
	ActivityID uint      `gorm:"not null;uniqueIndex:idx_session_user_activity" json:"activity_id"`
	Token      string    `gorm:"size:100;not null" json:"token"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Activity Activity `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (ActivitySession) TableName() string {
	return "activity_sessions"
}

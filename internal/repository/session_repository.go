package repository

import (
	"websecurity/internal/models"

	"gorm.io/gorm"
)

// SessionRepository 活动会话数据访问层
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话Repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get 获取 (user, activity) 的会话
func (r *SessionRepository) Get(userID, activityID uint) (*models.ActivitySession, error) {
	var session models.ActivitySession
	err := r.db.Where("user_id = ? AND activity_id = ?", userID, activityID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetByToken 获取与令牌匹配的会话
func (r *SessionRepository) GetByToken(userID, activityID uint, token string) (*models.ActivitySession, error) {
	var session models.ActivitySession
	err := r.db.Where("user_id = ? AND activity_id = ? AND token = ?", userID, activityID, token).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Save 创建或更新会话
func (r *SessionRepository) Save(session *models.ActivitySession) error {
	return r.db.Omit("User", "Activity").Save(session).Error
}

// Delete 删除会话
func (r *SessionRepository) Delete(id uint) error {
	return r.db.Delete(&models.ActivitySession{}, id).Error
}
